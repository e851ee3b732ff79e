package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"agentchat/pkg/agent"
	"agentchat/pkg/chat"
	"agentchat/pkg/storage"
	"agentchat/pkg/ui/components/testutils"

	tea "charm.land/bubbletea/v2"
)

var testPrompts = []string{"First prompt", "Second prompt"}

type stubAgent struct {
	reply    agent.Reply
	err      error
	received []string
}

func (a *stubAgent) Ask(_ context.Context, message string) (agent.Reply, error) {
	a.received = append(a.received, message)
	return a.reply, a.err
}

func newTestModel(t *testing.T, a agent.Agent) (Model, *chat.Store) {
	t.Helper()
	store := chat.NewStore(storage.NewMemoryKV(), "chatConversations",
		chat.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	m := NewModel(context.Background(), store, a, testPrompts)
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, store
}

// cmdTimeout bounds how long send waits on a command. Cursor blink ticks
// sleep for the blink interval and are dropped.
const cmdTimeout = 100 * time.Millisecond

// send delivers msg and then every message produced by the resulting
// commands, the way the Bubble Tea runtime would.
func send(m Model, msg tea.Msg) Model {
	next, cmd := m.Update(msg)
	m = next.(Model)
	for _, out := range runCmd(cmd) {
		if _, quit := out.(tea.QuitMsg); quit {
			return m
		}
		m = send(m, out)
	}
	return m
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case out := <-done:
		switch out := out.(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			var msgs []tea.Msg
			for _, c := range out {
				msgs = append(msgs, runCmd(c)...)
			}
			return msgs
		default:
			return []tea.Msg{out}
		}
	case <-time.After(cmdTimeout):
		return nil
	}
}

func typeText(m Model, text string) Model {
	for _, key := range testutils.TypeText(text) {
		m = send(m, key)
	}
	return m
}

func TestNewModel_ShowsWelcome(t *testing.T) {
	m, _ := newTestModel(t, &stubAgent{})

	msgs := m.thread.Messages()
	if len(msgs) != 1 || msgs[0].Content != chat.WelcomeText {
		t.Fatalf("Expected welcome message, got %+v", msgs)
	}
	if !m.thread.Focused() {
		t.Error("Input should have focus on start")
	}
}

func TestModel_Init(t *testing.T) {
	m, _ := newTestModel(t, &stubAgent{})
	if cmd := m.Init(); cmd != nil {
		t.Error("Expected no startup command")
	}
}

func TestModel_View(t *testing.T) {
	store := chat.NewStore(storage.NewMemoryKV(), "k")
	m := NewModel(context.Background(), store, &stubAgent{}, nil)

	if v := m.View(); !strings.Contains(v.Content, "Initializing") {
		t.Errorf("Expected placeholder before the first resize, got %q", v.Content)
	}

	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	v := m.View()
	if !v.AltScreen {
		t.Error("Expected alt screen")
	}
	if !strings.Contains(v.Content, "Conversations") {
		t.Error("Expected conversation list pane")
	}
}

func TestModel_TypingUpdatesStoreInput(t *testing.T) {
	m, store := newTestModel(t, &stubAgent{})

	m = typeText(m, "draft")

	if store.Input() != "draft" {
		t.Errorf("Expected store input 'draft', got %q", store.Input())
	}
}

func TestModel_SendRoundTrip(t *testing.T) {
	a := &stubAgent{reply: agent.Reply{Kind: agent.ReplyText, Text: "Hello back"}}
	m, store := newTestModel(t, a)

	m = typeText(m, "Hello")
	m = send(m, testutils.TestKeyEnter)

	if len(a.received) != 1 || a.received[0] != "Hello" {
		t.Fatalf("Expected agent to receive 'Hello', got %v", a.received)
	}

	snap := store.Snapshot()
	if snap.Loading {
		t.Error("Loading should be cleared after the reply")
	}
	if snap.Input != "" {
		t.Errorf("Input should be cleared, got %q", snap.Input)
	}
	last := snap.Messages[len(snap.Messages)-1]
	if last.Content != "Hello back" {
		t.Errorf("Expected reply in thread, got %q", last.Content)
	}
	if got := m.thread.Messages(); len(got) != len(snap.Messages) {
		t.Errorf("Thread pane out of sync: %d vs %d messages", len(got), len(snap.Messages))
	}
	if conv, _ := snap.Active(); conv.Title != "Hello" {
		t.Errorf("Expected title 'Hello', got %q", conv.Title)
	}
}

func TestModel_SendFailureShowsNetworkError(t *testing.T) {
	a := &stubAgent{err: errors.New("dial tcp: connection refused")}
	m, store := newTestModel(t, a)

	m = typeText(m, "anyone?")
	send(m, testutils.TestKeyEnter)

	snap := store.Snapshot()
	last := snap.Messages[len(snap.Messages)-1]
	if last.Content != chat.NetworkErrorText {
		t.Errorf("Expected network error text, got %q", last.Content)
	}
	if snap.Loading {
		t.Error("Loading should be cleared after a failure")
	}
}

func TestModel_EnterIgnoredWhileLoading(t *testing.T) {
	a := &stubAgent{reply: agent.Reply{Kind: agent.ReplyText, Text: "ok"}}
	m, store := newTestModel(t, a)

	if _, ok := store.BeginSend("in flight"); !ok {
		t.Fatal("BeginSend failed")
	}

	m = typeText(m, "second")
	send(m, testutils.TestKeyEnter)

	if len(a.received) != 0 {
		t.Errorf("No request should be sent while loading, got %v", a.received)
	}
	if store.Input() != "second" {
		t.Errorf("Typed text should be kept, got %q", store.Input())
	}
}

func TestModel_CtrlNCreatesConversation(t *testing.T) {
	m, store := newTestModel(t, &stubAgent{})

	m = send(m, testutils.TestKeyCtrlN)
	send(m, testutils.TestKeyCtrlN)

	snap := store.Snapshot()
	if len(snap.Conversations) != 2 {
		t.Fatalf("Expected 2 conversations, got %d", len(snap.Conversations))
	}
	if snap.ActiveID != snap.Conversations[0].ID {
		t.Error("Newest conversation should be active")
	}
}

func TestModel_StarterPromptFillsInput(t *testing.T) {
	a := &stubAgent{}
	m, store := newTestModel(t, a)

	m = send(m, testutils.NewAltKeyPressMsg('2'))

	if store.Input() != "Second prompt" {
		t.Errorf("Expected starter prompt in input, got %q", store.Input())
	}
	if m.thread.Value() != "Second prompt" {
		t.Errorf("Expected input box to show the prompt, got %q", m.thread.Value())
	}
	if len(a.received) != 0 {
		t.Error("Starter prompts must not send on their own")
	}

	send(m, testutils.NewAltKeyPressMsg('4'))
	if store.Input() != "Second prompt" {
		t.Error("Unbound shortcut should leave the input alone")
	}
}

func TestModel_SelectFromList(t *testing.T) {
	m, store := newTestModel(t, &stubAgent{})
	first := store.CreateConversation()
	store.CreateConversation()

	m = send(m, testutils.TestKeyTab)
	if !m.list.Focused() {
		t.Fatal("Tab should focus the list")
	}

	m = send(m, testutils.TestKeyDown)
	m = send(m, testutils.TestKeyEnter)

	if store.Snapshot().ActiveID != first.ID {
		t.Errorf("Expected %s active, got %s", first.ID, store.Snapshot().ActiveID)
	}
	if !m.thread.Focused() {
		t.Error("Opening a conversation should return focus to the input")
	}
}

func TestModel_ReopenActiveWhileLoading(t *testing.T) {
	m, store := newTestModel(t, &stubAgent{})
	store.CreateConversation()
	if _, ok := store.BeginSend("still waiting"); !ok {
		t.Fatal("BeginSend failed")
	}

	m = send(m, testutils.TestKeyTab)
	m = send(m, testutils.TestKeyEnter)

	msgs := m.thread.Messages()
	if len(msgs) != 2 || msgs[1].Content != "still waiting" {
		t.Errorf("Expected the pending question to stay visible, got %+v", msgs)
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m, store := newTestModel(t, &stubAgent{})

	_, cmd := m.Update(testutils.TestKeyCtrlC)
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}

	// The model no longer listens to the store.
	store.SetInput("after quit")
	if m.thread.Value() == "after quit" {
		t.Error("Snapshots should not reach the model after quitting")
	}
}

func TestLayoutManager_Widths(t *testing.T) {
	lm := NewLayoutManager()

	tests := []struct {
		width    int
		wantList int
	}{
		{40, 20},
		{90, 30},
		{200, maxListWidth},
	}
	for _, tt := range tests {
		lm.SetSize(tt.width, 30)
		if got := lm.ListWidth(); got != tt.wantList {
			t.Errorf("width %d: ListWidth() = %d, want %d", tt.width, got, tt.wantList)
		}
		if lm.ListWidth()+lm.ThreadWidth() != tt.width {
			t.Errorf("width %d: panes do not fill the screen", tt.width)
		}
	}
}
