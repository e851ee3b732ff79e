// Package ui is the terminal front end: a conversation list on the left and
// the active thread on the right, both redrawn from store snapshots.
package ui

import (
	"context"
	"log/slog"

	"agentchat/pkg/agent"
	"agentchat/pkg/chat"
	"agentchat/pkg/ui/components/convlist"
	"agentchat/pkg/ui/components/starters"
	"agentchat/pkg/ui/components/thread"

	tea "charm.land/bubbletea/v2"
)

// replyMsg carries the agent's answer back to the UI goroutine.
type replyMsg struct {
	pending chat.Pending
	reply   agent.Reply
	err     error
}

// Model is the Bubble Tea model of the chat client.
type Model struct {
	ctx     context.Context
	store   *chat.Store
	agent   agent.Agent
	prompts []string
	logger  *slog.Logger

	layout *LayoutManager
	list   *convlist.List
	thread *thread.Thread
	ready  bool

	unsubscribe func()
}

// NewModel creates the UI over store. Replies are requested from a using ctx.
func NewModel(ctx context.Context, store *chat.Store, a agent.Agent, prompts []string) Model {
	m := Model{
		ctx:     ctx,
		store:   store,
		agent:   a,
		prompts: prompts,
		logger:  slog.Default().With("component", "ui"),
		layout:  NewLayoutManager(),
		list:    convlist.New(),
		thread:  thread.New(),
	}
	m.thread.SetPrompts(prompts)
	m.thread.Focus()

	m.unsubscribe = store.Subscribe(m.apply)
	m.apply(store.Snapshot())
	return m
}

// apply redraws the panes from a store snapshot. Only pointer fields are
// touched, so the copy bound at subscription time stays valid.
func (m Model) apply(snap chat.Snapshot) {
	m.list.SetConversations(snap.Conversations, snap.ActiveID)

	title := chat.DefaultTitle
	if conv, ok := snap.Active(); ok {
		title = conv.Title
	}
	m.thread.SetTitle(title)
	m.thread.SetMessages(snap.Messages, snap.Loading)
	m.thread.SetValue(snap.Input)
}

// Init initializes the model (Bubble Tea lifecycle method)
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates model state (Bubble Tea lifecycle method)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.layout.SetSize(msg.Width, msg.Height)
		m.list.SetSize(m.layout.ListWidth(), m.layout.PaneHeight())
		m.thread.SetSize(m.layout.ThreadWidth(), m.layout.PaneHeight())
		m.ready = true
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		if m.thread.Focused() {
			m.thread.InsertString(msg.Content)
			m.syncInput()
		}
		return m, nil

	case thread.SubmitMsg:
		pending, ok := m.store.BeginSend(msg.Content)
		if !ok {
			return m, nil
		}
		return m, askAgent(m.ctx, m.agent, pending)

	case replyMsg:
		m.store.Complete(msg.pending, msg.reply, msg.err)
		return m, nil

	case convlist.SelectMsg:
		if err := m.store.SelectConversation(msg.ID); err != nil {
			m.logger.Warn("ui_select_failed", "conversation_id", msg.ID, "error", err)
		}
		m.focusThread()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "ctrl+c":
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit

	case "ctrl+n":
		m.store.CreateConversation()
		m.focusThread()
		return m, nil

	case "tab":
		if m.list.Focused() {
			m.focusThread()
		} else {
			m.focusList()
		}
		return m, nil

	case "ctrl+y":
		return m, m.thread.CopyLastReply()

	case "alt+1", "alt+2", "alt+3", "alt+4":
		if prompt, ok := starters.Prompt(m.prompts, int(key[len(key)-1]-'0')); ok {
			m.store.SetInput(prompt)
			m.focusThread()
		}
		return m, nil
	}

	if m.list.Focused() {
		return m, m.list.Update(msg)
	}
	cmd := m.thread.Update(msg)
	m.syncInput()
	return m, cmd
}

// syncInput mirrors the input box into the store's pending input.
func (m Model) syncInput() {
	if v := m.thread.Value(); v != m.store.Input() {
		m.store.SetInput(v)
	}
}

func (m Model) focusThread() {
	m.list.Blur()
	m.thread.Focus()
}

func (m Model) focusList() {
	m.thread.Blur()
	m.list.Focus()
}

// askAgent runs the request off the UI goroutine.
func askAgent(ctx context.Context, a agent.Agent, p chat.Pending) tea.Cmd {
	return func() tea.Msg {
		reply, err := a.Ask(ctx, p.Message.Content)
		return replyMsg{pending: p, reply: reply, err: err}
	}
}

// View renders the UI (Bubble Tea lifecycle method)
func (m Model) View() tea.View {
	content := "Initializing..."
	if m.ready {
		content = m.layout.RenderLayout(m.list.View(), m.thread.View())
	}
	v := tea.NewView(content)
	v.AltScreen = true
	return v
}
