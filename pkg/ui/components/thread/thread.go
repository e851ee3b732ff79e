// Package thread renders the active conversation: the message history, the
// in-flight indicator, starter prompts for an empty conversation and the
// input box.
package thread

import (
	"fmt"
	"os"
	"strings"

	"agentchat/pkg/chat"
	"agentchat/pkg/ui/components/starters"
	"agentchat/pkg/ui/components/utils"
	"agentchat/pkg/ui/styles"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

const (
	borderSize     = 1
	paddingH       = 1
	textareaHeight = 3
	// title + separator + footer
	chromeLines = 3

	thinkingText = "Thinking..."
	footerIdle   = "Enter Send | Up/Down Scroll | Ctrl+Y Copy | Tab List"
	footerBusy   = "Waiting for the agent... | Up/Down Scroll"
)

// SubmitMsg is returned when the user submits the input.
type SubmitMsg struct {
	Content string
}

// Thread shows one conversation and owns the input box.
type Thread struct {
	title    string
	messages []chat.Message
	prompts  []string
	loading  bool

	width   int
	height  int
	scrollY int
	lines   []string
	follow  bool
	focused bool

	textarea textarea.Model

	// clipboard receives OSC52 sequences; nil means os.Stdout.
	clipboard func(seq string)
}

// New creates a thread pane with an empty input box.
func New() *Thread {
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.ShowLineNumbers = false
	ta.SetHeight(textareaHeight)

	return &Thread{
		title:    chat.DefaultTitle,
		follow:   true,
		textarea: ta,
	}
}

// SetSize sets the pane dimensions including its border.
func (t *Thread) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.textarea.SetWidth(t.contentWidth())
	t.reflow()
}

// SetTitle sets the heading shown above the messages.
func (t *Thread) SetTitle(title string) {
	if strings.TrimSpace(title) == "" {
		title = chat.DefaultTitle
	}
	t.title = title
}

// SetPrompts sets the starter prompts offered on an empty conversation.
func (t *Thread) SetPrompts(prompts []string) {
	t.prompts = append([]string(nil), prompts...)
	t.reflow()
}

// SetMessages replaces the visible messages. The view sticks to the bottom
// unless the user scrolled up.
func (t *Thread) SetMessages(messages []chat.Message, loading bool) {
	t.messages = append([]chat.Message(nil), messages...)
	t.loading = loading
	t.reflow()
	if t.follow {
		t.scrollY = t.maxScroll()
	}
}

// Messages returns the visible messages.
func (t *Thread) Messages() []chat.Message {
	return t.messages
}

// IsLoading reports whether a reply is pending.
func (t *Thread) IsLoading() bool {
	return t.loading
}

// ShowsStarters reports whether the starter prompts are on screen.
func (t *Thread) ShowsStarters() bool {
	return len(t.prompts) > 0 &&
		len(t.messages) == 1 &&
		t.messages[0].Role == chat.RoleAssistant &&
		t.messages[0].Content == chat.WelcomeText
}

// Focus gives the input box keyboard focus.
func (t *Thread) Focus() {
	t.focused = true
	t.textarea.Focus()
}

// Blur removes keyboard focus from the input box.
func (t *Thread) Blur() {
	t.focused = false
	t.textarea.Blur()
}

// Focused reports whether the input box has focus.
func (t *Thread) Focused() bool {
	return t.focused
}

// Value returns the current input text.
func (t *Thread) Value() string {
	return t.textarea.Value()
}

// SetValue replaces the input text.
func (t *Thread) SetValue(text string) {
	if t.textarea.Value() == text {
		return
	}
	t.textarea.SetValue(text)
}

// InsertString inserts pasted text at the cursor.
func (t *Thread) InsertString(text string) {
	t.textarea.InsertString(text)
}

// Update handles keyboard input while the pane has focus.
func (t *Thread) Update(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		if t.loading {
			return nil
		}
		content := t.textarea.Value()
		if strings.TrimSpace(content) == "" {
			return nil
		}
		t.textarea.Reset()
		t.follow = true
		return func() tea.Msg {
			return SubmitMsg{Content: content}
		}
	case "up", "down", "pgup", "pgdown":
		t.scroll(msg.String())
		return nil
	}

	var cmd tea.Cmd
	t.textarea, cmd = t.textarea.Update(msg)
	return cmd
}

func (t *Thread) scroll(key string) {
	maxScroll := t.maxScroll()
	step := 1
	if key == "pgup" || key == "pgdown" {
		step = t.viewportHeight()
	}

	switch key {
	case "up", "pgup":
		t.scrollY -= step
	case "down", "pgdown":
		t.scrollY += step
	}
	if t.scrollY < 0 {
		t.scrollY = 0
	}
	if t.scrollY > maxScroll {
		t.scrollY = maxScroll
	}
	t.follow = t.scrollY >= maxScroll
}

// LastReply returns the content of the newest assistant message.
func (t *Thread) LastReply() (string, bool) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Role == chat.RoleAssistant {
			return t.messages[i].Content, true
		}
	}
	return "", false
}

// CopyLastReply copies the newest assistant message to the system clipboard.
func (t *Thread) CopyLastReply() tea.Cmd {
	text, ok := t.LastReply()
	if !ok {
		return nil
	}
	write := t.clipboard
	if write == nil {
		write = func(seq string) { _, _ = fmt.Fprint(os.Stdout, seq) }
	}
	return func() tea.Msg {
		write(osc52Sequence(text))
		return nil
	}
}

// View renders the pane.
func (t *Thread) View() string {
	contentWidth := t.contentWidth()
	contentHeight := t.contentHeight()
	viewportHeight := t.viewportHeight()

	lines := make([]string, 0, contentHeight)
	lines = append(lines, utils.PadStyled(styles.TitleStyle.Render(utils.TruncateToWidth(t.title, contentWidth)), contentWidth))

	end := t.scrollY + viewportHeight
	if end > len(t.lines) {
		end = len(t.lines)
	}
	for i := t.scrollY; i < end; i++ {
		lines = append(lines, utils.PadStyled(t.lines[i], contentWidth))
	}
	for len(lines) < 1+viewportHeight {
		lines = append(lines, strings.Repeat(" ", contentWidth))
	}

	lines = append(lines, strings.Repeat("─", contentWidth))

	taLines := strings.Split(t.textarea.View(), "\n")
	for i := 0; i < textareaHeight; i++ {
		line := ""
		if i < len(taLines) {
			line = taLines[i]
		}
		lines = append(lines, utils.PadStyled(line, contentWidth))
	}

	footer := footerIdle
	if t.loading {
		footer = footerBusy
	}
	lines = append(lines, utils.PadStyled(styles.FooterStyle.Render(utils.TruncateToWidth(footer, contentWidth)), contentWidth))

	style := styles.PaneStyleMuted
	if t.focused {
		style = styles.PaneStyle
	}
	return style.
		Width(t.boxWidth()).
		Padding(0, paddingH).
		Render(strings.Join(lines, "\n"))
}

func (t *Thread) reflow() {
	width := t.contentWidth()
	lines := renderMessages(t.messages, width)
	if t.loading {
		lines = append(lines, "", styles.ThinkingStyle.Render(thinkingText))
	}
	if t.ShowsStarters() {
		lines = append(lines, "")
		lines = append(lines, strings.Split(starters.Render(t.prompts, width), "\n")...)
	}
	t.lines = lines

	if t.scrollY > t.maxScroll() {
		t.scrollY = t.maxScroll()
	}
	if t.scrollY < 0 {
		t.scrollY = 0
	}
}

func (t *Thread) boxWidth() int {
	if t.width < 1 {
		return 1
	}
	return t.width
}

func (t *Thread) contentWidth() int {
	width := t.width - 2*(borderSize+paddingH)
	if width < 1 {
		return 1
	}
	return width
}

func (t *Thread) contentHeight() int {
	height := t.height - 2*borderSize
	if height < 1 {
		return 1
	}
	return height
}

func (t *Thread) viewportHeight() int {
	h := t.contentHeight() - chromeLines - textareaHeight
	if h < 1 {
		return 1
	}
	return h
}

func (t *Thread) maxScroll() int {
	max := len(t.lines) - t.viewportHeight()
	if max < 0 {
		return 0
	}
	return max
}
