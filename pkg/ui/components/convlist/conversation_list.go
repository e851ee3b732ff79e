// Package convlist renders the conversation list pane.
package convlist

import (
	"strings"
	"time"

	"agentchat/pkg/chat"
	"agentchat/pkg/ui/components/utils"
	"agentchat/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

const (
	borderSize = 1
	paddingH   = 1
	// each conversation takes a title row and a timestamp row
	itemHeight = 2
	// title + blank + footer
	chromeLines = 3

	listTitle   = "Conversations"
	emptyText   = "No conversations yet"
	footerLabel = "Ctrl+N New | Enter Open"
)

// SelectMsg is sent when the user opens a conversation from the list.
type SelectMsg struct {
	ID string
}

// List shows conversations most recent first and tracks a cursor.
type List struct {
	items    []chat.Conversation
	activeID string
	selected int
	scroll   int
	focused  bool
	width    int
	height   int

	now func() time.Time
}

// New creates an empty list.
func New() *List {
	return &List{now: time.Now}
}

// SetSize sets the pane dimensions including its border.
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

// SetConversations replaces the listed conversations. Without focus the
// cursor follows the active conversation.
func (l *List) SetConversations(items []chat.Conversation, activeID string) {
	l.items = append([]chat.Conversation(nil), items...)
	l.activeID = activeID
	if !l.focused {
		l.selected = l.indexOf(activeID)
	}
	l.ensureVisible()
}

// Focus gives the list keyboard focus.
func (l *List) Focus() {
	l.focused = true
	l.selected = l.indexOf(l.activeID)
	l.ensureVisible()
}

// Blur removes keyboard focus.
func (l *List) Blur() {
	l.focused = false
}

// Focused reports whether the list has keyboard focus.
func (l *List) Focused() bool {
	return l.focused
}

// Selected returns the conversation under the cursor.
func (l *List) Selected() (chat.Conversation, bool) {
	if l.selected < 0 || l.selected >= len(l.items) {
		return chat.Conversation{}, false
	}
	return l.items[l.selected], true
}

// Update handles keyboard input while the list has focus.
func (l *List) Update(msg tea.KeyPressMsg) tea.Cmd {
	visible := l.visibleItems()

	switch msg.String() {
	case "up":
		if l.selected > 0 {
			l.selected--
		}
	case "down":
		if l.selected < len(l.items)-1 {
			l.selected++
		}
	case "pgup":
		l.selected -= visible
	case "pgdown":
		l.selected += visible
	case "home":
		l.selected = 0
	case "end":
		l.selected = len(l.items) - 1
	case "enter":
		conv, ok := l.Selected()
		if !ok {
			return nil
		}
		return func() tea.Msg {
			return SelectMsg{ID: conv.ID}
		}
	default:
		return nil
	}

	l.ensureVisible()
	return nil
}

// View renders the pane.
func (l *List) View() string {
	contentWidth := l.contentWidth()
	contentHeight := l.contentHeight()
	visible := l.visibleItems()
	now := l.now()

	lines := make([]string, 0, contentHeight)
	lines = append(lines, utils.PadStyled(styles.TitleStyle.Render(listTitle), contentWidth), "")

	if len(l.items) == 0 {
		lines = append(lines, styles.TextMutedStyle.Render(utils.TruncateToWidth(emptyText, contentWidth)))
	}
	for i := 0; i < visible; i++ {
		index := l.scroll + i
		if index >= len(l.items) {
			break
		}
		conv := l.items[index]

		title := "  " + utils.TruncateToWidth(conv.Title, contentWidth-2)
		when := "  " + utils.RelativeTime(conv.UpdatedAt, now)

		switch {
		case l.focused && index == l.selected:
			lines = append(lines, styles.SelectedStyle.Render(utils.PadPlain(title, contentWidth)))
		case conv.ID == l.activeID:
			lines = append(lines, utils.PadStyled(styles.ActiveStyle.Render("▸ "+strings.TrimPrefix(title, "  ")), contentWidth))
		default:
			lines = append(lines, utils.PadStyled(styles.TextStyle.Render(title), contentWidth))
		}
		lines = append(lines, utils.TruncateStyled(styles.TextMutedStyle.Render(when), contentWidth))
	}

	for len(lines) < contentHeight-1 {
		lines = append(lines, "")
	}
	lines = append(lines, styles.FooterStyle.Render(utils.TruncateToWidth(footerLabel, contentWidth)))

	style := styles.PaneStyleMuted
	if l.focused {
		style = styles.PaneStyle
	}
	return style.
		Width(l.boxWidth()).
		Padding(0, paddingH).
		Render(strings.Join(lines, "\n"))
}

func (l *List) indexOf(id string) int {
	for i, c := range l.items {
		if c.ID == id {
			return i
		}
	}
	return 0
}

// ensureVisible clamps the cursor and scrolls so it stays on screen.
func (l *List) ensureVisible() {
	if len(l.items) == 0 {
		l.selected = 0
		l.scroll = 0
		return
	}
	if l.selected < 0 {
		l.selected = 0
	}
	if l.selected >= len(l.items) {
		l.selected = len(l.items) - 1
	}

	visible := l.visibleItems()
	maxScroll := len(l.items) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if l.scroll > maxScroll {
		l.scroll = maxScroll
	}
	if l.selected < l.scroll {
		l.scroll = l.selected
	}
	if l.selected >= l.scroll+visible {
		l.scroll = l.selected - visible + 1
	}
	if l.scroll < 0 {
		l.scroll = 0
	}
}

func (l *List) boxWidth() int {
	if l.width < 1 {
		return 1
	}
	return l.width
}

func (l *List) contentWidth() int {
	width := l.width - 2*(borderSize+paddingH)
	if width < 1 {
		return 1
	}
	return width
}

func (l *List) contentHeight() int {
	height := l.height - 2*borderSize
	if height < 1 {
		return 1
	}
	return height
}

func (l *List) visibleItems() int {
	n := (l.contentHeight() - chromeLines) / itemHeight
	if n < 1 {
		return 1
	}
	return n
}
