package chat

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultTitle is the placeholder title of a conversation that has not been named yet.
const DefaultTitle = "New Chat"

const (
	maxTitleRunes = 40
	titleEllipsis = "..."
)

// Fixed assistant texts.
const (
	WelcomeText      = "Hello! I'm your AI assistant. How can I help you today?"
	NetworkErrorText = "Sorry, I'm having trouble connecting to the agent right now. Please try again later."
)

// Message is a single chat turn. Messages are never modified after creation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is a titled, ordered sequence of messages.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FirstUserMessage returns the earliest message authored by the user.
func (c Conversation) FirstUserMessage() (Message, bool) {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			return msg, true
		}
	}
	return Message{}, false
}

// DeriveTitle builds a conversation title from the first user message:
// the text itself when it fits in 40 characters, otherwise its first 40
// characters followed by "...".
func DeriveTitle(text string) string {
	if utf8.RuneCountInString(text) <= maxTitleRunes {
		return text
	}
	return string([]rune(text)[:maxTitleRunes]) + titleEllipsis
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

func cloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	return append([]Message(nil), msgs...)
}

func cloneConversation(c Conversation) Conversation {
	c.Messages = cloneMessages(c.Messages)
	return c
}
