package chat

import (
	"context"
	"strings"

	"agentchat/pkg/agent"
)

// Outcome is the settled state of a round-trip.
type Outcome int

const (
	// OutcomeSuccess means the agent answered with usable text.
	OutcomeSuccess Outcome = iota
	// OutcomeFallback means the agent reported failure or answered without text.
	OutcomeFallback
	// OutcomeError means the request itself failed.
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFallback:
		return "fallback"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Pending is a round-trip that has been started but not settled.
type Pending struct {
	ConversationID string
	Message        Message

	// history is the visible thread at send time, ending with Message.
	history []Message
}

// BeginSend starts a round-trip for text. It is rejected, without touching
// any state, when text is blank or another round-trip is in flight.
// Otherwise the user message is appended to the visible thread right away,
// the input is cleared and the store enters the loading state.
//
// When no conversation is active one is created from the visible thread so
// the exchange has somewhere to be saved.
func (s *Store) BeginSend(text string) (Pending, bool) {
	s.mu.Lock()
	if isBlank(text) || s.loading {
		s.mu.Unlock()
		return Pending{}, false
	}

	now := s.now()
	if s.indexLocked(s.activeID) < 0 {
		conv := Conversation{
			ID:        s.conversationIDLocked(now),
			Title:     DefaultTitle,
			Messages:  cloneMessages(s.messages),
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.conversations = append([]Conversation{conv}, s.conversations...)
		s.activeID = conv.ID
		s.logger.Info("conversation_created", "conversation_id", conv.ID, "implicit", true)
		s.autoPersistLocked()
	}

	msg := Message{
		ID:        s.newID(),
		Role:      RoleUser,
		Content:   text,
		CreatedAt: now,
	}
	s.messages = append(s.messages, msg)
	s.input = ""
	s.loading = true

	pending := Pending{
		ConversationID: s.activeID,
		Message:        msg,
		history:        cloneMessages(s.messages),
	}
	s.inFlight = &pending
	s.logger.Info("send_started", "conversation_id", pending.ConversationID, "message_id", msg.ID)
	s.unlockAndPublish()
	return pending, true
}

// Complete settles p with the agent's answer or the error that prevented one.
// The assistant message is saved into the conversation the message was sent
// from, and shown only if that conversation is still active. The loading
// state is always cleared.
func (s *Store) Complete(p Pending, reply agent.Reply, err error) Outcome {
	outcome := OutcomeSuccess
	content := reply.Text
	switch {
	case err != nil:
		outcome = OutcomeError
		content = NetworkErrorText
		s.logger.Warn("send_failed", "conversation_id", p.ConversationID, "error", err)
	case reply.Kind == agent.ReplyFallback:
		outcome = OutcomeFallback
	}
	if err == nil && strings.TrimSpace(content) == "" {
		outcome = OutcomeFallback
		content = agent.UnableToProcessText
	}

	s.mu.Lock()
	now := s.now()
	assistant := Message{
		ID:        s.newID(),
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: now,
	}

	settled := append(cloneMessages(p.history), assistant)
	if idx := s.indexLocked(p.ConversationID); idx >= 0 {
		conv := &s.conversations[idx]
		conv.Messages = settled
		conv.UpdatedAt = now
		if conv.Title == DefaultTitle {
			if first, ok := conv.FirstUserMessage(); ok {
				conv.Title = DeriveTitle(first.Content)
			}
		}
	}
	if s.activeID == p.ConversationID {
		s.messages = cloneMessages(settled)
	}
	s.loading = false
	s.inFlight = nil

	s.logger.Info("send_settled", "conversation_id", p.ConversationID, "outcome", outcome.String())
	s.autoPersistLocked()
	s.unlockAndPublish()
	return outcome
}

// Send runs a full round-trip against a and blocks until it settles.
// ok is false when the send was rejected.
func (s *Store) Send(ctx context.Context, a agent.Agent, text string) (outcome Outcome, ok bool) {
	p, ok := s.BeginSend(text)
	if !ok {
		return 0, false
	}
	reply, err := a.Ask(ctx, p.Message.Content)
	return s.Complete(p, reply, err), true
}
