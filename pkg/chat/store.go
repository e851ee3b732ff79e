// Package chat holds the conversation state of the client: the conversation
// list, the active thread, pending input and the in-flight flag.
//
// A Store is the single owner of that state. Every mutation publishes an
// immutable Snapshot to subscribers and, when the conversation collection
// changed and is non-empty, rewrites the whole collection to the storage slot.
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"agentchat/pkg/storage"

	"github.com/google/uuid"
)

// ErrConversationNotFound is returned when selecting an unknown conversation.
var ErrConversationNotFound = errors.New("conversation not found")

// Snapshot is a copy of the store state. It never aliases store memory.
type Snapshot struct {
	Conversations []Conversation
	ActiveID      string
	Messages      []Message
	Input         string
	Loading       bool
}

// Active returns the active conversation, if any.
func (s Snapshot) Active() (Conversation, bool) {
	for _, c := range s.Conversations {
		if c.ID == s.ActiveID {
			return c, true
		}
	}
	return Conversation{}, false
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the message ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Store owns the conversation state.
type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	key    string
	now    func() time.Time
	newID  func() string
	logger *slog.Logger

	conversations []Conversation
	activeID      string
	messages      []Message
	input         string
	loading       bool

	// inFlight is the round-trip awaiting Complete, if any.
	inFlight *Pending

	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore creates a store persisting to key in kv. The visible thread starts
// with the welcome message and the conversation list starts empty.
func NewStore(kv storage.KV, key string, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    key,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default().With("component", "chat"),
		subs:   make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.messages = []Message{s.welcomeMessage(s.now())}
	return s
}

// Subscribe registers fn to receive a snapshot after every mutation.
// Snapshots are delivered synchronously on the mutating goroutine.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Conversations returns a copy of the conversation list, most recent first.
func (s *Store) Conversations() []Conversation {
	return s.Snapshot().Conversations
}

// Active returns the active conversation, if any.
func (s *Store) Active() (Conversation, bool) {
	return s.Snapshot().Active()
}

// Input returns the pending input text.
func (s *Store) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Loading reports whether a round-trip is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Load reads the persisted collection. A missing slot leaves the store empty.
// A slot that cannot be parsed is logged and leaves the store empty; the error
// is returned for callers that want to report it.
func (s *Store) Load() error {
	data, ok, err := s.kv.Load(s.key)
	if err != nil {
		s.logger.Error("store_load_failed", "key", s.key, "error", err)
		return fmt.Errorf("loading conversations: %w", err)
	}
	if !ok {
		s.logger.Debug("store_load_empty", "key", s.key)
		return nil
	}

	var conversations []Conversation
	if err := json.Unmarshal(data, &conversations); err != nil {
		s.logger.Error("store_load_failed", "key", s.key, "error", err)
		return fmt.Errorf("parsing stored conversations: %w", err)
	}

	s.mu.Lock()
	s.conversations = conversations
	if len(conversations) > 0 {
		first := conversations[0]
		s.activeID = first.ID
		if len(first.Messages) > 0 {
			s.messages = cloneMessages(first.Messages)
		} else {
			s.messages = []Message{s.welcomeMessage(s.now())}
		}
	}
	s.logger.Info("store_loaded", "conversations", len(conversations))
	s.unlockAndPublish()
	return nil
}

// Persist writes the full conversation collection to the storage slot.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

// CreateConversation starts a new conversation seeded with the welcome
// message, puts it at the top of the list and makes it active.
func (s *Store) CreateConversation() Conversation {
	s.mu.Lock()
	now := s.now()
	welcome := s.welcomeMessage(now)
	conv := Conversation{
		ID:        s.conversationIDLocked(now),
		Title:     DefaultTitle,
		Messages:  []Message{welcome},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.conversations = append([]Conversation{conv}, s.conversations...)
	s.activeID = conv.ID
	s.messages = []Message{welcome}
	s.input = ""

	s.logger.Info("conversation_created", "conversation_id", conv.ID)
	s.autoPersistLocked()
	s.unlockAndPublish()
	return cloneConversation(conv)
}

// SelectConversation makes id the active conversation and shows its messages.
// Reopening the conversation of an unsettled round-trip shows the thread as
// it was sent, including the pending user message.
// An unknown id leaves the state untouched and returns ErrConversationNotFound.
func (s *Store) SelectConversation(id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Warn("conversation_select_unknown", "conversation_id", id)
		return fmt.Errorf("%w: %s", ErrConversationNotFound, id)
	}

	s.activeID = id
	if s.inFlight != nil && s.inFlight.ConversationID == id {
		s.messages = cloneMessages(s.inFlight.history)
	} else {
		s.messages = cloneMessages(s.conversations[idx].Messages)
	}
	s.unlockAndPublish()
	return nil
}

// SetInput replaces the pending input text.
func (s *Store) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.unlockAndPublish()
}

func (s *Store) welcomeMessage(now time.Time) Message {
	return Message{
		ID:        s.newID(),
		Role:      RoleAssistant,
		Content:   WelcomeText,
		CreatedAt: now,
	}
}

// conversationIDLocked derives a time-based ID, moving forward a millisecond
// at a time until it does not collide with an existing conversation.
func (s *Store) conversationIDLocked(now time.Time) string {
	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if s.indexLocked(id) < 0 {
			return id
		}
		ms++
	}
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range s.conversations {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked() error {
	data, err := json.Marshal(s.conversations)
	if err != nil {
		return fmt.Errorf("encoding conversations: %w", err)
	}
	if err := s.kv.Save(s.key, data); err != nil {
		return fmt.Errorf("saving conversations: %w", err)
	}
	return nil
}

// autoPersistLocked persists a non-empty collection; failures are only logged.
func (s *Store) autoPersistLocked() {
	if len(s.conversations) == 0 {
		return
	}
	if err := s.persistLocked(); err != nil {
		s.logger.Error("store_persist_failed", "key", s.key, "error", err)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	conversations := make([]Conversation, len(s.conversations))
	for i, c := range s.conversations {
		conversations[i] = cloneConversation(c)
	}
	return Snapshot{
		Conversations: conversations,
		ActiveID:      s.activeID,
		Messages:      cloneMessages(s.messages),
		Input:         s.input,
		Loading:       s.loading,
	}
}

// unlockAndPublish releases the lock and then notifies subscribers, so a
// subscriber may call back into the store.
func (s *Store) unlockAndPublish() {
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
