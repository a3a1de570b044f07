package domain

import "time"

// Role identifies the author of a conversation turn or prompt message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one entry of the session transcript. Insertion order is
// meaningful: turns are replayed in order as model context.
type ConversationTurn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Message is a single prompt message for a completion backend.
type Message struct {
	Role    Role
	Content string
}

// Session holds the per-interaction state: the locked location, the ordered
// transcript, and the current follow-up question suggestions. A Session is
// owned exclusively by the request flow handling it; it is never shared
// across sessions and never persisted.
type Session struct {
	ID            string
	CreatedAt     time.Time
	LastSeen      time.Time
	Location      *ResolvedLocation
	DialectSample string
	Turns         []ConversationTurn
	Pending       []string
}

// NewSession creates an unlocked session with the given ID.
func NewSession(id string) *Session {
	now := clock.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		LastSeen:  now,
	}
}

// Locked reports whether a location has been locked into the session.
func (s *Session) Locked() bool {
	return s.Location != nil
}

// Lock records the resolved location and its dialect sample. The location is
// immutable afterward: a second Lock returns ErrSessionLocked.
func (s *Session) Lock(loc ResolvedLocation, dialectSample string) error {
	if s.Locked() {
		return ErrSessionLocked
	}
	s.Location = &loc
	s.DialectSample = dialectSample
	s.Touch()
	return nil
}

// AppendTurn appends one transcript entry. Turns are append-only.
func (s *Session) AppendTurn(role Role, text string) {
	s.Turns = append(s.Turns, ConversationTurn{Role: role, Text: text, At: clock.Now()})
	s.Touch()
}

// ReplaceQuestions discards the current suggestions and installs new ones.
func (s *Session) ReplaceQuestions(questions []string) {
	s.Pending = questions
	s.Touch()
}

// RecentTurns returns up to max of the latest turns, oldest first. The cap
// bounds model context growth on long conversations.
func (s *Session) RecentTurns(max int) []ConversationTurn {
	if max <= 0 || len(s.Turns) <= max {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-max:]
}

// Touch updates the last-activity timestamp used for TTL pruning.
func (s *Session) Touch() {
	s.LastSeen = clock.Now()
}
