// Package session keeps per-conversation order state in memory.
package session

import (
	"sync"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/order"
)

// Session is the order state of one conversation. Pending is the parsed but
// unconfirmed order; Prior is the last committed one, kept so a later message
// can modify it.
type Session struct {
	ConversationID int64
	Pending        *order.Order
	Prior          *order.Order
}

// Store holds sessions keyed by conversation. Access to a session is
// serialized per conversation, so two messages from the same chat cannot
// interleave, while different chats proceed independently.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*entry
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*entry)}
}

// With runs fn with exclusive access to the conversation's session, creating
// it on first use.
func (s *Store) With(convID int64, fn func(*Session)) {
	s.mu.Lock()
	e, ok := s.sessions[convID]
	if !ok {
		e = &entry{session: &Session{ConversationID: convID}}
		s.sessions[convID] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
}

// Len reports how many conversations have state.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
