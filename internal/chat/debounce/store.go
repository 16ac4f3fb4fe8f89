package debounce

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Buffer holds the coalesced state of one in-flight message burst.
type Buffer struct {
	ConversationID string
	Text           string
	LastActivity   time.Time
	Token          uuid.UUID
}

// Store abstracts the per-conversation buffer table so single-instance
// deployments can use the in-memory map while multi-instance deployments can
// plug in an external coordination store.
type Store interface {
	Get(conversationID string) (Buffer, bool)
	Put(buf Buffer)
	Delete(conversationID string)
	Len() int
}

type MemoryStore struct {
	mu      sync.Mutex
	buffers map[string]Buffer
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buffers: make(map[string]Buffer)}
}

func (s *MemoryStore) Get(conversationID string) (Buffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, ok := s.buffers[conversationID]
	return buf, ok
}

func (s *MemoryStore) Put(buf Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffers[buf.ConversationID] = buf
}

func (s *MemoryStore) Delete(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buffers, conversationID)
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffers)
}
