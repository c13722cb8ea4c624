package memory

import (
	"sync"

	"creepwork/internal/app/ports"
)

// Store keeps memory slots and tick records in process. Access goes through
// TxManager, which serializes units of work.
type Store struct {
	mu    sync.RWMutex
	creep map[string]string
	room  map[string]string
	ticks []ports.TickSummary
}

func NewStore() *Store {
	return &Store{
		creep: make(map[string]string),
		room:  make(map[string]string),
	}
}

// SeedRoom writes a raw room slot, bypassing the codec.
func (s *Store) SeedRoom(roomID, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room[roomID] = raw
}

// SeedCreep writes a raw creep slot, bypassing the codec.
func (s *Store) SeedCreep(name, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creep[name] = raw
}
