package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"payviu/internal/core"
	"payviu/internal/store"
)

// Store is an in-memory payment store. It backs the default data backend and
// the service tests; all operations are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	payments map[string]core.Payment
	order    []string
}

func New() *Store {
	return &Store{payments: make(map[string]core.Payment)}
}

func (s *Store) ListPayments(_ context.Context, userID string) ([]core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Payment
	for _, id := range s.order {
		if p, ok := s.payments[id]; ok && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) GetPayment(_ context.Context, id string) (core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return core.Payment{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) InsertPayment(_ context.Context, p core.Payment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	s.payments[p.ID] = p
	s.order = append(s.order, p.ID)
	return p.ID, nil
}

func (s *Store) PatchPayment(_ context.Context, id string, patch core.PaymentPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return store.ErrNotFound
	}
	patch.Apply(&p)
	s.payments[id] = p
	return nil
}

func (s *Store) RemovePayment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.payments, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) ListUnpaidPayments(_ context.Context) ([]core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Payment
	for _, id := range s.order {
		if p, ok := s.payments[id]; ok && p.Status != core.StatusPaid {
			out = append(out, p)
		}
	}
	return out, nil
}
