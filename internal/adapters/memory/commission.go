package memory

import (
	"context"
	"sync"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

// CommissionStore holds the platform commission percent in process. The
// redis-backed store replaces it in deployed environments.
type CommissionStore struct {
	mu      sync.Mutex
	percent int64
	set     bool
}

func (s *CommissionStore) CommissionPercent(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return 0, domain.ErrNotFound
	}
	return s.percent, nil
}

func (s *CommissionStore) SetCommissionPercent(_ context.Context, percent int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.percent = percent
	s.set = true
	return nil
}
