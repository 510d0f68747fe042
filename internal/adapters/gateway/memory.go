package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/ports"
)

// FakeProcessor mints deterministic-looking intents locally. Used in tests
// and when no processor endpoint is configured.
type FakeProcessor struct {
	mu      sync.Mutex
	Intents []ports.ChargeIntent
	Fail    bool
}

func (p *FakeProcessor) CreateChargeIntent(_ context.Context, amountCents int64, currency string, _ ports.ChargeMetadata) (ports.ChargeIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail {
		return ports.ChargeIntent{}, fmt.Errorf("%w: processor unavailable", domain.ErrUpstream)
	}
	if amountCents <= 0 || currency == "" {
		return ports.ChargeIntent{}, fmt.Errorf("%w: invalid charge request", domain.ErrUpstream)
	}
	intent := ports.ChargeIntent{
		ID:           "pi_" + uuid.NewString(),
		ClientSecret: "secret_" + uuid.NewString(),
	}
	p.Intents = append(p.Intents, intent)
	return intent, nil
}

// MemoryStorage keeps uploaded blobs in a map and hands back local URLs.
type MemoryStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func (s *MemoryStorage) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Objects == nil {
		s.Objects = map[string][]byte{}
	}
	s.Objects[key] = data
	return "memory://" + key, nil
}

// StaticDocumentGenerator returns a stable URL per contract without
// rendering anything.
type StaticDocumentGenerator struct {
	mu      sync.Mutex
	Renders int
}

func (g *StaticDocumentGenerator) Render(_ context.Context, input ports.DocumentRenderInput) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Renders++
	return "memory://documents/" + input.Contract.ContractID + ".pdf", nil
}

// RecordingNotifier collects sent notifications for assertions.
type RecordingNotifier struct {
	mu   sync.Mutex
	Sent []domain.Notification
	Fail bool
}

func (n *RecordingNotifier) Send(_ context.Context, notification domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Fail {
		return fmt.Errorf("%w: notifier unavailable", domain.ErrUpstream)
	}
	n.Sent = append(n.Sent, notification)
	return nil
}

// SentTo returns the notifications delivered to one user.
func (n *RecordingNotifier) SentTo(userID string) []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.Notification, 0)
	for _, notification := range n.Sent {
		if notification.UserID == userID {
			out = append(out, notification)
		}
	}
	return out
}
