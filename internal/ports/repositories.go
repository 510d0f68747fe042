package ports

import (
	"context"
	"time"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
)

type ContractRepository interface {
	Create(ctx context.Context, row domain.Contract) error
	GetByID(ctx context.Context, contractID string) (domain.Contract, error)
	ListByParty(ctx context.Context, subjectID string) ([]domain.Contract, error)
	// UpdateTx re-reads the row inside a transaction, applies mutate and
	// persists the result. Signature capture depends on this: the second
	// signer must observe the first signer's slot before the resulting
	// status is derived, not a client-supplied snapshot.
	UpdateTx(ctx context.Context, contractID string, mutate func(*domain.Contract) error) (domain.Contract, error)
	Delete(ctx context.Context, contractID string) error
}

type PaymentRepository interface {
	Create(ctx context.Context, row domain.Payment) error
	GetByID(ctx context.Context, paymentID string) (domain.Payment, error)
	GetByProcessorRef(ctx context.Context, processorRef string) (domain.Payment, error)
	// FindPendingMatch is the callback fallback when the processor
	// reference was never attached to a row: match on the reconciliation
	// tuple instead.
	FindPendingMatch(ctx context.Context, contractID, payerID string, amountCents int64) (domain.Payment, error)
	Update(ctx context.Context, row domain.Payment) error
	ListByContract(ctx context.Context, contractID string) ([]domain.Payment, error)
}

type ChecklistRepository interface {
	Create(ctx context.Context, row domain.Checklist) error
	GetByID(ctx context.Context, checklistID string) (domain.Checklist, error)
	GetByContract(ctx context.Context, contractID string) (domain.Checklist, error)
	Update(ctx context.Context, row domain.Checklist) error
	DeleteByContract(ctx context.Context, contractID string) error
}

type ChecklistTemplateRepository interface {
	GetByID(ctx context.Context, templateID string) (domain.ChecklistTemplate, error)
}

type KeyCollectionRepository interface {
	Create(ctx context.Context, row domain.KeyCollection) error
	GetByID(ctx context.Context, collectionID string) (domain.KeyCollection, error)
	GetByContract(ctx context.Context, contractID string) (domain.KeyCollection, error)
	Update(ctx context.Context, row domain.KeyCollection) error
	DeleteByContract(ctx context.Context, contractID string) error
}

type PropertyRepository interface {
	GetByID(ctx context.Context, propertyID string) (domain.Property, error)
	SetStatus(ctx context.Context, propertyID string, status domain.PropertyStatus, at time.Time) error
}

type OutboxRecord struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
	PublishedAt  *time.Time
	RetryCount   int
	LastError    *string
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, record OutboxRecord) error
	ListUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID, reason string, at time.Time) error
}
