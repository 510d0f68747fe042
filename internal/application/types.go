package application

import (
	"log/slog"
	"time"

	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/ports"
)

type Config struct {
	ServiceName string

	DefaultCurrency string

	// DefaultCommissionPercent applies when the commission store has no
	// value (or is unreachable at read time).
	DefaultCommissionPercent int64

	// ChecklistDeadline is added to "now" when a contract carries no
	// deadline of its own.
	ChecklistDeadline time.Duration

	// KeyHandoverLeadTime is subtracted from the lease start date when the
	// auto-scheduler proposes a handover slot.
	KeyHandoverLeadTime time.Duration
	// KeyHandoverHour is the local hour of day for the proposed slot.
	KeyHandoverHour int
}

type Actor struct {
	SubjectID string
	Role      string
	RequestID string
}

func (a Actor) Admin() bool { return a.Role == "admin" }

type CreateContractInput struct {
	PropertyID           string
	LandlordID           string
	TenantID             string
	ApplicationID        string
	LeaseStart           time.Time
	LeaseEnd             time.Time
	MonthlyRentCents     int64
	SecurityDepositCents int64
	Currency             string
	Terms                string
	SpecialConditions    string
	SendNow              bool
}

type SignContractInput struct {
	ContractID     string
	SignatureImage string
}

type TerminateContractInput struct {
	ContractID      string
	TerminationDate time.Time
	Reason          string
}

type PaymentIntentInput struct {
	ContractID  string
	PaymentType domain.PaymentType
}

type ManualPaymentInput struct {
	ContractID  string
	PaymentType domain.PaymentType
	Method      string
	Reference   string
}

type ProcessorCallbackInput struct {
	IntentID    string
	Status      string
	ContractID  string
	PayerID     string
	PaymentType domain.PaymentType
	AmountCents int64
}

type AttachChecklistInput struct {
	ContractID string
	TemplateID string
}

type ChecklistItemUpdate struct {
	Room      string
	Item      string
	Condition string
	Notes     string
	PhotoURLs []string
}

type TenantSignChecklistInput struct {
	ChecklistID    string
	Items          []ChecklistItemUpdate
	SignatureImage string
}

type CompleteChecklistInput struct {
	ChecklistID    string
	SignatureImage string
	Notes          string
}

type RescheduleKeyCollectionInput struct {
	CollectionID string
	ScheduledAt  time.Time
	Location     string
}

type Service struct {
	cfg    Config
	logger *slog.Logger

	contracts      ports.ContractRepository
	payments       ports.PaymentRepository
	checklists     ports.ChecklistRepository
	templates      ports.ChecklistTemplateRepository
	keyCollections ports.KeyCollectionRepository
	properties     ports.PropertyRepository
	outbox         ports.OutboxRepository

	commission ports.CommissionStore
	processor  ports.PaymentProcessor
	storage    ports.ObjectStorage
	documents  ports.DocumentGenerator
	notifier   ports.NotificationDispatcher

	nowFn func() time.Time
}

type Dependencies struct {
	Config Config
	Logger *slog.Logger

	Contracts      ports.ContractRepository
	Payments       ports.PaymentRepository
	Checklists     ports.ChecklistRepository
	Templates      ports.ChecklistTemplateRepository
	KeyCollections ports.KeyCollectionRepository
	Properties     ports.PropertyRepository
	Outbox         ports.OutboxRepository

	Commission ports.CommissionStore
	Processor  ports.PaymentProcessor
	Storage    ports.ObjectStorage
	Documents  ports.DocumentGenerator
	Notifier   ports.NotificationDispatcher
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "contract-lifecycle-service"
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "USD"
	}
	if cfg.DefaultCommissionPercent <= 0 {
		cfg.DefaultCommissionPercent = 5
	}
	if cfg.ChecklistDeadline <= 0 {
		cfg.ChecklistDeadline = 7 * 24 * time.Hour
	}
	if cfg.KeyHandoverLeadTime <= 0 {
		cfg.KeyHandoverLeadTime = 24 * time.Hour
	}
	if cfg.KeyHandoverHour <= 0 || cfg.KeyHandoverHour > 23 {
		cfg.KeyHandoverHour = 12
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:            cfg,
		logger:         logger,
		contracts:      deps.Contracts,
		payments:       deps.Payments,
		checklists:     deps.Checklists,
		templates:      deps.Templates,
		keyCollections: deps.KeyCollections,
		properties:     deps.Properties,
		outbox:         deps.Outbox,
		commission:     deps.Commission,
		processor:      deps.Processor,
		storage:        deps.Storage,
		documents:      deps.Documents,
		notifier:       deps.Notifier,
		nowFn:          func() time.Time { return time.Now().UTC() },
	}
}
