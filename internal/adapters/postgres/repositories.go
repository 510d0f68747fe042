package postgres

import "gorm.io/gorm"

type Repositories struct {
	Contracts      *ContractRepository
	Payments       *PaymentRepository
	Checklists     *ChecklistRepository
	Templates      *ChecklistTemplateRepository
	KeyCollections *KeyCollectionRepository
	Properties     *PropertyRepository
	Outbox         *OutboxRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Contracts:      NewContractRepository(db),
		Payments:       NewPaymentRepository(db),
		Checklists:     NewChecklistRepository(db),
		Templates:      NewChecklistTemplateRepository(db),
		KeyCollections: NewKeyCollectionRepository(db),
		Properties:     NewPropertyRepository(db),
		Outbox:         NewOutboxRepository(db),
	}
}
