package postgres

import "time"

type contractModel struct {
	ContractID    string `gorm:"column:contract_id;type:uuid;primaryKey"`
	PropertyID    string `gorm:"column:property_id;type:uuid"`
	LandlordID    string `gorm:"column:landlord_id;type:uuid"`
	TenantID      string `gorm:"column:tenant_id;type:uuid"`
	ApplicationID string `gorm:"column:application_id"`

	LeaseStart time.Time `gorm:"column:lease_start"`
	LeaseEnd   time.Time `gorm:"column:lease_end"`

	MonthlyRentCents     int64  `gorm:"column:monthly_rent_cents"`
	SecurityDepositCents int64  `gorm:"column:security_deposit_cents"`
	Currency             string `gorm:"column:currency"`

	Terms             string `gorm:"column:terms"`
	SpecialConditions string `gorm:"column:special_conditions"`

	LandlordSignature *string `gorm:"column:landlord_signature;type:jsonb"`
	TenantSignature   *string `gorm:"column:tenant_signature;type:jsonb"`

	Status       string     `gorm:"column:status"`
	SentToTenant *time.Time `gorm:"column:sent_to_tenant_at"`

	DepositPaid       bool    `gorm:"column:deposit_paid"`
	DepositSettlement *string `gorm:"column:deposit_settlement;type:jsonb"`
	RentPaid          bool    `gorm:"column:rent_paid"`
	RentSettlement    *string `gorm:"column:rent_settlement;type:jsonb"`

	KeysCollected bool `gorm:"column:keys_collected"`

	ChecklistID          string     `gorm:"column:checklist_id"`
	ChecklistDeadline    *time.Time `gorm:"column:checklist_deadline"`
	ChecklistCompletedAt *time.Time `gorm:"column:checklist_completed_at"`

	DocumentURL string `gorm:"column:document_url"`

	TerminatedAt *time.Time `gorm:"column:terminated_at"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (contractModel) TableName() string { return "contracts" }

type paymentModel struct {
	PaymentID  string `gorm:"column:payment_id;type:uuid;primaryKey"`
	ContractID string `gorm:"column:contract_id;type:uuid"`
	PayerID    string `gorm:"column:payer_id;type:uuid"`
	Type       string `gorm:"column:payment_type"`

	AmountCents      int64  `gorm:"column:amount_cents"`
	PlatformFeeCents int64  `gorm:"column:platform_fee_cents"`
	NetAmountCents   int64  `gorm:"column:net_amount_cents"`
	Currency         string `gorm:"column:currency"`

	Status       string `gorm:"column:status"`
	ProcessorRef string `gorm:"column:processor_ref"`
	Method       string `gorm:"column:method"`

	DueAt      *time.Time `gorm:"column:due_at"`
	PaidAt     *time.Time `gorm:"column:paid_at"`
	RefundedAt *time.Time `gorm:"column:refunded_at"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (paymentModel) TableName() string { return "payments" }

type checklistModel struct {
	ChecklistID string `gorm:"column:checklist_id;type:uuid;primaryKey"`
	ContractID  string `gorm:"column:contract_id;type:uuid"`
	Rooms       string `gorm:"column:rooms;type:jsonb"`
	Status      string `gorm:"column:status"`

	TenantSignature   *string `gorm:"column:tenant_signature;type:jsonb"`
	LandlordSignature *string `gorm:"column:landlord_signature;type:jsonb"`
	LandlordNotes     string  `gorm:"column:landlord_notes"`

	Deadline    time.Time  `gorm:"column:deadline"`
	CompletedAt *time.Time `gorm:"column:completed_at"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (checklistModel) TableName() string { return "checklists" }

type checklistTemplateModel struct {
	TemplateID string    `gorm:"column:template_id;type:uuid;primaryKey"`
	LandlordID string    `gorm:"column:landlord_id;type:uuid"`
	Name       string    `gorm:"column:name"`
	Rooms      string    `gorm:"column:rooms;type:jsonb"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (checklistTemplateModel) TableName() string { return "checklist_templates" }

type keyCollectionModel struct {
	CollectionID string `gorm:"column:collection_id;type:uuid;primaryKey"`
	ContractID   string `gorm:"column:contract_id;type:uuid;uniqueIndex"`

	ScheduledAt time.Time `gorm:"column:scheduled_at"`
	Location    string    `gorm:"column:location"`

	LandlordConfirmed bool `gorm:"column:landlord_confirmed"`
	TenantConfirmed   bool `gorm:"column:tenant_confirmed"`

	Status      string     `gorm:"column:status"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (keyCollectionModel) TableName() string { return "key_collections" }

type propertyModel struct {
	PropertyID string    `gorm:"column:property_id;type:uuid;primaryKey"`
	LandlordID string    `gorm:"column:landlord_id;type:uuid"`
	Address    string    `gorm:"column:address"`
	Status     string    `gorm:"column:status"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (propertyModel) TableName() string { return "properties" }

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      string     `gorm:"column:payload;type:jsonb"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
	RetryCount   int        `gorm:"column:retry_count"`
	LastError    *string    `gorm:"column:last_error"`
}

func (outboxModel) TableName() string { return "contract_outbox" }
