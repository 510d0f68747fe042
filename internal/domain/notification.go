package domain

// Notification is the typed payload handed to the dispatcher. Delivery is
// fire-and-forget; a failed send never rolls back the originating write.
type Notification struct {
	UserID   string `json:"user_id"`
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	DeepLink string `json:"deep_link,omitempty"`
}

const (
	NotificationContractSent        = "contract_sent"
	NotificationContractSigned      = "contract_signed"
	NotificationContractFullySigned = "contract_fully_signed"
	NotificationContractTerminated  = "contract_terminated"
	NotificationPaymentCompleted    = "payment_completed"
	NotificationPaymentReceived     = "payment_received"
	NotificationPaymentRefunded     = "payment_refunded"
	NotificationKeysScheduled       = "key_collection_scheduled"
	NotificationKeysCompleted       = "key_collection_completed"
	NotificationChecklistAttached   = "checklist_attached"
	NotificationChecklistSigned     = "checklist_signed"
	NotificationChecklistCompleted  = "checklist_completed"
)
