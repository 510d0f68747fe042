package domain

const (
	CanonicalEventClassDomain        = "domain"
	CanonicalEventClassAnalyticsOnly = "analytics_only"
)

const (
	EventContractSent          = "contract.sent"
	EventContractFullySigned   = "contract.fully_signed"
	EventContractRewardAccrued = "contract.reward_accrued"
	EventContractActivated     = "contract.activated"
	EventContractTerminated    = "contract.terminated"
	EventContractExpired       = "contract.expired"
	EventPaymentCompleted      = "payment.completed"
	EventPaymentRefunded       = "payment.refunded"
	EventKeysScheduled         = "key_collection.scheduled"
	EventKeysCompleted         = "key_collection.completed"
)

type canonicalEventMeta struct {
	class            string
	partitionKeyPath string
}

var canonicalEmittedEvents = map[string]canonicalEventMeta{
	EventContractSent:          {class: CanonicalEventClassAnalyticsOnly, partitionKeyPath: "data.contract_id"},
	EventContractFullySigned:   {class: CanonicalEventClassDomain, partitionKeyPath: "data.contract_id"},
	EventContractRewardAccrued: {class: CanonicalEventClassDomain, partitionKeyPath: "data.contract_id"},
	EventContractActivated:     {class: CanonicalEventClassDomain, partitionKeyPath: "data.contract_id"},
	EventContractTerminated:    {class: CanonicalEventClassDomain, partitionKeyPath: "data.contract_id"},
	EventContractExpired:       {class: CanonicalEventClassDomain, partitionKeyPath: "data.contract_id"},
	EventPaymentCompleted:      {class: CanonicalEventClassDomain, partitionKeyPath: "data.payment_id"},
	EventPaymentRefunded:       {class: CanonicalEventClassDomain, partitionKeyPath: "data.payment_id"},
	EventKeysScheduled:         {class: CanonicalEventClassDomain, partitionKeyPath: "data.contract_id"},
	EventKeysCompleted:         {class: CanonicalEventClassDomain, partitionKeyPath: "data.contract_id"},
}

func IsCanonicalEmittedEvent(eventType string) bool {
	_, ok := canonicalEmittedEvents[eventType]
	return ok
}

func CanonicalEventClass(eventType string) string {
	if m, ok := canonicalEmittedEvents[eventType]; ok {
		return m.class
	}
	return ""
}

func CanonicalPartitionKeyPath(eventType string) string {
	if m, ok := canonicalEmittedEvents[eventType]; ok {
		return m.partitionKeyPath
	}
	return ""
}
