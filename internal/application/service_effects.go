package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/contracts"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/domain"
	"github.com/rentloop/platform/services/contract-lifecycle-service/internal/ports"
)

// effect is one best-effort side action attempted after the primary write
// committed: notifications, document regeneration, signature uploads. Each
// entry fails independently; a broken dispatcher never blocks the rest and
// never surfaces to the caller.
type effect struct {
	name string
	run  func(context.Context) error
}

func (s *Service) runEffects(ctx context.Context, effects []effect) {
	for _, e := range effects {
		if err := e.run(ctx); err != nil {
			s.logger.WarnContext(ctx, "post-commit effect failed",
				"module", "application",
				"layer", "service",
				"operation", e.name,
				"outcome", "failure",
				"error", err,
			)
		}
	}
}

func (s *Service) notifyEffect(kind string, userID, title, message, deepLink string) effect {
	return effect{
		name: "notify_" + kind,
		run: func(ctx context.Context) error {
			if s.notifier == nil {
				return nil
			}
			return s.notifier.Send(ctx, domain.Notification{
				UserID:   userID,
				Kind:     kind,
				Title:    title,
				Message:  message,
				DeepLink: deepLink,
			})
		},
	}
}

// regenerateDocumentEffect re-renders the canonical agreement and stores
// the resulting URL back on the contract. The signature itself is already
// durable at this point, so any failure here only degrades the rendered
// copy.
func (s *Service) regenerateDocumentEffect(contractID string) effect {
	return effect{
		name: "regenerate_document",
		run: func(ctx context.Context) error {
			if s.documents == nil {
				return nil
			}
			contract, err := s.contracts.GetByID(ctx, contractID)
			if err != nil {
				return err
			}
			var checklist *domain.Checklist
			if contract.ChecklistID != "" {
				if cl, clErr := s.checklists.GetByID(ctx, contract.ChecklistID); clErr == nil {
					checklist = &cl
				}
			}
			url, err := s.documents.Render(ctx, ports.DocumentRenderInput{Contract: contract, Checklist: checklist})
			if err != nil {
				return err
			}
			_, err = s.contracts.UpdateTx(ctx, contractID, func(c *domain.Contract) error {
				c.DocumentURL = url
				c.UpdatedAt = s.nowFn()
				return nil
			})
			return err
		},
	}
}

// enqueueEvent writes a canonical event into the transactional outbox; the
// worker relays it to the broker. Unlike the effects above, enqueue
// failures are returned: a lost domain event is a correctness problem, not
// a cosmetic one.
func (s *Service) enqueueEvent(ctx context.Context, eventType, traceID string, data any, partitionKey string, now time.Time) error {
	if s.outbox == nil {
		return nil
	}
	if !domain.IsCanonicalEmittedEvent(eventType) {
		return domain.ErrInvalidInput
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return domain.ErrInvalidInput
	}
	if strings.TrimSpace(traceID) == "" {
		traceID = uuid.NewString()
	}
	envelope := contracts.EventEnvelope{
		EventID:          uuid.NewString(),
		EventType:        eventType,
		EventClass:       domain.CanonicalEventClass(eventType),
		OccurredAt:       now,
		PartitionKeyPath: domain.CanonicalPartitionKeyPath(eventType),
		PartitionKey:     partitionKey,
		SourceService:    s.cfg.ServiceName,
		TraceID:          traceID,
		SchemaVersion:    "v1",
		Data:             payload,
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return domain.ErrInvalidInput
	}
	return s.outbox.Enqueue(ctx, ports.OutboxRecord{
		OutboxID:     uuid.NewString(),
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      raw,
		CreatedAt:    now,
	})
}

// uploadSignatureEffect pushes the raw signature image to object storage
// and backfills the URL onto the stored slot. The inline base64 copy stays
// authoritative either way.
func (s *Service) uploadSignatureEffect(contractID string, role domain.PartyRole, image string) effect {
	return effect{
		name: "upload_signature",
		run: func(ctx context.Context) error {
			if s.storage == nil {
				return nil
			}
			key := "signatures/" + contractID + "/" + string(role) + ".png"
			url, err := s.storage.Put(ctx, key, "image/png", []byte(image))
			if err != nil {
				return err
			}
			_, err = s.contracts.UpdateTx(ctx, contractID, func(c *domain.Contract) error {
				switch role {
				case domain.PartyRoleLandlord:
					if c.LandlordSignature != nil {
						c.LandlordSignature.ImageURL = url
					}
				case domain.PartyRoleTenant:
					if c.TenantSignature != nil {
						c.TenantSignature.ImageURL = url
					}
				}
				return nil
			})
			return err
		},
	}
}
