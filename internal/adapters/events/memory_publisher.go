package events

import (
	"context"
	"sync"
)

type PublishedEvent struct {
	EventType    string
	Payload      []byte
	PartitionKey string
}

// MemoryPublisher records published events in process. It backs tests and
// broker-less local runs.
type MemoryPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

func (p *MemoryPublisher) Publish(_ context.Context, eventType string, payload []byte, partitionKey string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{EventType: eventType, Payload: payload, PartitionKey: partitionKey})
	return nil
}

// ByType returns the recorded events of one type.
func (p *MemoryPublisher) ByType(eventType string) []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, 0)
	for _, event := range p.Events {
		if event.EventType == eventType {
			out = append(out, event)
		}
	}
	return out
}
