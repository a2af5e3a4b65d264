package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// SubjectPrefix roots every published subject.
const SubjectPrefix = "dicevault.events."

// Publisher is the slice of a NATS connection the bridge needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Envelope wraps an event on the wire.
type Envelope struct {
	EventID       string          `json:"event_id"`
	Sequence      int64           `json:"sequence"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSBridge republishes committed events to NATS.
type NATSBridge struct {
	pub    Publisher
	source string
}

func NewNATSBridge(pub Publisher, source string) *NATSBridge {
	return &NATSBridge{pub: pub, source: source}
}

// Subject maps an event type to its subject.
func Subject(m Message) string {
	return SubjectPrefix + string(m.Type)
}

// Handle is a Bus handler.
func (n *NATSBridge) Handle(_ context.Context, m Message) {
	err := n.publish(m)
	if err != nil {
		log.WithError(err).WithField("eventId", m.ID).Error("publish event to NATS")
	}
}

func (n *NATSBridge) publish(m Message) error {
	env := Envelope{
		EventID:       uuid.NewString(),
		Sequence:      m.ID,
		EventType:     string(m.Type),
		Timestamp:     m.CreatedAt,
		SourceService: n.source,
		Payload:       m.Payload,
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	subject := Subject(m)

	err = n.pub.Publish(subject, data)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": m.Type,
		"eventId":   env.EventID,
		"subject":   subject,
	}).Debug("published event to NATS")

	return nil
}
