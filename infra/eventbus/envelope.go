package eventbus

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/urbanbank/pkg/domain/events"
	"github.com/amirasaad/urbanbank/pkg/eventbus"
)

type envelope struct {
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	PublishedAt time.Time       `json:"published_at"`
}

func encodeEnvelope(event eventbus.Event, now time.Time) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: event.Type(), Payload: payload, PublishedAt: now.UTC()})
}

// ErrUnknownEventType is returned when an envelope names an event this
// binary cannot decode.
var ErrUnknownEventType = errors.New("unknown event type")

func decodeEnvelope(data []byte) (eventbus.Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.Type {
	case events.EventTypeTransferCompleted:
		var e events.TransferCompleted
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	case events.EventTypeTransferFlagged:
		var e events.TransferFlagged
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, env.Type)
	}
}
