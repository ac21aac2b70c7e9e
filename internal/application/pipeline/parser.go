package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
	"github.com/readysetcloud/newsletter-service-sub010/internal/pkg/validate"
)

// parseEnvelope decodes and validates a raw event-bus envelope. Any failure is
// wrapped in domain.ErrValidation: fatal, never retried, no notification produced.
func parseEnvelope(raw []byte) (*domain.InboundEvent, error) {
	var env domain.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed envelope: %v", domain.ErrValidation, err)
	}
	if len(env.Detail) == 0 {
		return nil, fmt.Errorf("%w: envelope has no detail", domain.ErrValidation)
	}

	var event domain.InboundEvent
	if err := json.Unmarshal(env.Detail, &event); err != nil {
		return nil, fmt.Errorf("%w: malformed detail: %v", domain.ErrValidation, err)
	}
	if err := validate.Struct(&event); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Source = env.Source
	return &event, nil
}
