package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultActor is recorded on jobs updated from the queue when the message
// names no actor
const DefaultActor = "status-queue"

// StatusUpdateMessage is the queued form of the email automation's
// clock-number status update
type StatusUpdateMessage struct {
	ClockNumber string `json:"clock_number"`
	NewStatus   string `json:"new_status"`
	Actor       string `json:"actor,omitempty"`
}

// ParseStatusUpdate decodes a delivery body. Both fields are required.
func ParseStatusUpdate(body []byte) (*StatusUpdateMessage, error) {
	var msg StatusUpdateMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	msg.ClockNumber = strings.TrimSpace(msg.ClockNumber)
	msg.NewStatus = strings.TrimSpace(msg.NewStatus)
	if msg.ClockNumber == "" {
		return nil, fmt.Errorf("%w: clock_number is required", ErrInvalidPayload)
	}
	if msg.NewStatus == "" {
		return nil, fmt.Errorf("%w: new_status is required", ErrInvalidPayload)
	}
	if msg.Actor == "" {
		msg.Actor = DefaultActor
	}

	return &msg, nil
}
