package domain

import "time"

const (
	OutboxStatusPending = "PENDING"
	OutboxStatusSent    = "SENT"
	OutboxStatusFailed  = "FAILED"
)

// OutboxMessage is written in the same transaction as the settlement it
// describes and delivered to the broker by the background dispatcher.
type OutboxMessage struct {
	ID         string
	MessageKey string
	Topic      string
	Payload    string
	Status     string
	RetryCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
