package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CardCreated = "card.created"
	CardUpdated = "card.updated"
	CardDeleted = "card.deleted"
)

// CardEvent describes a committed change to a card.
type CardEvent struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	CardID       int64     `json:"card_id"`
	MobileNumber string    `json:"mobile_number"`
	CardNumber   string    `json:"card_number"`
	Actor        string    `json:"actor"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func NewCardEvent(eventType string, rec *CardRecord, actor string) CardEvent {
	return CardEvent{
		ID:           uuid.New().String(),
		Type:         eventType,
		CardID:       rec.CardID,
		MobileNumber: rec.MobileNumber,
		CardNumber:   rec.CardNumber,
		Actor:        actor,
		OccurredAt:   time.Now().UTC(),
	}
}
