package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCreditCard(t *testing.T) {
	rec := NewCreditCard("918273645012", "100000000001")

	assert.Equal(t, "Credit Card", rec.CardType)
	assert.Equal(t, 100000, rec.TotalLimit)
	assert.Equal(t, 0, rec.AmountUsed)
	assert.Equal(t, 100000, rec.AvailableAmount)
	assert.Zero(t, rec.CardID)
}

func TestApplyKeepsIdentityAndAudit(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := &CardRecord{
		CardID:    9,
		CreatedAt: created,
		CreatedBy: "CARDS_MS",
	}

	card := Card{
		MobileNumber:    "918273645012",
		CardNumber:      "100000000001",
		CardType:        "Credit Card",
		TotalLimit:      5000,
		AmountUsed:      10,
		AvailableAmount: 7000,
	}
	rec.Apply(card)

	assert.Equal(t, int64(9), rec.CardID)
	assert.Equal(t, created, rec.CreatedAt)
	assert.Equal(t, "CARDS_MS", rec.CreatedBy)
	// availableAmount is taken as given, not derived
	assert.Equal(t, card, CardFromRecord(rec))
}

func TestNewCardEvent(t *testing.T) {
	rec := NewCreditCard("918273645012", "100000000001")
	rec.CardID = 3

	a := NewCardEvent(CardUpdated, rec, "CARDS_MS")
	b := NewCardEvent(CardUpdated, rec, "CARDS_MS")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "card.updated", a.Type)
	assert.Equal(t, int64(3), a.CardID)
	assert.Equal(t, time.UTC, a.OccurredAt.Location())
}
