package models

import "time"

const (
	CreditCard   = "Credit Card"
	NewCardLimit = 100000
)

// CardRecord represents the cards table in the database.
type CardRecord struct {
	CardID          int64      `json:"card_id"` // Primary key, assigned on insert
	MobileNumber    string     `json:"mobile_number"`
	CardNumber      string     `json:"card_number"`
	CardType        string     `json:"card_type"`
	TotalLimit      int        `json:"total_limit"`
	AmountUsed      int        `json:"amount_used"`
	AvailableAmount int        `json:"available_amount"`
	CreatedAt       time.Time  `json:"created_at"`
	CreatedBy       string     `json:"created_by"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
	UpdatedBy       *string    `json:"updated_by,omitempty"`
}

// Card is the transfer view of a card. Identifier and audit columns never leave the service.
type Card struct {
	MobileNumber    string `json:"mobileNumber" validate:"required,digits12"`
	CardNumber      string `json:"cardNumber" validate:"required,digits12"`
	CardType        string `json:"cardType" validate:"required"`
	TotalLimit      int    `json:"totalLimit" validate:"gt=0"`
	AmountUsed      int    `json:"amountUsed" validate:"gte=0"`
	AvailableAmount int    `json:"availableAmount" validate:"gte=0"`
}

func CardFromRecord(rec *CardRecord) Card {
	return Card{
		MobileNumber:    rec.MobileNumber,
		CardNumber:      rec.CardNumber,
		CardType:        rec.CardType,
		TotalLimit:      rec.TotalLimit,
		AmountUsed:      rec.AmountUsed,
		AvailableAmount: rec.AvailableAmount,
	}
}

// Apply replaces every business field of the record with the values of card.
// CardID and the audit columns are left alone.
func (rec *CardRecord) Apply(card Card) {
	rec.MobileNumber = card.MobileNumber
	rec.CardNumber = card.CardNumber
	rec.CardType = card.CardType
	rec.TotalLimit = card.TotalLimit
	rec.AmountUsed = card.AmountUsed
	rec.AvailableAmount = card.AvailableAmount
}

// NewCreditCard builds the record every freshly created card starts from.
func NewCreditCard(mobileNumber, cardNumber string) *CardRecord {
	return &CardRecord{
		MobileNumber:    mobileNumber,
		CardNumber:      cardNumber,
		CardType:        CreditCard,
		TotalLimit:      NewCardLimit,
		AmountUsed:      0,
		AvailableAmount: NewCardLimit,
	}
}
