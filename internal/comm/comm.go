package comm

import (
	"github.com/avvvet/card-services/internal/cardsvc/audit"
	"github.com/avvvet/card-services/internal/cardsvc/models"
)

// CardQuery is the request body on the cards.query subject.
type CardQuery struct {
	MobileNumber string `json:"mobileNumber"`
}

// CardQueryReply is sent back to the requester's reply inbox.
type CardQueryReply struct {
	Found bool         `json:"found"`
	Card  *models.Card `json:"card,omitempty"`
	Error string       `json:"error,omitempty"`
}

// AuditQuery asks for the change history of one card on cards.audit.
// Limit <= 0 means the server default.
type AuditQuery struct {
	MobileNumber string `json:"mobileNumber"`
	Limit        int64  `json:"limit,omitempty"`
}

// AuditQueryReply lists entries newest first.
type AuditQueryReply struct {
	Entries []audit.Entry `json:"entries"`
	Error   string        `json:"error,omitempty"`
}
