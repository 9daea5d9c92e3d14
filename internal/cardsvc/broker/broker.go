package broker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/avvvet/card-services/internal/cardsvc/audit"
	"github.com/avvvet/card-services/internal/cardsvc/models"
	"github.com/avvvet/card-services/internal/cardsvc/service"
	"github.com/avvvet/card-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const (
	EventsTopic = "cards.events"
	QueryTopic  = "cards.query"
	AuditTopic  = "cards.audit"

	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// Conn is the part of *nats.Conn the broker uses.
type Conn interface {
	Publish(subj string, data []byte) error
	QueueSubscribe(subj, queue string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// AuditHistory reads the recorded changes of a card.
type AuditHistory interface {
	History(ctx context.Context, mobileNumber string, limit int64) ([]audit.Entry, error)
}

type Broker struct {
	Conn        Conn
	CardService *service.CardService
	Audit       AuditHistory
}

func NewBroker(nc Conn, cardService *service.CardService) *Broker {
	return &Broker{
		Conn:        nc,
		CardService: cardService,
	}
}

// Notify publishes ev on cards.events.<type>, e.g. cards.events.card.created.
func (b *Broker) Notify(ctx context.Context, ev models.CardEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return b.Publish(EventsTopic+"."+ev.Type, payload)
}

// consume card lookups from sibling services (Queue)
func (b *Broker) QueueSubscribeCardQuery(topic, queueGroup string) (*nats.Subscription, error) {
	sub, err := b.Conn.QueueSubscribe(topic, queueGroup, b.replyWith(b.answerQuery))
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// serve card history reads from the audit trail (Queue)
func (b *Broker) QueueSubscribeAuditQuery(topic, queueGroup string) (*nats.Subscription, error) {
	if b.Audit == nil {
		return nil, errors.New("audit history is not configured")
	}

	sub, err := b.Conn.QueueSubscribe(topic, queueGroup, b.replyWith(b.answerAuditQuery))
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) replyWith(answer func(ctx context.Context, data []byte) []byte) nats.MsgHandler {
	return func(msg *nats.Msg) {
		if msg.Reply == "" {
			log.Warnf("query on %s without reply subject dropped", msg.Subject)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		b.Publish(msg.Reply, answer(ctx, msg.Data))
	}
}

func (b *Broker) answerQuery(ctx context.Context, data []byte) []byte {
	reply := comm.CardQueryReply{}

	var q comm.CardQuery
	if err := json.Unmarshal(data, &q); err != nil || q.MobileNumber == "" {
		reply.Error = "invalid card query"
		return toJSON(reply)
	}

	card, err := b.CardService.FetchCardInfo(ctx, q.MobileNumber)
	switch {
	case err == nil:
		reply.Found = true
		reply.Card = card
	case errors.Is(err, service.ErrCardNotFound):
		reply.Found = false
	default:
		log.Errorf("Error [CardService.FetchCardInfo] %s", err)
		reply.Error = "card lookup failed"
	}

	return toJSON(reply)
}

func (b *Broker) answerAuditQuery(ctx context.Context, data []byte) []byte {
	reply := comm.AuditQueryReply{Entries: []audit.Entry{}}

	var q comm.AuditQuery
	if err := json.Unmarshal(data, &q); err != nil || q.MobileNumber == "" {
		reply.Error = "invalid audit query"
		return toJSON(reply)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	entries, err := b.Audit.History(ctx, q.MobileNumber, limit)
	if err != nil {
		log.Errorf("Error [Audit.History] %s", err)
		reply.Error = "audit lookup failed"
		return toJSON(reply)
	}

	reply.Entries = entries
	return toJSON(reply)
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

func toJSON(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("Error marshalling %T: %s", v, err)
	}
	return data
}
