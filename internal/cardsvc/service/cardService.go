package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/avvvet/card-services/internal/cardsvc/models"
	"github.com/avvvet/card-services/internal/cardsvc/store"
	log "github.com/sirupsen/logrus"
)

const (
	cardNumberBase  = 100000000000
	cardNumberRange = 900000000
)

// Notifier is told about every committed card change.
type Notifier interface {
	Notify(ctx context.Context, ev models.CardEvent) error
}

// NumberGenerator returns a candidate 12 digit card number.
type NumberGenerator func() string

func RandomCardNumber() string {
	return strconv.FormatInt(cardNumberBase+rand.Int64N(cardNumberRange), 10)
}

type CardService struct {
	store     store.CardStore
	actor     string
	newNumber NumberGenerator
	attempts  int
	notifiers []Notifier
}

type Option func(*CardService)

func WithNumberGenerator(g NumberGenerator) Option {
	return func(s *CardService) { s.newNumber = g }
}

// WithInsertAttempts bounds how many card numbers are tried when the
// generated one is already issued.
func WithInsertAttempts(n int) Option {
	return func(s *CardService) {
		if n > 0 {
			s.attempts = n
		}
	}
}

func WithNotifiers(n ...Notifier) Option {
	return func(s *CardService) { s.notifiers = append(s.notifiers, n...) }
}

func NewCardService(store store.CardStore, actor string, opts ...Option) *CardService {
	s := &CardService{
		store:     store,
		actor:     actor,
		newNumber: RandomCardNumber,
		attempts:  5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCard issues a credit card with the default limit for mobileNumber.
// A duplicate that slips past the lookup is still rejected by the store's
// unique index and reported as ErrCardAlreadyExists.
func (s *CardService) CreateCard(ctx context.Context, mobileNumber string) error {
	existing, err := s.store.GetByMobileNumber(ctx, mobileNumber)
	if err != nil {
		return fmt.Errorf("checking existing card: %w", err)
	}
	if existing != nil {
		return alreadyExists(mobileNumber)
	}

	for attempt := 1; attempt <= s.attempts; attempt++ {
		saved, err := s.store.Insert(ctx, models.NewCreditCard(mobileNumber, s.newNumber()))
		switch {
		case err == nil:
			log.WithFields(log.Fields{
				"op":      "create",
				"mobile":  mobileNumber,
				"card_id": saved.CardID,
			}).Info("card created")
			s.notify(ctx, models.NewCardEvent(models.CardCreated, saved, s.actor))
			return nil
		case errors.Is(err, store.ErrMobileNumberTaken):
			return alreadyExists(mobileNumber)
		case errors.Is(err, store.ErrCardNumberTaken):
			log.WithFields(log.Fields{"op": "create", "attempt": attempt}).Warn("generated card number already issued, retrying")
			continue
		default:
			return fmt.Errorf("creating card: %w", err)
		}
	}

	return fmt.Errorf("could not create card with a unique number after %d attempts", s.attempts)
}

func (s *CardService) FetchCardInfo(ctx context.Context, mobileNumber string) (*models.Card, error) {
	rec, err := s.store.GetByMobileNumber(ctx, mobileNumber)
	if err != nil {
		return nil, fmt.Errorf("fetching card: %w", err)
	}
	if rec == nil {
		return nil, notFound("mobileNumber", mobileNumber)
	}

	card := models.CardFromRecord(rec)
	return &card, nil
}

// UpdateCard replaces every business field of the card registered to
// card.MobileNumber. Identifier and audit columns are kept.
func (s *CardService) UpdateCard(ctx context.Context, card models.Card) (bool, error) {
	rec, err := s.store.GetByMobileNumber(ctx, card.MobileNumber)
	if err != nil {
		return false, fmt.Errorf("fetching card for update: %w", err)
	}
	if rec == nil {
		return false, notFound("mobileNumber", card.MobileNumber)
	}

	rec.Apply(card)
	if err := s.store.Update(ctx, rec); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return false, notFound("mobileNumber", card.MobileNumber)
		}
		return false, writeFailed("update", err)
	}

	log.WithFields(log.Fields{"op": "update", "mobile": card.MobileNumber, "card_id": rec.CardID}).Info("card updated")
	s.notify(ctx, models.NewCardEvent(models.CardUpdated, rec, s.actor))
	return true, nil
}

func (s *CardService) DeleteCard(ctx context.Context, mobileNumber string) (bool, error) {
	rec, err := s.store.GetByMobileNumber(ctx, mobileNumber)
	if err != nil {
		return false, fmt.Errorf("fetching card for delete: %w", err)
	}
	if rec == nil {
		return false, notFound("mobileNumber", mobileNumber)
	}

	if err := s.store.DeleteByID(ctx, rec.CardID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return false, notFound("mobileNumber", mobileNumber)
		}
		return false, writeFailed("delete", err)
	}

	log.WithFields(log.Fields{"op": "delete", "mobile": mobileNumber, "card_id": rec.CardID}).Info("card deleted")
	s.notify(ctx, models.NewCardEvent(models.CardDeleted, rec, s.actor))
	return true, nil
}

// Ready reports whether the backing store answers.
func (s *CardService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// notify runs after the write is committed, so failures are logged and never
// returned to the caller.
func (s *CardService) notify(ctx context.Context, ev models.CardEvent) {
	for _, n := range s.notifiers {
		if err := n.Notify(ctx, ev); err != nil {
			log.WithError(err).WithFields(log.Fields{"event": ev.Type, "event_id": ev.ID}).Warn("card event notification failed")
		}
	}
}
