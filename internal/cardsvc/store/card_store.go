package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/card-services/internal/cardsvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrRecordNotFound    = errors.New("card record not found")
	ErrMobileNumberTaken = errors.New("mobile number already has a card")
	ErrCardNumberTaken   = errors.New("card number already issued")
)

// CardStore is the persistence contract of the cards table.
// Lookups return (nil, nil) when nothing matches.
type CardStore interface {
	GetByMobileNumber(ctx context.Context, mobileNumber string) (*models.CardRecord, error)
	GetByID(ctx context.Context, cardID int64) (*models.CardRecord, error)
	Insert(ctx context.Context, rec *models.CardRecord) (*models.CardRecord, error)
	Update(ctx context.Context, rec *models.CardRecord) error
	DeleteByID(ctx context.Context, cardID int64) error
	Ping(ctx context.Context) error
}

const (
	mobileNumberConstraint = "cards_mobile_number_key"
	cardNumberConstraint   = "cards_card_number_key"
)

const cardColumns = `card_id, mobile_number, card_number, card_type, total_limit, amount_used,
		available_amount, created_at, created_by, updated_at, updated_by`

type PostgresCardStore struct {
	db    *pgxpool.Pool
	actor string
}

func NewCardStore(db *pgxpool.Pool, actor string) *PostgresCardStore {
	return &PostgresCardStore{db: db, actor: actor}
}

func (s *PostgresCardStore) GetByMobileNumber(ctx context.Context, mobileNumber string) (*models.CardRecord, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE mobile_number = $1
		LIMIT 1
	`

	rec, err := scanCard(s.db.QueryRow(ctx, query, mobileNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to get card by mobile number: %w", err)
	}
	return rec, nil
}

func (s *PostgresCardStore) GetByID(ctx context.Context, cardID int64) (*models.CardRecord, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE card_id = $1
	`

	rec, err := scanCard(s.db.QueryRow(ctx, query, cardID))
	if err != nil {
		return nil, fmt.Errorf("failed to get card by id: %w", err)
	}
	return rec, nil
}

func (s *PostgresCardStore) Insert(ctx context.Context, rec *models.CardRecord) (*models.CardRecord, error) {
	query := `
		INSERT INTO cards (mobile_number, card_number, card_type, total_limit, amount_used,
			available_amount, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, now(), $7)
		RETURNING ` + cardColumns

	saved, err := scanCard(s.db.QueryRow(ctx, query,
		rec.MobileNumber,
		rec.CardNumber,
		rec.CardType,
		rec.TotalLimit,
		rec.AmountUsed,
		rec.AvailableAmount,
		s.actor,
	))
	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("failed to insert card: %w", err)
	}
	if saved == nil {
		return nil, errors.New("failed to insert card: no row returned")
	}

	return saved, nil
}

func (s *PostgresCardStore) Update(ctx context.Context, rec *models.CardRecord) error {
	query := `
		UPDATE cards
		SET mobile_number = $2,
			card_number = $3,
			card_type = $4,
			total_limit = $5,
			amount_used = $6,
			available_amount = $7,
			updated_at = now(),
			updated_by = $8
		WHERE card_id = $1
	`

	tag, err := s.db.Exec(ctx, query,
		rec.CardID,
		rec.MobileNumber,
		rec.CardNumber,
		rec.CardType,
		rec.TotalLimit,
		rec.AmountUsed,
		rec.AvailableAmount,
		s.actor,
	)
	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return cerr
		}
		return fmt.Errorf("failed to update card %d: %w", rec.CardID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (s *PostgresCardStore) DeleteByID(ctx context.Context, cardID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM cards WHERE card_id = $1`, cardID)
	if err != nil {
		return fmt.Errorf("failed to delete card %d: %w", cardID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (s *PostgresCardStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// scanCard returns (nil, nil) for an empty result.
func scanCard(row pgx.Row) (*models.CardRecord, error) {
	var rec models.CardRecord
	err := row.Scan(
		&rec.CardID,
		&rec.MobileNumber,
		&rec.CardNumber,
		&rec.CardType,
		&rec.TotalLimit,
		&rec.AmountUsed,
		&rec.AvailableAmount,
		&rec.CreatedAt,
		&rec.CreatedBy,
		&rec.UpdatedAt,
		&rec.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &rec, nil
}

func constraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}

	switch pgErr.ConstraintName {
	case mobileNumberConstraint:
		return ErrMobileNumberTaken
	case cardNumberConstraint:
		return ErrCardNumberTaken
	}
	return nil
}
