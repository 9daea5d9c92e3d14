package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/avvvet/card-services/internal/cardsvc/db"
	"github.com/avvvet/card-services/internal/cardsvc/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"mobile", &pgconn.PgError{Code: "23505", ConstraintName: "cards_mobile_number_key"}, ErrMobileNumberTaken},
		{"card number", &pgconn.PgError{Code: "23505", ConstraintName: "cards_card_number_key"}, ErrCardNumberTaken},
		{"wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "cards_card_number_key"}), ErrCardNumberTaken},
		{"other constraint", &pgconn.PgError{Code: "23505", ConstraintName: "cards_pkey"}, nil},
		{"other code", &pgconn.PgError{Code: "23502", ConstraintName: "cards_mobile_number_key"}, nil},
		{"plain error", errors.New("connection reset"), nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, constraintError(c.err))
		})
	}
}

// Runs against a real database when CARDS_TEST_POSTGRES_URL is set.
func TestPostgresCardStore(t *testing.T) {
	dsn := os.Getenv("CARDS_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("CARDS_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `DELETE FROM cards WHERE mobile_number LIKE '99999%'`)
	require.NoError(t, err)

	s := NewCardStore(pool, "CARDS_MS")
	require.NoError(t, s.Ping(ctx))

	saved, err := s.Insert(ctx, models.NewCreditCard("999990000001", "199990000001"))
	require.NoError(t, err)
	assert.NotZero(t, saved.CardID)
	assert.Equal(t, "CARDS_MS", saved.CreatedBy)
	assert.Nil(t, saved.UpdatedAt)

	_, err = s.Insert(ctx, models.NewCreditCard("999990000001", "199990000002"))
	assert.ErrorIs(t, err, ErrMobileNumberTaken)

	_, err = s.Insert(ctx, models.NewCreditCard("999990000002", "199990000001"))
	assert.ErrorIs(t, err, ErrCardNumberTaken)

	saved.AmountUsed = 100
	saved.AvailableAmount = 99900
	require.NoError(t, s.Update(ctx, saved))

	got, err := s.GetByMobileNumber(ctx, "999990000001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 100, got.AmountUsed)
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, "CARDS_MS", *got.UpdatedBy)

	require.NoError(t, s.DeleteByID(ctx, saved.CardID))
	assert.ErrorIs(t, s.DeleteByID(ctx, saved.CardID), ErrRecordNotFound)
	assert.ErrorIs(t, s.Update(ctx, saved), ErrRecordNotFound)

	got, err = s.GetByID(ctx, saved.CardID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
