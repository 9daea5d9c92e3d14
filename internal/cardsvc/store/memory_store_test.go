package store

import (
	"context"
	"testing"
	"time"

	"github.com/avvvet/card-services/internal/cardsvc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMemoryCardStore_InsertAssignsIdentityAndAudit(t *testing.T) {
	s := NewMemoryCardStore("CARDS_MS")
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = fixedClock(created)
	ctx := context.Background()

	first, err := s.Insert(ctx, models.NewCreditCard("900000000001", "100000000001"))
	require.NoError(t, err)
	second, err := s.Insert(ctx, models.NewCreditCard("900000000002", "100000000002"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.CardID)
	assert.Equal(t, int64(2), second.CardID)
	assert.Equal(t, created, first.CreatedAt)
	assert.Equal(t, "CARDS_MS", first.CreatedBy)
	assert.Nil(t, first.UpdatedAt)

	got, err := s.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "900000000002", got.MobileNumber)
}

func TestMemoryCardStore_Uniqueness(t *testing.T) {
	s := NewMemoryCardStore("CARDS_MS")
	ctx := context.Background()

	_, err := s.Insert(ctx, models.NewCreditCard("900000000001", "100000000001"))
	require.NoError(t, err)

	_, err = s.Insert(ctx, models.NewCreditCard("900000000001", "100000000099"))
	assert.ErrorIs(t, err, ErrMobileNumberTaken)

	_, err = s.Insert(ctx, models.NewCreditCard("900000000099", "100000000001"))
	assert.ErrorIs(t, err, ErrCardNumberTaken)
}

func TestMemoryCardStore_GetMissing(t *testing.T) {
	s := NewMemoryCardStore("CARDS_MS")

	rec, err := s.GetByMobileNumber(context.Background(), "900000000001")
	assert.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = s.GetByID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemoryCardStore_UpdateKeepsCreationColumns(t *testing.T) {
	s := NewMemoryCardStore("CARDS_MS")
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	s.now = fixedClock(created)
	ctx := context.Background()

	saved, err := s.Insert(ctx, models.NewCreditCard("900000000001", "100000000001"))
	require.NoError(t, err)

	s.now = fixedClock(updated)
	saved.AmountUsed = 1000
	saved.AvailableAmount = 99000
	saved.CreatedBy = "SOMEONE_ELSE"
	require.NoError(t, s.Update(ctx, saved))

	got, err := s.GetByID(ctx, saved.CardID)
	require.NoError(t, err)
	assert.Equal(t, 1000, got.AmountUsed)
	assert.Equal(t, 99000, got.AvailableAmount)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, "CARDS_MS", got.CreatedBy)
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, updated, *got.UpdatedAt)
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, "CARDS_MS", *got.UpdatedBy)
}

func TestMemoryCardStore_UpdateAndDeleteMissing(t *testing.T) {
	s := NewMemoryCardStore("CARDS_MS")
	ctx := context.Background()

	rec := models.NewCreditCard("900000000001", "100000000001")
	rec.CardID = 7
	assert.ErrorIs(t, s.Update(ctx, rec), ErrRecordNotFound)
	assert.ErrorIs(t, s.DeleteByID(ctx, 7), ErrRecordNotFound)
}

func TestMemoryCardStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryCardStore("CARDS_MS")
	ctx := context.Background()

	saved, err := s.Insert(ctx, models.NewCreditCard("900000000001", "100000000001"))
	require.NoError(t, err)
	saved.AmountUsed = 5

	got, err := s.GetByMobileNumber(ctx, "900000000001")
	require.NoError(t, err)
	assert.Equal(t, 0, got.AmountUsed)
}

func TestMemoryCardStore_Delete(t *testing.T) {
	s := NewMemoryCardStore("CARDS_MS")
	ctx := context.Background()

	saved, err := s.Insert(ctx, models.NewCreditCard("900000000001", "100000000001"))
	require.NoError(t, err)
	require.NoError(t, s.DeleteByID(ctx, saved.CardID))

	got, err := s.GetByMobileNumber(ctx, "900000000001")
	require.NoError(t, err)
	assert.Nil(t, got)

	// the freed numbers can be issued again
	_, err = s.Insert(ctx, models.NewCreditCard("900000000001", "100000000001"))
	assert.NoError(t, err)
}
