package store

import (
	"context"
	"sync"
	"time"

	"github.com/avvvet/card-services/internal/cardsvc/models"
)

// MemoryCardStore keeps cards in process memory. It enforces the same
// uniqueness rules as the cards table and is meant for tests and local runs.
type MemoryCardStore struct {
	mu     sync.RWMutex
	cards  map[int64]*models.CardRecord
	nextID int64
	actor  string
	now    func() time.Time
}

func NewMemoryCardStore(actor string) *MemoryCardStore {
	return &MemoryCardStore{
		cards:  make(map[int64]*models.CardRecord),
		nextID: 1,
		actor:  actor,
		now:    time.Now,
	}
}

func (s *MemoryCardStore) GetByMobileNumber(ctx context.Context, mobileNumber string) (*models.CardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.cards {
		if c.MobileNumber == mobileNumber {
			return copyRecord(c), nil
		}
	}
	return nil, nil
}

func (s *MemoryCardStore) GetByID(ctx context.Context, cardID int64) (*models.CardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.cards[cardID]; ok {
		return copyRecord(c), nil
	}
	return nil, nil
}

func (s *MemoryCardStore) Insert(ctx context.Context, rec *models.CardRecord) (*models.CardRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(0, rec); err != nil {
		return nil, err
	}

	saved := copyRecord(rec)
	saved.CardID = s.nextID
	saved.CreatedAt = s.now()
	saved.CreatedBy = s.actor
	saved.UpdatedAt = nil
	saved.UpdatedBy = nil
	s.cards[saved.CardID] = saved
	s.nextID++

	return copyRecord(saved), nil
}

func (s *MemoryCardStore) Update(ctx context.Context, rec *models.CardRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.cards[rec.CardID]
	if !ok {
		return ErrRecordNotFound
	}
	if err := s.checkUnique(rec.CardID, rec); err != nil {
		return err
	}

	now := s.now()
	actor := s.actor
	existing.Apply(models.CardFromRecord(rec))
	existing.UpdatedAt = &now
	existing.UpdatedBy = &actor

	return nil
}

func (s *MemoryCardStore) DeleteByID(ctx context.Context, cardID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[cardID]; !ok {
		return ErrRecordNotFound
	}
	delete(s.cards, cardID)
	return nil
}

func (s *MemoryCardStore) Ping(ctx context.Context) error {
	return nil
}

// checkUnique must be called with the write lock held. self is skipped so an
// update may keep its own mobile and card numbers.
func (s *MemoryCardStore) checkUnique(self int64, rec *models.CardRecord) error {
	for id, c := range s.cards {
		if id == self {
			continue
		}
		if c.MobileNumber == rec.MobileNumber {
			return ErrMobileNumberTaken
		}
		if c.CardNumber == rec.CardNumber {
			return ErrCardNumberTaken
		}
	}
	return nil
}

func copyRecord(rec *models.CardRecord) *models.CardRecord {
	cp := *rec
	if rec.UpdatedAt != nil {
		t := *rec.UpdatedAt
		cp.UpdatedAt = &t
	}
	if rec.UpdatedBy != nil {
		b := *rec.UpdatedBy
		cp.UpdatedBy = &b
	}
	return &cp
}
