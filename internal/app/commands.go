package app

import (
	"context"
	"errors"
	"time"

	"github.com/hasratyan/aoryx.am/internal/domain"
)

// FavoriteService owns the favorites command paths. Each record belongs to
// exactly one user; no coordination beyond the storage-level unique key.
type FavoriteService struct {
	repo domain.FavoriteRepository
	now  func() time.Time
}

func NewFavoriteService(r domain.FavoriteRepository) *FavoriteService {
	return &FavoriteService{repo: r, now: time.Now}
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	return s.repo.List(ctx, userID)
}

// Toggle flips presence of (userID, f.HotelCode) and reports the resulting
// state: true when the hotel is now saved. Calling it twice always returns
// to the starting state.
func (s *FavoriteService) Toggle(ctx context.Context, userID string, f domain.Favorite) (bool, error) {
	_, err := s.repo.Get(ctx, userID, f.HotelCode)
	switch {
	case err == nil:
		if err := s.repo.Delete(ctx, userID, f.HotelCode); err != nil {
			return true, err
		}
		return false, nil
	case errors.Is(err, domain.ErrNotFound):
		now := s.now().UTC()
		f.UserID = userID
		if f.Source == "" {
			f.Source = "aoryx"
		}
		f.SavedAt = now
		f.CreatedAt = now
		f.UpdatedAt = now
		if err := s.repo.Upsert(ctx, f); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

func (s *FavoriteService) Remove(ctx context.Context, userID, hotelCode string) error {
	return s.repo.Delete(ctx, userID, hotelCode)
}
