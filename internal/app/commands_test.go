package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hasratyan/aoryx.am/internal/app"
	"github.com/hasratyan/aoryx.am/internal/domain"
)

// fakeFavRepo keeps favorites in a map keyed by userID+"/"+hotelCode.
type fakeFavRepo struct {
	store map[string]domain.Favorite
}

func (f *fakeFavRepo) key(userID, code string) string { return userID + "/" + code }

func (f *fakeFavRepo) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	var out []domain.Favorite
	for _, v := range f.store {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeFavRepo) Get(ctx context.Context, userID, code string) (domain.Favorite, error) {
	v, ok := f.store[f.key(userID, code)]
	if !ok {
		return domain.Favorite{}, domain.ErrNotFound
	}
	return v, nil
}

func (f *fakeFavRepo) Upsert(ctx context.Context, fav domain.Favorite) error {
	if f.store == nil {
		f.store = map[string]domain.Favorite{}
	}
	f.store[f.key(fav.UserID, fav.HotelCode)] = fav
	return nil
}

func (f *fakeFavRepo) Delete(ctx context.Context, userID, code string) error {
	k := f.key(userID, code)
	if _, ok := f.store[k]; !ok {
		return domain.ErrNotFound
	}
	delete(f.store, k)
	return nil
}

func TestToggle_FlipsPresence(t *testing.T) {
	repo := &fakeFavRepo{}
	svc := app.NewFavoriteService(repo)
	ctx := context.Background()
	fav := domain.Favorite{HotelCode: "H1", Name: ptr("Grand")}

	on, err := svc.Toggle(ctx, "u1", fav)
	if err != nil || !on {
		t.Fatalf("first toggle: on=%v err=%v", on, err)
	}
	if _, err := repo.Get(ctx, "u1", "H1"); err != nil {
		t.Fatalf("favorite not stored: %v", err)
	}

	off, err := svc.Toggle(ctx, "u1", fav)
	if err != nil || off {
		t.Fatalf("second toggle: on=%v err=%v", off, err)
	}
	if _, err := repo.Get(ctx, "u1", "H1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("favorite should be gone, got %v", err)
	}

	// third toggle returns to saved: idempotent per pair
	on, err = svc.Toggle(ctx, "u1", fav)
	if err != nil || !on {
		t.Fatalf("third toggle: on=%v err=%v", on, err)
	}
}

func TestToggle_SetsOwnershipAndTimestamps(t *testing.T) {
	repo := &fakeFavRepo{}
	svc := app.NewFavoriteService(repo)

	if _, err := svc.Toggle(context.Background(), "u2", domain.Favorite{HotelCode: "H2"}); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	got, err := repo.Get(context.Background(), "u2", "H2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != "u2" || got.Source != "aoryx" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.SavedAt.IsZero() || got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", got)
	}
}

func TestToggle_IsolatedPerUser(t *testing.T) {
	repo := &fakeFavRepo{}
	svc := app.NewFavoriteService(repo)
	ctx := context.Background()
	fav := domain.Favorite{HotelCode: "H1"}

	if _, err := svc.Toggle(ctx, "u1", fav); err != nil {
		t.Fatalf("toggle u1: %v", err)
	}
	on, err := svc.Toggle(ctx, "u2", fav)
	if err != nil || !on {
		t.Fatalf("u2 toggle should save, on=%v err=%v", on, err)
	}
	if _, err := repo.Get(ctx, "u1", "H1"); err != nil {
		t.Fatalf("u1 favorite must survive u2 toggle: %v", err)
	}
}

func TestRemove_Missing(t *testing.T) {
	svc := app.NewFavoriteService(&fakeFavRepo{})
	if err := svc.Remove(context.Background(), "u1", "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func ptr[T any](v T) *T { return &v }
