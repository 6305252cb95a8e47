package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// AoryxClient is the raw vendor transport. It returns decoded JSON as-is;
// shape normalization happens in the app layer. Implementations error only
// on declared transport failures (missing config, timeout, non-2xx,
// explicit vendor failure flag), never on malformed optional fields.
type AoryxClient interface {
	Search(ctx context.Context, p SearchParams) (map[string]any, error)
	HotelInfo(ctx context.Context, hotelCode string) (map[string]any, error)
	RoomDetails(ctx context.Context, sessionID, hotelCode string) (map[string]any, error)
	Destinations(ctx context.Context, countryCode string) (map[string]any, error)
	Countries(ctx context.Context) (map[string]any, error)
	ExchangeRates(ctx context.Context, base string) (map[string]any, error)
}

type FavoriteRepository interface {
	List(ctx context.Context, userID string) ([]Favorite, error)
	Get(ctx context.Context, userID, hotelCode string) (Favorite, error)
	Upsert(ctx context.Context, f Favorite) error
	Delete(ctx context.Context, userID, hotelCode string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
