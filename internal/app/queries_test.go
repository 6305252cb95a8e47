package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hasratyan/aoryx.am/internal/app"
	"github.com/hasratyan/aoryx.am/internal/domain"
)

// ---- fakes ----

type fakeAoryx struct {
	searchResp map[string]any
	infoResp   map[string]any
	infoCalls  int
	ratesResp  map[string]any
	err        error
}

func (f *fakeAoryx) Search(ctx context.Context, p domain.SearchParams) (map[string]any, error) {
	return f.searchResp, f.err
}
func (f *fakeAoryx) HotelInfo(ctx context.Context, code string) (map[string]any, error) {
	f.infoCalls++
	return f.infoResp, f.err
}
func (f *fakeAoryx) RoomDetails(ctx context.Context, sessionID, code string) (map[string]any, error) {
	return map[string]any{"Rooms": []any{}}, f.err
}
func (f *fakeAoryx) Destinations(ctx context.Context, cc string) (map[string]any, error) {
	return map[string]any{}, f.err
}
func (f *fakeAoryx) Countries(ctx context.Context) (map[string]any, error) {
	return map[string]any{}, f.err
}
func (f *fakeAoryx) ExchangeRates(ctx context.Context, base string) (map[string]any, error) {
	return f.ratesResp, f.err
}

type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

// ---- tests ----

func validParams() domain.SearchParams {
	d := "EVN"
	return domain.SearchParams{
		Destination: &d,
		CheckIn:     "2026-09-01",
		CheckOut:    "2026-09-05",
		Rooms:       []domain.RoomOccupancy{{Adults: 2}},
	}
}

func newQS(a *fakeAoryx, c *fakeCache) *app.QueryService {
	return app.NewQueryService(a, c, 10*time.Minute, time.Hour, "USD")
}

func TestSearch_NormalizesAndSorts(t *testing.T) {
	a := &fakeAoryx{searchResp: map[string]any{
		"SessionId": "s-9",
		"Hotels": []any{
			map[string]any{"HotelCode": "B", "Price": 200.0},
			map[string]any{"HotelCode": "A", "Price": 100.0},
			map[string]any{"HotelCode": "X"},
		},
	}}
	q := newQS(a, &fakeCache{})

	res, err := q.Search(context.Background(), validParams(), app.SortPriceAsc)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.SessionID != "s-9" {
		t.Fatalf("session: %q", res.SessionID)
	}
	if len(res.Hotels) != 3 || res.Hotels[0].Code != "A" || res.Hotels[2].Code != "X" {
		t.Fatalf("unexpected order: %+v", res.Hotels)
	}
}

func TestSearch_MissingSession(t *testing.T) {
	a := &fakeAoryx{searchResp: map[string]any{"Hotels": []any{}}}
	q := newQS(a, &fakeCache{})

	_, err := q.Search(context.Background(), validParams(), "")
	if !errors.Is(err, app.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSearch_InvalidParams(t *testing.T) {
	q := newQS(&fakeAoryx{}, &fakeCache{})
	_, err := q.Search(context.Background(), domain.SearchParams{CheckIn: "2026-09-01"}, "")
	if !errors.Is(err, domain.ErrInvalidSearch) {
		t.Fatalf("expected ErrInvalidSearch, got %v", err)
	}
}

func TestHotelInfo_CacheMissThenHit(t *testing.T) {
	a := &fakeAoryx{infoResp: map[string]any{"Hotel": map[string]any{"HotelName": "Grand"}}}
	cache := &fakeCache{}
	q := newQS(a, cache)

	h, err := q.HotelInfo(context.Background(), "H1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.Name == nil || *h.Name != "Grand" {
		t.Fatalf("unexpected detail: %+v", h)
	}

	// Mutate the vendor response; second read must come from cache.
	a.infoResp = map[string]any{"Hotel": map[string]any{"HotelName": "SHOULD NOT SEE THIS"}}
	h2, err := q.HotelInfo(context.Background(), "H1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if *h2.Name != "Grand" {
		t.Fatalf("expected cached name, got %s", *h2.Name)
	}
	if a.infoCalls != 1 {
		t.Fatalf("expected single vendor call, got %d", a.infoCalls)
	}
}

func TestExchangeRates_CachedPerBase(t *testing.T) {
	a := &fakeAoryx{ratesResp: map[string]any{"Rates": []any{
		map[string]any{"Currency": "AMD", "Rate": 387.0},
	}}}
	cache := &fakeCache{}
	q := newQS(a, cache)

	tab, err := q.ExchangeRates(context.Background(), "usd")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if tab.Base != "USD" || tab.Rates["AMD"] != 387.0 {
		t.Fatalf("unexpected table: %+v", tab)
	}

	a.ratesResp = map[string]any{"Rates": []any{map[string]any{"Currency": "AMD", "Rate": 1.0}}}
	tab2, _ := q.ExchangeRates(context.Background(), "USD")
	if tab2.Rates["AMD"] != 387.0 {
		t.Fatalf("expected cached rate, got %v", tab2.Rates["AMD"])
	}
}

func TestRoomDetails_RequiresSession(t *testing.T) {
	q := newQS(&fakeAoryx{}, &fakeCache{})
	_, err := q.RoomDetails(context.Background(), "  ", "H1")
	if !errors.Is(err, app.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func pfloat(f float64) *float64 { return &f }
