package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hasratyan/aoryx.am/internal/domain"
)

// ErrNoSession means a search response carried no usable session id, so no
// follow-up room-details call is possible.
var ErrNoSession = errors.New("vendor search response has no session id")

// QueryService serves the vendor-backed read paths. Static content and
// exchange rates are cached read-through; search and room details are bound
// to a vendor session upstream and always go through.
type QueryService struct {
	aoryx           domain.AoryxClient
	cache           domain.Cache
	cacheTTL        time.Duration
	ratesTTL        time.Duration
	defaultCurrency string
}

func NewQueryService(a domain.AoryxClient, c domain.Cache, cacheTTL, ratesTTL time.Duration, defaultCurrency string) *QueryService {
	return &QueryService{
		aoryx:           a,
		cache:           c,
		cacheTTL:        cacheTTL,
		ratesTTL:        ratesTTL,
		defaultCurrency: defaultCurrency,
	}
}

func (s *QueryService) Search(ctx context.Context, p domain.SearchParams, sortKey string) (domain.SearchResult, error) {
	if err := p.Validate(); err != nil {
		return domain.SearchResult{}, err
	}
	if p.Currency == "" {
		p.Currency = s.defaultCurrency
	}
	raw, err := s.aoryx.Search(ctx, p)
	if err != nil {
		return domain.SearchResult{}, err
	}
	sid := sessionID(raw)
	if sid == "" {
		return domain.SearchResult{}, ErrNoSession
	}
	res := domain.SearchResult{
		SessionID: sid,
		Hotels:    mapHotels(raw, p.Currency),
	}
	SortHotels(res.Hotels, sortKey)
	return res, nil
}

func (s *QueryService) HotelInfo(ctx context.Context, hotelCode string) (domain.HotelDetail, error) {
	key := hotelCacheKey(hotelCode)
	var hd domain.HotelDetail
	if ok, _ := s.cache.Get(ctx, key, &hd); ok {
		return hd, nil
	}
	raw, err := s.aoryx.HotelInfo(ctx, hotelCode)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	hd = mapHotelDetail(hotelCode, raw)
	_ = s.cache.Set(ctx, key, hd, int(s.cacheTTL.Seconds()))
	return hd, nil
}

func (s *QueryService) RoomDetails(ctx context.Context, sessionID, hotelCode string) (domain.RoomDetailsResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.RoomDetailsResult{}, ErrNoSession
	}
	raw, err := s.aoryx.RoomDetails(ctx, sessionID, hotelCode)
	if err != nil {
		return domain.RoomDetailsResult{}, err
	}
	return domain.RoomDetailsResult{
		SessionID: sessionID,
		HotelCode: hotelCode,
		Rooms:     mapRooms(raw, s.defaultCurrency),
	}, nil
}

func (s *QueryService) Destinations(ctx context.Context, countryCode string) ([]domain.Destination, error) {
	key := fmt.Sprintf("static:destinations:%s", strings.ToUpper(countryCode))
	var out []domain.Destination
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	raw, err := s.aoryx.Destinations(ctx, countryCode)
	if err != nil {
		return nil, err
	}
	out = mapDestinations(raw)
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *QueryService) Countries(ctx context.Context) ([]domain.Country, error) {
	const key = "static:countries"
	var out []domain.Country
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	raw, err := s.aoryx.Countries(ctx)
	if err != nil {
		return nil, err
	}
	out = mapCountries(raw)
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *QueryService) ExchangeRates(ctx context.Context, base string) (domain.RateTable, error) {
	if base == "" {
		base = s.defaultCurrency
	}
	base = strings.ToUpper(base)
	key := fmt.Sprintf("rates:%s", base)
	var t domain.RateTable
	if ok, _ := s.cache.Get(ctx, key, &t); ok {
		return t, nil
	}
	raw, err := s.aoryx.ExchangeRates(ctx, base)
	if err != nil {
		return domain.RateTable{}, err
	}
	t = mapRates(base, raw)
	_ = s.cache.Set(ctx, key, t, int(s.ratesTTL.Seconds()))
	return t, nil
}

// WarmHotel fetches hotel content bypassing the cache read and rewrites the
// entry; the prefetch command uses it to keep popular hotels hot.
func (s *QueryService) WarmHotel(ctx context.Context, hotelCode string) error {
	raw, err := s.aoryx.HotelInfo(ctx, hotelCode)
	if err != nil {
		return err
	}
	hd := mapHotelDetail(hotelCode, raw)
	return s.cache.Set(ctx, hotelCacheKey(hotelCode), hd, int(s.cacheTTL.Seconds()))
}

func hotelCacheKey(code string) string { return fmt.Sprintf("hotel:%s", code) }
