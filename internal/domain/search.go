package domain

import (
	"errors"
	"strings"
	"time"
)

// RoomOccupancy describes one requested room.
type RoomOccupancy struct {
	Adults       int   `json:"adults"`
	ChildrenAges []int `json:"childrenAges,omitempty"`
}

// SearchParams is the value object parsed from the search query string.
// Either Destination or HotelCode must be present.
type SearchParams struct {
	Destination *string         `json:"destination,omitempty"`
	HotelCode   *string         `json:"hotelCode,omitempty"`
	CheckIn     string          `json:"checkIn"`  // YYYY-MM-DD
	CheckOut    string          `json:"checkOut"` // YYYY-MM-DD
	Rooms       []RoomOccupancy `json:"rooms"`
	Currency    string          `json:"currency"`
	Nationality string          `json:"nationality,omitempty"`
}

var ErrInvalidSearch = errors.New("invalid search parameters")

// Validate checks presence only; the vendor owns deeper validation.
func (p SearchParams) Validate() error {
	hasDest := p.Destination != nil && strings.TrimSpace(*p.Destination) != ""
	hasCode := p.HotelCode != nil && strings.TrimSpace(*p.HotelCode) != ""
	if !hasDest && !hasCode {
		return ErrInvalidSearch
	}
	for _, d := range []string{p.CheckIn, p.CheckOut} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return ErrInvalidSearch
		}
	}
	if len(p.Rooms) == 0 {
		return ErrInvalidSearch
	}
	for _, r := range p.Rooms {
		if r.Adults < 1 {
			return ErrInvalidSearch
		}
	}
	return nil
}
