package app

import (
	"sort"

	"github.com/hasratyan/aoryx.am/internal/domain"
)

// Sort keys accepted on the search endpoint.
const (
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortRatingAsc  = "rating_asc"
	SortRatingDesc = "rating_desc"
)

// SortHotels orders hotels in place by price or rating. Entries missing the
// sort field always land after entries that have it, in either direction.
// Unknown keys leave vendor order untouched.
func SortHotels(hotels []domain.HotelSummary, key string) {
	var field func(domain.HotelSummary) *float64
	desc := false
	switch key {
	case SortPriceAsc:
		field = func(h domain.HotelSummary) *float64 { return h.PriceFrom }
	case SortPriceDesc:
		field = func(h domain.HotelSummary) *float64 { return h.PriceFrom }
		desc = true
	case SortRatingAsc:
		field = func(h domain.HotelSummary) *float64 { return h.Rating }
	case SortRatingDesc:
		field = func(h domain.HotelSummary) *float64 { return h.Rating }
		desc = true
	default:
		return
	}

	sort.SliceStable(hotels, func(i, j int) bool {
		a, b := field(hotels[i]), field(hotels[j])
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false // missing sorts last
		case b == nil:
			return true
		case desc:
			return *a > *b
		default:
			return *a < *b
		}
	})
}
