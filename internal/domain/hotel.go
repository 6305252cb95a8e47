package domain

// HotelSummary is one search-result row in the site's internal shape.
// Optional fields are pointers: the vendor payload is best-effort and
// absent fields stay nil instead of zero values.
type HotelSummary struct {
	Code      string   `json:"code"`
	Name      *string  `json:"name"`
	City      *string  `json:"city"`
	Address   *string  `json:"address"`
	ImageURL  *string  `json:"imageUrl"`
	Rating    *float64 `json:"rating"`
	PriceFrom *float64 `json:"priceFrom"`
	Currency  *string  `json:"currency"`
	Source    string   `json:"source"`
}

type HotelDetail struct {
	Code        string   `json:"code"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	City        *string  `json:"city"`
	Country     *string  `json:"country"`
	Address     *string  `json:"address"`
	Rating      *float64 `json:"rating"`
	Coords      *Coords  `json:"coords"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type RoomOption struct {
	Code       *string  `json:"code"`
	Name       *string  `json:"name"`
	BoardBasis *string  `json:"boardBasis"`
	Price      *float64 `json:"price"`
	Currency   *string  `json:"currency"`
	Refundable *bool    `json:"refundable"`
	RateKey    *string  `json:"rateKey"`
}

type Destination struct {
	Code        string  `json:"code"`
	Name        *string `json:"name"`
	CountryCode *string `json:"countryCode"`
}

type Country struct {
	Code     string  `json:"code"`
	Name     *string `json:"name"`
	Currency *string `json:"currency"`
}

// RateTable maps currency codes to their rate against Base.
type RateTable struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// SearchResult carries the vendor search session alongside the hotels;
// the session id is required for the subsequent room-details call.
type SearchResult struct {
	SessionID string         `json:"sessionId"`
	Hotels    []HotelSummary `json:"hotels"`
}

type RoomDetailsResult struct {
	SessionID string       `json:"sessionId"`
	HotelCode string       `json:"hotelCode"`
	Rooms     []RoomOption `json:"rooms"`
}
