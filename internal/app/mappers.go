package app

import (
	"strconv"
	"strings"

	"github.com/hasratyan/aoryx.am/internal/domain"
)

/********** alias registries (single source of truth) **********/

// The Aoryx schema is reverse-engineered; every field gets an ordered list
// of candidate paths and the first hit wins. Absent or mis-shaped values
// come back nil; extraction never fails.

var hotelAliases = map[string][]string{
	"code":    {"HotelCode", "Code", "HotelId", "Id", "PropertyCode"},
	"name":    {"HotelName", "Name", "PropertyName"},
	"city":    {"City", "CityName", "Location.City", "Address.City"},
	"address": {"Address", "HotelAddress", "Address.Line1", "Location.Address", "FullAddress"},
	"image":   {"ImageUrl", "Image", "ThumbnailUrl", "MainImage", "Images.0", "HotelImage"},
	"rating":  {"Rating", "StarRating", "Stars", "Category", "TripAdvisorRating"},
	"country": {"Country", "CountryName", "CountryCode", "Address.Country"},
	"desc":    {"Description", "HotelDescription", "Overview", "LongDescription"},
	"lat":     {"Latitude", "Lat", "GeoLocation.Latitude", "Location.Latitude"},
	"lon":     {"Longitude", "Lon", "Lng", "GeoLocation.Longitude", "Location.Longitude"},
}

var moneyPaths = map[string][]string{
	"hotelPrice": {"MinPrice", "Price", "TotalPrice", "Rate", "MinRate", "StartingFrom"},
	"roomPrice":  {"Price", "TotalPrice", "Rate", "TotalRate", "RoomRate", "NetPrice"},
}

// moneyKeys are tried in order when a money value is an object.
var moneyKeys = []string{"Amount", "TotalAmount", "Value", "Price", "Net", "NetAmount"}

var currencyAliases = []string{"Currency", "CurrencyCode", "Price.Currency", "Price.CurrencyCode"}

var roomAliases = map[string][]string{
	"code":  {"RoomCode", "Code", "RoomId", "RoomTypeCode"},
	"name":  {"RoomName", "Name", "RoomType", "RoomDescription", "Description"},
	"board": {"BoardBasis", "MealPlan", "Board", "MealType", "BoardType"},
	"rate":  {"RateKey", "RateId", "BookingCode", "RatePlanCode"},
}

var hotelListPaths = []string{"Hotels.Hotel", "Hotels", "HotelResults", "Results.Hotels", "SearchResult.Hotels"}

var roomListPaths = []string{"RoomDetails.Rooms", "Rooms.Room", "Rooms", "HotelRooms", "RoomOptions"}

var sessionPaths = []string{"SessionId", "SessionID", "SearchSessionId", "SessionToken", "Token"}

// keys that mark an object as room-like for the fallback scanner
var roomMarkerKeys = []string{
	"RoomName", "RoomType", "RoomCode", "RateKey", "BoardBasis", "MealPlan", "RoomDescription",
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths; numeric parts index arrays.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			cur = node[i]
		default:
			return nil
		}
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if s, ok := lookupAny(m, path).(string); ok {
		return s
	}
	return ""
}

func firstAliasStr(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		switch v := lookupAny(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return &s
			}
		case float64:
			// codes sometimes arrive numeric
			s := strconv.FormatFloat(v, 'f', -1, 64)
			return &s
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// asFloat coerces a scalar: float64, int, or numeric string ("1 250,50" ok).
func asFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		f := t
		return &f
	case int:
		f := float64(t)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		s = strings.ReplaceAll(s, " ", "")
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

// moneyValue extracts a numeric amount from any vendor money representation:
// a raw number, a numeric string, or an object keyed by one of moneyKeys
// (whose value may itself be a number or numeric string).
func moneyValue(v any) *float64 {
	if v == nil {
		return nil
	}
	if f := asFloat(v); f != nil {
		return f
	}
	if obj, ok := v.(map[string]any); ok {
		for _, k := range moneyKeys {
			if inner, ok := obj[k]; ok {
				if f := asFloat(inner); f != nil {
					return f
				}
			}
		}
	}
	return nil
}

func firstMoney(m map[string]any, paths ...string) *float64 {
	for _, p := range paths {
		if f := moneyValue(lookupAny(m, p)); f != nil {
			return f
		}
	}
	return nil
}

func firstFloat(m map[string]any, paths ...string) *float64 {
	for _, p := range paths {
		if f := asFloat(lookupAny(m, p)); f != nil {
			return f
		}
	}
	return nil
}

func firstCurrency(m map[string]any, fallback string) *string {
	for _, p := range currencyAliases {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			up := strings.ToUpper(s)
			return &up
		}
	}
	return ptrStr(fallback)
}

// asObjectList accepts either an array of objects or a single object,
// which becomes a one-element list. Anything else yields nil.
func asObjectList(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, it := range t {
			if obj, ok := it.(map[string]any); ok {
				out = append(out, obj)
			}
		}
		if len(out) > 0 {
			return out
		}
	case map[string]any:
		return []map[string]any{t}
	}
	return nil
}

func firstObjectList(m map[string]any, paths ...string) []map[string]any {
	for _, p := range paths {
		if l := asObjectList(lookupAny(m, p)); l != nil {
			return l
		}
	}
	return nil
}

// firstSliceStrings accepts []any of strings or {Url/Src/ImageUrl/Name} objects.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, p := range paths {
		raw, ok := lookupAny(m, p).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, t)
				}
			case map[string]any:
				for _, k := range []string{"Url", "ImageUrl", "Src", "Name"} {
					if u, ok := t[k].(string); ok && u != "" {
						out = append(out, u)
						break
					}
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

/********** session id **********/

func sessionID(m map[string]any) string {
	for _, p := range sessionPaths {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

/********** search-result mapper **********/

func mapHotels(m map[string]any, defaultCurrency string) []domain.HotelSummary {
	items := firstObjectList(m, hotelListPaths...)
	out := make([]domain.HotelSummary, 0, len(items))
	for _, h := range items {
		code := deref(firstAliasStr(h, hotelAliases, "code"))
		if code == "" {
			continue // a row without an identity is unusable
		}
		out = append(out, domain.HotelSummary{
			Code:      code,
			Name:      firstAliasStr(h, hotelAliases, "name"),
			City:      firstAliasStr(h, hotelAliases, "city"),
			Address:   firstAliasStr(h, hotelAliases, "address"),
			ImageURL:  firstAliasStr(h, hotelAliases, "image"),
			Rating:    firstFloat(h, hotelAliases["rating"]...),
			PriceFrom: firstMoney(h, moneyPaths["hotelPrice"]...),
			Currency:  firstCurrency(h, defaultCurrency),
			Source:    "aoryx",
		})
	}
	return out
}

/********** hotel-detail mapper **********/

func mapHotelDetail(code string, m map[string]any) domain.HotelDetail {
	// detail payloads sometimes nest the property under Hotel/HotelDetails
	if inner, ok := lookupAny(m, "Hotel").(map[string]any); ok {
		m = inner
	} else if inner, ok := lookupAny(m, "HotelDetails").(map[string]any); ok {
		m = inner
	}

	d := domain.HotelDetail{
		Code:        code,
		Name:        firstAliasStr(m, hotelAliases, "name"),
		Description: firstAliasStr(m, hotelAliases, "desc"),
		City:        firstAliasStr(m, hotelAliases, "city"),
		Country:     firstAliasStr(m, hotelAliases, "country"),
		Address:     firstAliasStr(m, hotelAliases, "address"),
		Rating:      firstFloat(m, hotelAliases["rating"]...),
		Amenities:   firstSliceStrings(m, "Facilities", "Amenities", "HotelFacilities"),
		Images:      firstSliceStrings(m, "Images", "Photos", "HotelImages"),
	}
	lat := firstFloat(m, hotelAliases["lat"]...)
	lon := firstFloat(m, hotelAliases["lon"]...)
	if lat != nil && lon != nil {
		d.Coords = &domain.Coords{Lat: *lat, Lon: *lon}
	}
	return d
}

/********** room mapper **********/

func mapRooms(m map[string]any, defaultCurrency string) []domain.RoomOption {
	items := firstObjectList(m, roomListPaths...)
	if items == nil {
		// none of the known keys hit: scan for anything room-shaped
		items = scanRoomList(m, 0)
	}
	out := make([]domain.RoomOption, 0, len(items))
	for _, r := range items {
		out = append(out, domain.RoomOption{
			Code:       firstAliasStr(r, roomAliases, "code"),
			Name:       firstAliasStr(r, roomAliases, "name"),
			BoardBasis: firstAliasStr(r, roomAliases, "board"),
			Price:      firstMoney(r, moneyPaths["roomPrice"]...),
			Currency:   firstCurrency(r, defaultCurrency),
			Refundable: refundable(r),
			RateKey:    firstAliasStr(r, roomAliases, "rate"),
		})
	}
	return out
}

const maxScanDepth = 4

// scanRoomList walks the payload breadth-first up to maxScanDepth looking
// for the first array whose object elements carry room-like field names.
func scanRoomList(m map[string]any, depth int) []map[string]any {
	if depth > maxScanDepth {
		return nil
	}
	for _, v := range m {
		if arr, ok := v.([]any); ok {
			if objs := asObjectList(arr); objs != nil && looksLikeRooms(objs) {
				return objs
			}
		}
	}
	for _, v := range m {
		if inner, ok := v.(map[string]any); ok {
			if found := scanRoomList(inner, depth+1); found != nil {
				return found
			}
		}
	}
	return nil
}

func looksLikeRooms(objs []map[string]any) bool {
	for _, k := range roomMarkerKeys {
		if _, ok := objs[0][k]; ok {
			return true
		}
	}
	return false
}

func refundable(r map[string]any) *bool {
	for _, p := range []string{"Refundable", "IsRefundable", "CancellationPolicy.Refundable"} {
		if b, ok := lookupAny(r, p).(bool); ok {
			v := b
			return &v
		}
	}
	if s := lookupStr(r, "RefundableTag"); s != "" {
		v := strings.EqualFold(s, "refundable")
		return &v
	}
	return nil
}

/********** static-content mappers **********/

func mapDestinations(m map[string]any) []domain.Destination {
	items := firstObjectList(m, "Destinations.Destination", "Destinations", "Cities")
	out := make([]domain.Destination, 0, len(items))
	for _, d := range items {
		code := deref(firstAliasStr(d, map[string][]string{
			"code": {"DestinationCode", "Code", "CityCode", "Id"},
		}, "code"))
		if code == "" {
			continue
		}
		out = append(out, domain.Destination{
			Code:        code,
			Name:        firstAliasStr(d, map[string][]string{"name": {"DestinationName", "Name", "CityName"}}, "name"),
			CountryCode: firstAliasStr(d, map[string][]string{"cc": {"CountryCode", "Country"}}, "cc"),
		})
	}
	return out
}

func mapCountries(m map[string]any) []domain.Country {
	items := firstObjectList(m, "Countries.Country", "Countries")
	out := make([]domain.Country, 0, len(items))
	for _, c := range items {
		code := deref(firstAliasStr(c, map[string][]string{"code": {"CountryCode", "Code", "Iso"}}, "code"))
		if code == "" {
			continue
		}
		out = append(out, domain.Country{
			Code:     code,
			Name:     firstAliasStr(c, map[string][]string{"name": {"CountryName", "Name"}}, "name"),
			Currency: firstAliasStr(c, map[string][]string{"cur": {"Currency", "CurrencyCode"}}, "cur"),
		})
	}
	return out
}

// mapRates accepts rates either as an array of {Currency, Rate} objects or
// as a flat code-to-number map.
func mapRates(base string, m map[string]any) domain.RateTable {
	t := domain.RateTable{Base: base, Rates: map[string]float64{}}
	if b := strings.TrimSpace(lookupStr(m, "BaseCurrency")); b != "" {
		t.Base = strings.ToUpper(b)
	}
	for _, p := range []string{"Rates.Rate", "Rates", "ExchangeRates"} {
		switch v := lookupAny(m, p).(type) {
		case []any:
			for _, r := range asObjectList(v) {
				code := strings.ToUpper(strings.TrimSpace(firstString(r, "Currency", "CurrencyCode", "Code")))
				rate := firstMoney(r, "Rate", "Value", "Amount")
				if code != "" && rate != nil {
					t.Rates[code] = *rate
				}
			}
			return t
		case map[string]any:
			// flat code-to-number map
			for code, raw := range v {
				if f := asFloat(raw); f != nil {
					t.Rates[strings.ToUpper(code)] = *f
				}
			}
			return t
		}
	}
	return t
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
