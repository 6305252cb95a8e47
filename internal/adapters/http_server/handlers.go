package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hasratyan/aoryx.am/internal/adapters/aoryx"
	"github.com/hasratyan/aoryx.am/internal/app"
	"github.com/hasratyan/aoryx.am/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	F *app.FavoriteService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers, jwtSecret []byte) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/search", h.search)
	s.mux.Get("/v1/hotels/{code}", h.hotelInfo)
	s.mux.Get("/v1/hotels/{code}/rooms", h.roomDetails)
	s.mux.Get("/v1/destinations", h.destinations)
	s.mux.Get("/v1/countries", h.countries)
	s.mux.Get("/v1/rates", h.rates)

	s.mux.Route("/v1/favorites", func(r chi.Router) {
		r.Use(Authenticate(jwtSecret))
		r.Get("/", h.listFavorites)
		r.Post("/", h.toggleFavorite)
		r.Delete("/{code}", h.removeFavorite)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemCode(w, status, title, detail, "")
}

func writeProblemCode(w http.ResponseWriter, status int, title, detail, code string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Code: code}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeVendorErr maps the declared error categories to responses. The page
// shows a generic retry message; only the vendor error code leaks through.
func writeVendorErr(w http.ResponseWriter, err error) {
	var verr *aoryx.VendorError
	var cerr *aoryx.ClientError
	switch {
	case errors.Is(err, domain.ErrInvalidSearch):
		writeProblem(w, http.StatusBadRequest, "Invalid search", "destination or hotel code, valid dates, and at least one room are required")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
	case errors.Is(err, context.DeadlineExceeded):
		writeProblem(w, http.StatusGatewayTimeout, "Supplier timeout", "the hotel supplier did not answer in time; please retry")
	case errors.As(err, &verr):
		writeProblemCode(w, http.StatusBadGateway, "Supplier error", "the hotel supplier rejected the request; please retry", verr.Code)
	case errors.Is(err, app.ErrNoSession), errors.As(err, &cerr), errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusBadGateway, "Supplier error", "temporary problem talking to the hotel supplier; please retry")
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal error", "something went wrong; please retry")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

// ---- vendor-proxy handlers ----

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := domain.SearchParams{
		CheckIn:     q.Get("checkIn"),
		CheckOut:    q.Get("checkOut"),
		Currency:    strings.ToUpper(q.Get("currency")),
		Nationality: q.Get("nationality"),
		Rooms:       parseRooms(q.Get("rooms")),
	}
	if v := strings.TrimSpace(q.Get("destination")); v != "" {
		p.Destination = &v
	}
	if v := strings.TrimSpace(q.Get("hotelCode")); v != "" {
		p.HotelCode = &v
	}

	res, err := h.Q.Search(r.Context(), p, q.Get("sort"))
	if err != nil {
		writeVendorErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// parseRooms decodes "adults[:age,age];...", e.g. "2;2:5,7" is two rooms,
// the second with children aged 5 and 7. Empty input means one double room.
func parseRooms(s string) []domain.RoomOccupancy {
	if strings.TrimSpace(s) == "" {
		return []domain.RoomOccupancy{{Adults: 2}}
	}
	var out []domain.RoomOccupancy
	for _, part := range strings.Split(s, ";") {
		adultsStr, agesStr, _ := strings.Cut(part, ":")
		adults, err := strconv.Atoi(strings.TrimSpace(adultsStr))
		if err != nil {
			continue
		}
		room := domain.RoomOccupancy{Adults: adults}
		if agesStr != "" {
			for _, a := range strings.Split(agesStr, ",") {
				if age, err := strconv.Atoi(strings.TrimSpace(a)); err == nil {
					room.ChildrenAges = append(room.ChildrenAges, age)
				}
			}
		}
		out = append(out, room)
	}
	return out
}

func (h *Handlers) hotelInfo(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	hd, err := h.Q.HotelInfo(r.Context(), code)
	if err != nil {
		writeVendorErr(w, err)
		return
	}
	writeCacheable(w, r, hd)
}

func (h *Handlers) roomDetails(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	session := r.URL.Query().Get("session")
	if session == "" {
		writeProblem(w, http.StatusBadRequest, "Missing session", "a search session id is required for room details")
		return
	}
	out, err := h.Q.RoomDetails(r.Context(), session, code)
	if err != nil {
		writeVendorErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) destinations(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Destinations(r.Context(), r.URL.Query().Get("country"))
	if err != nil {
		writeVendorErr(w, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) countries(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Countries(r.Context())
	if err != nil {
		writeVendorErr(w, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) rates(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ExchangeRates(r.Context(), r.URL.Query().Get("base"))
	if err != nil {
		writeVendorErr(w, err)
		return
	}
	writeCacheable(w, r, out)
}

// ---- favorites handlers ----

type toggleRequest struct {
	HotelCode string   `json:"hotelCode"`
	Name      *string  `json:"name"`
	City      *string  `json:"city"`
	Address   *string  `json:"address"`
	ImageURL  *string  `json:"imageUrl"`
	Rating    *float64 `json:"rating"`
	Source    string   `json:"source"`
}

func (h *Handlers) listFavorites(w http.ResponseWriter, r *http.Request) {
	out, err := h.F.List(r.Context(), UserID(r.Context()))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal error", "could not load favorites; please retry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"favorites": out, "total": len(out)})
}

func (h *Handlers) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.HotelCode) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "hotelCode is required")
		return
	}
	fav := domain.Favorite{
		HotelCode: strings.TrimSpace(req.HotelCode),
		Name:      req.Name,
		City:      req.City,
		Address:   req.Address,
		ImageURL:  req.ImageURL,
		Rating:    req.Rating,
		Source:    req.Source,
	}
	isFav, err := h.F.Toggle(r.Context(), UserID(r.Context()), fav)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal error", "could not update favorites; please retry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hotelCode": fav.HotelCode, "isFavorite": isFav})
}

func (h *Handlers) removeFavorite(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.F.Remove(r.Context(), UserID(r.Context()), code); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "favorite not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal error", "could not remove favorite; please retry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hotelCode": code, "isFavorite": false})
}
