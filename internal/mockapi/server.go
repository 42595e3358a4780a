package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/five82/lostfound/internal/form"
	"github.com/five82/lostfound/internal/lostfound"
)

// MaxBodyBytes caps a create request. Images travel inline as data URIs.
const MaxBodyBytes = 25 << 20

// Server is an in-memory implementation of the items API.
type Server struct {
	token string
	now   func() time.Time
	newID func() string

	mu    sync.RWMutex
	items []lostfound.Item
}

// Option customizes a Server.
type Option func(*Server)

// WithClock overrides the time source reported by /health.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDs overrides the ID generator for created items.
func WithIDs(next func() string) Option {
	return func(s *Server) {
		if next != nil {
			s.newID = next
		}
	}
}

// New returns a server that accepts only token as a bearer credential. An
// empty token disables the check.
func New(token string, seed []lostfound.Item, opts ...Option) *Server {
	s := &Server{
		token: strings.TrimSpace(token),
		now:   time.Now,
		newID: uuid.NewString,
		items: append([]lostfound.Item(nil), seed...),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed returns a handful of sample reports dated relative to now.
func Seed(now time.Time) []lostfound.Item {
	day := func(offset int) string {
		return now.AddDate(0, 0, -offset).Format(lostfound.DateLayout)
	}
	return []lostfound.Item{
		{ID: "1", Title: "Black leather wallet", Description: "Contains a library card and two receipts.", Status: lostfound.StatusLost, Location: "Central Station, platform 4", Date: day(1), Owner: "anna"},
		{ID: "2", Title: "Blue umbrella", Description: "Folding, wooden handle.", Status: lostfound.StatusFound, Location: "City Library", Date: day(2), Owner: "marek"},
		{ID: "3", Title: "House keys", Description: "Three keys on a red carabiner.", Status: lostfound.StatusClaimed, Location: "Park Avenue bench", Date: day(5), Owner: "ola"},
		{ID: "4", Title: "Wireless earbuds", Description: "White charging case with a sticker on the lid.", Status: lostfound.StatusFound, Location: "Tram 12", Date: day(0), Owner: "piotr"},
	}
}

// Items returns a copy of the stored items.
func (s *Server) Items() []lostfound.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]lostfound.Item(nil), s.items...)
}

// Router configures the routes and middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/items", s.listItems).Methods(http.MethodGet)
	api.HandleFunc("/items", s.createItem).Methods(http.MethodPost)

	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	count := len(s.items)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"items":  count,
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) listItems(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Items())
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var draft lostfound.Draft
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&draft); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}

	if errs := form.Validate(draft); !errs.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "validation failed", errs)
		return
	}
	draft = form.Normalize(draft)
	if !draft.Status.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "validation failed",
			map[string]string{form.FieldStatus: "Status must be lost, found or claimed"})
		return
	}
	if draft.Image != "" && !strings.HasPrefix(draft.Image, "data:image/") {
		writeError(w, http.StatusUnprocessableEntity, "validation failed",
			map[string]string{form.FieldImage: "Image must be a data URI"})
		return
	}

	item := lostfound.Item{
		ID:          lostfound.ID(s.newID()),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Location:    draft.Location,
		Date:        draft.Date,
		Image:       draft.Image,
		Owner:       "you",
	}

	s.mu.Lock()
	s.items = append([]lostfound.Item{item}, s.items...)
	s.mu.Unlock()

	log.Info().
		Str("item", item.ID.String()).
		Str("status", string(item.Status)).
		Str("request_id", r.Header.Get("X-Request-ID")).
		Msg("item created")
	writeJSON(w, http.StatusCreated, item)
}

// authMiddleware rejects requests without the configured bearer token.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		if strings.TrimSpace(token) != s.token {
			writeError(w, http.StatusUnauthorized, "invalid token", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("encode response failed")
	}
}

func writeError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	body := struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields,omitempty"`
	}{Error: message, Fields: fields}
	writeJSON(w, status, body)
}
