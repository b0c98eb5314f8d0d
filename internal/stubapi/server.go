// Package stubapi serves an in-memory copy of the remote users API. It backs the
// client tests and lets the console run without network access.
package stubapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jask/adminconsole/internal/logger"
	"github.com/jask/adminconsole/internal/users"
)

type Server struct {
	log *slog.Logger

	mu      sync.Mutex
	records map[int]users.Record
	nextID  int
	failure map[string]int // method -> status for the next matching request
	hits    map[string]int
}

// New returns a server seeded with records. Ids are kept as given.
func New(log *slog.Logger, seed ...users.Record) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		log:     log,
		records: make(map[int]users.Record, len(seed)),
		failure: map[string]int{},
		hits:    map[string]int{},
	}
	for _, r := range seed {
		s.records[r.ID] = r
		if r.ID > s.nextID {
			s.nextID = r.ID
		}
	}
	return s
}

// DefaultSeed is a small, stable data set for offline runs.
func DefaultSeed() []users.Record {
	return []users.Record{
		{ID: 1, FirstName: "Emily", LastName: "Johnson", Email: "emily.johnson@x.dummyjson.com"},
		{ID: 2, FirstName: "Michael", LastName: "Williams", Email: "michael.williams@x.dummyjson.com"},
		{ID: 3, FirstName: "Sophia", LastName: "Brown", Email: "sophia.brown@x.dummyjson.com"},
		{ID: 4, FirstName: "James", LastName: "Davis", Email: "james.davis@x.dummyjson.com"},
		{ID: 5, FirstName: "Emma", LastName: "Miller", Email: "emma.miller@x.dummyjson.com"},
		{ID: 6, FirstName: "Olivia", LastName: "Wilson", Email: "olivia.wilson@x.dummyjson.com"},
		{ID: 7, FirstName: "Alexander", LastName: "Jones", Email: "alexander.jones@x.dummyjson.com"},
		{ID: 8, FirstName: "Ava", LastName: "Taylor", Email: "ava.taylor@x.dummyjson.com"},
		{ID: 9, FirstName: "Ethan", LastName: "Martinez", Email: "ethan.martinez@x.dummyjson.com"},
		{ID: 10, FirstName: "Isabella", LastName: "Anderson", Email: "isabella.anderson@x.dummyjson.com"},
		{ID: 11, FirstName: "Liam", LastName: "Garcia", Email: "liam.garcia@x.dummyjson.com"},
		{ID: 12, FirstName: "Mia", LastName: "Rodriguez", Email: "mia.rodriguez@x.dummyjson.com"},
	}
}

// Handler mounts the users routes under /users.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(s.loggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.failureMiddleware)
	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/add", s.add)
		r.Get("/{id}", s.get)
		r.Put("/{id}", s.update)
		r.Delete("/{id}", s.remove)
	})
	return r
}

// FailNext makes the next request with the given method answer status.
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure[method] = status
}

// Hits returns how many requests reached the handlers for method.
func (s *Server) Hits(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method]
}

// Snapshot returns the stored records ordered by id.
func (s *Server) Snapshot() []users.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		enriched := s.log.With(
			"request_id", chimiddleware.GetReqID(r.Context()),
			"client_request_id", r.Header.Get("X-Request-ID"),
			"method", r.Method,
			"path", r.URL.Path,
		)
		ctx := logger.ToContext(r.Context(), enriched)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) failureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method]++
		status, ok := s.failure[r.Method]
		if ok {
			delete(s.failure, r.Method)
		}
		s.mu.Unlock()
		if ok {
			writeError(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	all := s.sortedLocked()
	s.mu.Unlock()

	limit := len(all)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if n > 0 && n < limit {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, users.ListResponse{Users: all[:limit], Total: len(all), Skip: 0, Limit: limit})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	rec, found := s.records[id]
	s.mu.Unlock()
	if !found {
		writeError(w, http.StatusNotFound, "User with id '"+strconv.Itoa(id)+"' not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var p users.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	s.nextID++
	rec := p.Apply(users.Record{})
	rec.ID = s.nextID
	s.records[rec.ID] = rec
	s.mu.Unlock()

	logger.FromContext(r.Context()).Info("stub user added", "id", rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var p users.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	p.ID = nil

	s.mu.Lock()
	rec, found := s.records[id]
	if found {
		rec = p.Apply(rec)
		s.records[id] = rec
	}
	s.mu.Unlock()
	if !found {
		writeError(w, http.StatusNotFound, "User with id '"+strconv.Itoa(id)+"' not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	rec, found := s.records[id]
	delete(s.records, id)
	s.mu.Unlock()
	if !found {
		writeError(w, http.StatusNotFound, "User with id '"+strconv.Itoa(id)+"' not found")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		users.Record
		IsDeleted bool `json:"isDeleted"`
	}{Record: rec, IsDeleted: true})
}

func (s *Server) sortedLocked() []users.Record {
	out := make([]users.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id '"+chi.URLParam(r, "id")+"'")
		return 0, false
	}
	return id, true
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}
