// Package web exposes the content layer over HTTP: public read-only
// collections, schemas, maintainer mutations guarded by the shared secret
// and the chat assistant.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/NTPCPHARMACY/HRPC/pkg/assistant"
	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/core"
	"github.com/NTPCPHARMACY/HRPC/pkg/gate"
	"github.com/NTPCPHARMACY/HRPC/pkg/mutation"
	"github.com/NTPCPHARMACY/HRPC/pkg/schema"
)

// SecretHeader carries the maintainer secret on mutating requests.
const SecretHeader = "X-HRPC-Secret"

// RequestIDHeader echoes the request correlation id.
const RequestIDHeader = "X-Request-ID"

// Server routes HTTP requests to a Coordinator.
type Server struct {
	coord      *mutation.Coordinator
	gate       *gate.Gate
	sender     assistant.Sender
	logger     *slog.Logger
	components []any
	router     *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithGate sets the maintainer gate. Defaults to gate.DefaultSecret.
func WithGate(g *gate.Gate) Option {
	return func(s *Server) {
		if g != nil {
			s.gate = g
		}
	}
}

// WithSender sets the chat backend used by /api/chat.
func WithSender(sender assistant.Sender) Option {
	return func(s *Server) {
		if sender != nil {
			s.sender = sender
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithComponents registers components reported by /debug/state.
func WithComponents(components ...any) Option {
	return func(s *Server) {
		s.components = append(s.components, components...)
	}
}

// New builds the router.
func New(coord *mutation.Coordinator, opts ...Option) *Server {
	s := &Server{
		coord:  coord,
		gate:   gate.New(""),
		sender: assistant.NewGeminiSender(""),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	r.Use(s.requestID)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")
	r.HandleFunc("/debug/state", s.debugState).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/chat", s.chat).Methods("POST")
	api.HandleFunc("/schema/{kind}", s.getSchema).Methods("GET")
	api.HandleFunc("/{kind}", s.list).Methods("GET")

	admin := api.NewRoute().Subrouter()
	admin.Use(s.maintainer)
	admin.HandleFunc("/reset", s.reset).Methods("POST")
	admin.HandleFunc("/{kind}", s.add).Methods("POST")
	admin.HandleFunc("/{kind}/{id:[0-9]+}", s.edit).Methods("PUT")
	admin.HandleFunc("/{kind}/{id:[0-9]+}/{field}", s.inline).Methods("PATCH")
	admin.HandleFunc("/{kind}/{id:[0-9]+}", s.remove).Methods("DELETE")

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("http server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// --- Middleware ---

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// maintainer scopes the request to Maintainer mode when the secret header
// matches, and to Guest otherwise. The process-wide mode never applies to
// HTTP requests.
func (s *Server) maintainer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mode := core.Guest
		if secret := r.Header.Get(SecretHeader); secret != "" && s.gate.Check(secret) {
			mode = core.Maintainer
		}
		next.ServeHTTP(w, r.WithContext(mutation.ContextWithMode(r.Context(), mode)))
	})
}

// --- Handlers ---

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	kind, err := content.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	recs, err := s.coord.Records(kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if recs == nil {
		recs = []content.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) getSchema(w http.ResponseWriter, r *http.Request) {
	kind, err := content.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schema.For(kind))
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	kind, err := content.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var values content.Values
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	rec, err := s.coord.Add(r.Context(), kind, values)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request) {
	kind, id, err := kindAndID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var values content.Values
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	rec, err := s.coord.Edit(r.Context(), kind, id, values)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) inline(w http.ResponseWriter, r *http.Request) {
	kind, id, err := kindAndID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body struct {
		Value *string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Value == nil {
		http.Error(w, "value field is required", http.StatusBadRequest)
		return
	}
	if err := s.coord.InlineUpdate(r.Context(), kind, id, mux.Vars(r)["field"], *body.Value); err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.coord.Find(kind, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	kind, id, err := kindAndID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	deleted, err := s.coord.DeleteWith(r.Context(), kind, id, mutation.Answer(confirmed))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !deleted {
		http.Error(w, "deletion requires confirm=true", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	if err := s.coord.Reset(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.coord.View())
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Message) == "" {
		http.Error(w, "message field is required", http.StatusBadRequest)
		return
	}
	reply, err := s.sender.Send(r.Context(), strings.TrimSpace(body.Message))
	if err != nil {
		s.logger.Warn("assistant request failed", "request_id", w.Header().Get(RequestIDHeader), "error", err)
		reply = assistant.ConnectionErrorReply
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) debugState(w http.ResponseWriter, r *http.Request) {
	state := map[string]any{
		s.coord.ComponentType(): s.coord.State(),
	}
	for _, c := range s.components {
		state[core.ComponentType(c)] = core.Describe(c)
	}
	writeJSON(w, http.StatusOK, state)
}

// --- Helpers ---

func kindAndID(r *http.Request) (content.Kind, int64, error) {
	vars := mux.Vars(r)
	kind, err := content.ParseKind(vars["kind"])
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		return "", 0, core.ErrRecordNotFound
	}
	return kind, id, nil
}

// StatusOf maps a content-layer error to an HTTP status code.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrForbidden), errors.Is(err, core.ErrReadOnly):
		return http.StatusForbidden
	case errors.Is(err, core.ErrRecordNotFound), errors.Is(err, core.ErrUnknownKind):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUnsupported):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", w.Header().Get(RequestIDHeader),
			"path", r.URL.Path,
			"error", err,
		)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
