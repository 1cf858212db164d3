// Package web implements the browser surface of floodassist: a single form
// that collects questions and renders the running session transcript, plus
// health and metrics endpoints.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/floodwatch/floodassist/internal/observability"
	"github.com/floodwatch/floodassist/internal/resolver"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionCookieName = "floodassist_session"

// QuestionResolver is the resolver contract the web layer depends on.
type QuestionResolver interface {
	Resolve(ctx context.Context, question string) (string, resolver.Source)
}

// ReadinessCheck reports whether backing dependencies are reachable.
type ReadinessCheck func(ctx context.Context) error

// Deps provides dependencies for the web handlers.
type Deps struct {
	Logger    *slog.Logger
	Resolver  QuestionResolver
	Sessions  *SessionManager
	Readiness ReadinessCheck
}

type handler struct {
	deps      Deps
	templates *template.Template
	log       *slog.Logger
}

// NewHandler builds the HTTP handler tree: the chat page, the ask endpoint,
// health, and prometheus metrics, wrapped in trace/metrics/logging middleware.
func NewHandler(deps Deps) http.Handler {
	h := &handler{
		deps:      deps,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
		log:       deps.Logger.With("component", "web"),
	}

	r := chi.NewRouter()
	r.Use(observability.TraceMiddleware)
	r.Use(observability.MetricsMiddleware)
	r.Use(observability.LoggingMiddleware(deps.Logger))

	r.Get("/", h.index)
	r.Post("/ask", h.ask)
	r.Get("/healthz", h.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

type turnView struct {
	Label string
	Class string
	Text  string
}

type pageData struct {
	Title  string
	Prompt string
	Turns  []turnView
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	session := h.sessionFromRequest(w, r)

	data := pageData{
		Title:  "Flood Digital Assistant",
		Prompt: "Ask me anything about floods in Abu Dhabi",
	}
	for _, turn := range session.Turns() {
		view := turnView{Text: turn.Text}
		if turn.Speaker == SpeakerUser {
			view.Label = "You"
			view.Class = "user"
		} else {
			view.Label = "Assistant"
			view.Class = "assistant"
		}
		data.Turns = append(data.Turns, view)
	}

	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to render chat page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *handler) ask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	session := h.sessionFromRequest(w, r)
	question := r.FormValue("question")

	// An empty submission is a no-op, the page just reloads.
	if strings.TrimSpace(question) == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	answer, source := h.deps.Resolver.Resolve(r.Context(), question)
	observability.CountQuestion(string(source))

	h.log.InfoContext(r.Context(), "Question resolved",
		"session_id", session.ID, "source", string(source))

	now := time.Now()
	session.Append(
		Turn{Speaker: SpeakerUser, Text: question, At: now},
		Turn{Speaker: SpeakerAssistant, Text: answer, At: now},
	)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.deps.Readiness == nil {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.deps.Readiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// sessionFromRequest returns the browser's session, creating one and setting
// the cookie when absent or expired.
func (h *handler) sessionFromRequest(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if session, ok := h.deps.Sessions.Get(cookie.Value); ok {
			return session
		}
	}

	session := h.deps.Sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return session
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
