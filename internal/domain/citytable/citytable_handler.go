package citytable

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/citytemp-api/pkg/httpx"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// SearchPath is where the page script posts the search text.
const SearchPath = "/ajax/search-cities"

// Hook renders extra markup around the table. Its output is trusted HTML.
type Hook func(ctx context.Context) template.HTML

type Handler struct {
	svc    Service
	logger *slog.Logger
	title  string
	before []Hook
	after  []Hook
}

type Option func(*Handler)

// WithBeforeTable adds markup rendered above the search box.
func WithBeforeTable(h Hook) Option {
	return func(x *Handler) { x.before = append(x.before, h) }
}

// WithAfterTable adds markup rendered below the table.
func WithAfterTable(h Hook) Option {
	return func(x *Handler) { x.after = append(x.after, h) }
}

func WithTitle(title string) Option {
	return func(x *Handler) { x.title = title }
}

func NewHandler(svc Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		svc:    svc,
		logger: logger,
		title:  "Cities",
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

type pageData struct {
	Title     string
	Search    string
	SearchURL string
	Rows      any
	Before    template.HTML
	After     template.HTML
}

func runHooks(ctx context.Context, hooks []Hook) template.HTML {
	var b strings.Builder
	for _, h := range hooks {
		b.WriteString(string(h(ctx)))
	}
	return template.HTML(b.String())
}

// Page handles GET /cities-table. An optional ?search= pre-filters the rows.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	search := r.URL.Query().Get("search")

	rows, err := h.svc.Rows(ctx, search)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to build cities table", slog.Any("error", err))
		http.Error(w, "failed to load cities", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Title:     h.title,
		Search:    search,
		SearchURL: SearchPath,
		Rows:      rows,
		Before:    runHooks(ctx, h.before),
		After:     runHooks(ctx, h.after),
	}
	h.render(w, r, "page", data)
}

// SearchFragment handles POST /ajax/search-cities. It answers with table rows
// only. The "action" form field is accepted and ignored.
func (h *Handler) SearchFragment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	search := r.FormValue("search")

	rows, err := h.svc.Rows(ctx, search)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to search cities", slog.String("search", search), slog.Any("error", err))
		http.Error(w, "failed to search cities", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "rows", rows)
}

// SearchJSON handles GET /api/cities/search.
func (h *Handler) SearchJSON(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Rows(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render template", slog.String("template", name), slog.Any("error", err))
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
