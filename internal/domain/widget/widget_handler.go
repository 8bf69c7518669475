package widget

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/citytemp-api/internal/types"
	"github.com/FACorreiaa/citytemp-api/pkg/httpx"
)

var (
	viewTemplate = template.Must(template.New("view").Parse(
		`<div class='city-temp-widget'><strong>{{.CityName}}</strong>: {{.Temperature}}</div>`))

	formTemplate = template.Must(template.New("form").Parse(`<p>
<label for="widget-{{.Widget.ID}}-city_id">City:</label>
<select name="city_id" id="widget-{{.Widget.ID}}-city_id">
{{range .Options}}{{if .Selected}}<option value="{{.ID}}" selected>{{else}}<option value="{{.ID}}">{{end}}{{.Name}}</option>
{{end}}</select>
</p>
`))
)

type Handler struct {
	svc    Service
	logger *slog.Logger
}

func NewHandler(svc Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

// Show handles GET /widgets/{id}. It answers 204 when there is nothing to show.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		http.Error(w, err.Error(), httpx.StatusFor(err))
		return
	}

	view, err := h.svc.Render(r.Context(), id)
	if err != nil {
		status := httpx.StatusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "Failed to render widget", slog.String("widget_id", id.String()), slog.Any("error", err))
		}
		http.Error(w, http.StatusText(status), status)
		return
	}
	if view.Empty {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeHTML(w, r, viewTemplate, view)
}

// ListWidgets handles GET /api/admin/widgets.
func (h *Handler) ListWidgets(w http.ResponseWriter, r *http.Request) {
	widgets, err := h.svc.ListWidgets(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, widgets)
}

// CreateWidget handles POST /api/admin/widgets.
func (h *Handler) CreateWidget(w http.ResponseWriter, r *http.Request) {
	var params types.CreateWidgetParams
	if err := httpx.DecodeJSON(r, &params); err != nil {
		httpx.WriteError(w, err)
		return
	}
	widget, err := h.svc.CreateWidget(r.Context(), params)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, widget)
}

// Form handles GET /api/admin/widgets/{id}/form with the city <select>.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	form, err := h.svc.Form(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	h.writeHTML(w, r, formTemplate, form)
}

// UpdateWidget handles PUT /api/admin/widgets/{id}.
func (h *Handler) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	var params types.UpdateWidgetParams
	if err := httpx.DecodeJSON(r, &params); err != nil {
		httpx.WriteError(w, err)
		return
	}
	widget, err := h.svc.UpdateWidget(r.Context(), id, params)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, widget)
}

// DeleteWidget handles DELETE /api/admin/widgets/{id}.
func (h *Handler) DeleteWidget(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteWidget(r.Context(), id); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeHTML(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render widget template", slog.String("template", tmpl.Name()), slog.Any("error", err))
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
