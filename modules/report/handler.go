package report

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dukaanhq/dukaan/modules/entitlement"
	"github.com/dukaanhq/dukaan/pkg/responder"
)

// Handler exposes the report endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates the report HTTP handler.
func NewHandler(svc *Service) *Handler {
	if svc == nil {
		panic("report: service is required")
	}
	return &Handler{svc: svc}
}

// Routes mounts the report endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/summary", h.summary)
	return r
}

// summary serves GET /summary?from=2006-01-02&to=2006-01-02. The "to" bound
// is inclusive of the named day: it is parsed and advanced by one day, then
// treated as exclusive.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	var from, to time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			responder.Error(w, http.StatusBadRequest, "invalid_request", "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			responder.Error(w, http.StatusBadRequest, "invalid_request", "to must be YYYY-MM-DD")
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	summary, err := h.svc.Summary(r.Context(), identity.UserID, from, to)
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not build summary")
		return
	}
	responder.JSON(w, http.StatusOK, summary)
}
