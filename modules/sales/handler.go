package sales

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dukaanhq/dukaan/modules/entitlement"
	"github.com/dukaanhq/dukaan/modules/inventory"
	"github.com/dukaanhq/dukaan/pkg/binder"
	"github.com/dukaanhq/dukaan/pkg/responder"
)

// Handler exposes sale recording and management over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates the sales HTTP handler.
func NewHandler(svc *Service) *Handler {
	if svc == nil {
		panic("sales: service is required")
	}
	return &Handler{svc: svc}
}

// Routes mounts the sales endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.record)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	var input Input
	if err := binder.BindJSON(r, &input); err != nil {
		responder.BindError(w, err)
		return
	}

	sale, err := h.svc.Record(r.Context(), identity.UserID, input)
	switch {
	case errors.Is(err, inventory.ErrInsufficientStock):
		responder.Error(w, http.StatusConflict, "insufficient_stock", "sale exceeds available stock")
	case err != nil:
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not record sale")
	default:
		responder.JSON(w, http.StatusCreated, sale)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	sales, err := h.svc.List(r.Context(), identity.UserID)
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not list sales")
		return
	}
	if sales == nil {
		sales = []Sale{}
	}
	responder.JSON(w, http.StatusOK, sales)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	sale, err := h.svc.Get(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if errors.Is(err, ErrSaleNotFound) {
		responder.Error(w, http.StatusNotFound, "not_found", "sale not found")
		return
	}
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not load sale")
		return
	}
	responder.JSON(w, http.StatusOK, sale)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	var input Input
	if err := binder.BindJSON(r, &input); err != nil {
		responder.BindError(w, err)
		return
	}

	sale, err := h.svc.Update(r.Context(), identity.UserID, chi.URLParam(r, "id"), input)
	if errors.Is(err, ErrSaleNotFound) {
		responder.Error(w, http.StatusNotFound, "not_found", "sale not found")
		return
	}
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not update sale")
		return
	}
	responder.JSON(w, http.StatusOK, sale)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	err := h.svc.Delete(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if errors.Is(err, ErrSaleNotFound) {
		responder.Error(w, http.StatusNotFound, "not_found", "sale not found")
		return
	}
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not delete sale")
		return
	}
	responder.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
