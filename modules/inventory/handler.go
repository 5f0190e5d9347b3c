package inventory

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dukaanhq/dukaan/modules/entitlement"
	"github.com/dukaanhq/dukaan/pkg/binder"
	"github.com/dukaanhq/dukaan/pkg/responder"
)

// Handler exposes stock CRUD over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates the inventory HTTP handler.
func NewHandler(svc *Service) *Handler {
	if svc == nil {
		panic("inventory: service is required")
	}
	return &Handler{svc: svc}
}

// Routes mounts the stock endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	var input Input
	if err := binder.BindJSON(r, &input); err != nil {
		responder.BindError(w, err)
		return
	}

	stock, err := h.svc.Create(r.Context(), identity.UserID, input)
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not create stock item")
		return
	}
	responder.JSON(w, http.StatusCreated, stock)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	stocks, err := h.svc.List(r.Context(), identity.UserID)
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not list stock items")
		return
	}
	if stocks == nil {
		stocks = []Stock{}
	}
	responder.JSON(w, http.StatusOK, stocks)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	stock, err := h.svc.Get(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if errors.Is(err, ErrStockNotFound) {
		responder.Error(w, http.StatusNotFound, "not_found", "stock item not found")
		return
	}
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not load stock item")
		return
	}
	responder.JSON(w, http.StatusOK, stock)
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

	stock, err := h.svc.Update(r.Context(), identity.UserID, chi.URLParam(r, "id"), input)
	if errors.Is(err, ErrStockNotFound) {
		responder.Error(w, http.StatusNotFound, "not_found", "stock item not found")
		return
	}
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not update stock item")
		return
	}
	responder.JSON(w, http.StatusOK, stock)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	err := h.svc.Delete(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if errors.Is(err, ErrStockNotFound) {
		responder.Error(w, http.StatusNotFound, "not_found", "stock item not found")
		return
	}
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not delete stock item")
		return
	}
	responder.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
