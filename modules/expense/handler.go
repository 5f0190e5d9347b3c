package expense

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dukaanhq/dukaan/modules/entitlement"
	"github.com/dukaanhq/dukaan/pkg/binder"
	"github.com/dukaanhq/dukaan/pkg/responder"
)

// Handler exposes expense CRUD over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates the expense HTTP handler.
func NewHandler(svc *Service) *Handler {
	if svc == nil {
		panic("expense: service is required")
	}
	return &Handler{svc: svc}
}

// Routes mounts the expense endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/categories", h.categories)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	responder.JSON(w, http.StatusOK, Categories)
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

	expense, err := h.svc.Create(r.Context(), identity.UserID, input)
	switch {
	case errors.Is(err, ErrUnknownCategory):
		responder.Error(w, http.StatusUnprocessableEntity, "unknown_category", "category is not in the allowed set")
	case err != nil:
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not create expense")
	default:
		responder.JSON(w, http.StatusCreated, expense)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	expenses, err := h.svc.List(r.Context(), identity.UserID)
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not list expenses")
		return
	}
	if expenses == nil {
		expenses = []Expense{}
	}
	responder.JSON(w, http.StatusOK, expenses)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	expense, err := h.svc.Get(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if errors.Is(err, ErrExpenseNotFound) {
		responder.Error(w, http.StatusNotFound, "not_found", "expense not found")
		return
	}
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not load expense")
		return
	}
	responder.JSON(w, http.StatusOK, expense)
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

	expense, err := h.svc.Update(r.Context(), identity.UserID, chi.URLParam(r, "id"), input)
	switch {
	case errors.Is(err, ErrUnknownCategory):
		responder.Error(w, http.StatusUnprocessableEntity, "unknown_category", "category is not in the allowed set")
	case errors.Is(err, ErrExpenseNotFound):
		responder.Error(w, http.StatusNotFound, "not_found", "expense not found")
	case err != nil:
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not update expense")
	default:
		responder.JSON(w, http.StatusOK, expense)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := entitlement.RequireIdentity(w, r)
	if !ok {
		return
	}

	err := h.svc.Delete(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if errors.Is(err, ErrExpenseNotFound) {
		responder.Error(w, http.StatusNotFound, "not_found", "expense not found")
		return
	}
	if err != nil {
		responder.Error(w, http.StatusInternalServerError, "internal_error", "could not delete expense")
		return
	}
	responder.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
