package handler

import (
	"encoding/json"
	"net/http"

	"mercadito/internal/idempotency"
	"mercadito/internal/middleware"
	"mercadito/internal/model"
	"mercadito/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CustomerOrderHandler handles customer order HTTP requests.
type CustomerOrderHandler struct {
	service service.CustomerOrderService
	guard   idempotency.Guard
	logger  zerolog.Logger
}

// NewCustomerOrderHandler creates a new customer order handler.
func NewCustomerOrderHandler(svc service.CustomerOrderService, guard idempotency.Guard, logger zerolog.Logger) *CustomerOrderHandler {
	return &CustomerOrderHandler{
		service: svc,
		guard:   guard,
		logger:  logger.With().Str("handler", "customer_order").Logger(),
	}
}

// Create handles POST /api/orders requests. A repeated Idempotency-Key
// header replays the first attempt's order instead of creating another.
func (h *CustomerOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CustomerOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	if idemKey != "" {
		existing, claimed, err := h.guard.Claim(r.Context(), idemKey)
		if err != nil {
			h.logger.Error().Err(err).Msg("idempotency claim failed")
			writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", h.logger)
			return
		}
		if !claimed {
			h.replay(w, r, existing)
			return
		}
	}

	order, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if idemKey != "" {
			if relErr := h.guard.Release(r.Context(), idemKey); relErr != nil {
				h.logger.Error().Err(relErr).Msg("failed to release idempotency key")
			}
		}
		writeDomainError(w, err, h.logger)
		return
	}

	if idemKey != "" {
		if err := h.guard.Complete(r.Context(), idemKey, order.ID.String()); err != nil {
			h.logger.Error().Err(err).Msg("failed to complete idempotency key")
		}
	}

	writeJSON(w, http.StatusCreated, order)
}

// replay answers a duplicate create with the order recorded for the key.
func (h *CustomerOrderHandler) replay(w http.ResponseWriter, r *http.Request, existing string) {
	if existing == "" {
		// The first attempt is still running; the client should retry.
		writeError(w, http.StatusConflict, model.ErrCodeVersionConflict, "request with this idempotency key is in flight", h.logger)
		return
	}

	orderID, err := uuid.Parse(existing)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil || order == nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *CustomerOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, h.logger)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "order not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles POST /api/orders/{id}/status requests.
func (h *CustomerOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, h.logger)
	if !ok {
		return
	}

	var req model.StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), orderID, model.CustomerOrderStatus(req.Status), req.Reason, actorID(r))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Cancel handles POST /api/orders/{id}/cancel requests.
func (h *CustomerOrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, h.logger)
	if !ok {
		return
	}

	var req model.StatusChangeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return
		}
	}

	order, err := h.service.Cancel(r.Context(), orderID, req.Reason, actorID(r))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// parseID extracts the {id} route parameter.
func parseID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailure, "invalid order ID format", logger)
		return uuid.Nil, false
	}
	return id, true
}

// actorID returns the authenticated actor's id, if the identity middleware
// resolved one.
func actorID(r *http.Request) *uuid.UUID {
	if actor, ok := middleware.ActorFrom(r.Context()); ok {
		return &actor.ID
	}
	return nil
}
