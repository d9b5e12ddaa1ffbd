package handler

import (
	"encoding/json"
	"net/http"

	"mercadito/internal/idempotency"
	"mercadito/internal/model"
	"mercadito/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RestockOrderHandler handles restock order HTTP requests.
type RestockOrderHandler struct {
	service service.RestockOrderService
	guard   idempotency.Guard
	logger  zerolog.Logger
}

// NewRestockOrderHandler creates a new restock order handler.
func NewRestockOrderHandler(svc service.RestockOrderService, guard idempotency.Guard, logger zerolog.Logger) *RestockOrderHandler {
	return &RestockOrderHandler{
		service: svc,
		guard:   guard,
		logger:  logger.With().Str("handler", "restock_order").Logger(),
	}
}

// Create handles POST /api/restocks requests. The response is the only
// place the plaintext delivery code ever appears; a replayed
// Idempotency-Key returns the order without the code.
func (h *RestockOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.RestockOrderRequest
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

	resp, err := h.service.Create(r.Context(), &req)
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
		if err := h.guard.Complete(r.Context(), idemKey, resp.Order.ID.String()); err != nil {
			h.logger.Error().Err(err).Msg("failed to complete idempotency key")
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

// replay answers a duplicate create with the order recorded for the key.
// The delivery code was handed out once on the first attempt and is not
// re-derivable, so replays return the bare order.
func (h *RestockOrderHandler) replay(w http.ResponseWriter, r *http.Request, existing string) {
	if existing == "" {
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

// GetByID handles GET /api/restocks/{id} requests.
func (h *RestockOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
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

// UpdateStatus handles POST /api/restocks/{id}/status requests.
func (h *RestockOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, h.logger)
	if !ok {
		return
	}

	var req model.StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), orderID, model.RestockOrderStatus(req.Status), req.Reason, actorID(r))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Accept handles POST /api/restocks/{id}/accept requests.
func (h *RestockOrderHandler) Accept(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, h.logger)
	if !ok {
		return
	}

	order, err := h.service.Accept(r.Context(), orderID, actorID(r))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Reject handles POST /api/restocks/{id}/reject requests.
func (h *RestockOrderHandler) Reject(w http.ResponseWriter, r *http.Request) {
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

	order, err := h.service.Reject(r.Context(), orderID, req.Reason, actorID(r))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Cancel handles POST /api/restocks/{id}/cancel requests.
func (h *RestockOrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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

// ConfirmDelivery handles POST /api/restocks/{id}/confirm-delivery requests.
func (h *RestockOrderHandler) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, h.logger)
	if !ok {
		return
	}

	var req model.ConfirmDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailure, "delivery code is required", h.logger)
		return
	}

	order, err := h.service.ConfirmDelivery(r.Context(), orderID, req.Code, actorID(r))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
