package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ZilDuck/elysium-marketplace/internal/collection"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/factory"
	"github.com/ZilDuck/elysium-marketplace/internal/ledger"
	"github.com/ZilDuck/elysium-marketplace/internal/marketplace"
	"github.com/ZilDuck/elysium-marketplace/internal/metadata"
	"github.com/ZilDuck/elysium-marketplace/internal/repository"
	"github.com/nu7hatch/gouuid"
	"go.uber.org/zap"
)

var (
	ErrMissingCaller = errors.New("missing or invalid " + CallerHeader + " header")
	ErrBadRequest    = errors.New("malformed request")
	ErrUnavailable   = errors.New("service unavailable")

	ErrForbiddenAccount = errors.New("caller does not own the account")
)

type errorResponse struct {
	Error     string `json:"error"`
	Reference string `json:"reference,omitempty"`
}

var statusByError = []struct {
	err    error
	status int
}{
	{ErrMissingCaller, http.StatusUnauthorized},
	{ErrBadRequest, http.StatusBadRequest},
	{ErrUnavailable, http.StatusServiceUnavailable},

	{ErrForbiddenAccount, http.StatusForbidden},
	{marketplace.ErrNotOwner, http.StatusForbidden},
	{marketplace.ErrNotApproved, http.StatusForbidden},
	{marketplace.ErrUnauthorized, http.StatusForbidden},

	{marketplace.ErrNotListed, http.StatusNotFound},
	{marketplace.ErrTokenNotFound, http.StatusNotFound},
	{marketplace.ErrCollectionNotFound, http.StatusNotFound},
	{marketplace.ErrUnknownCollection, http.StatusNotFound},
	{repository.ErrSaleNotFound, http.StatusNotFound},
	{metadata.ErrMetadataUnavailable, http.StatusNotFound},
	{entity.ErrInvalidMetadataUri, http.StatusNotFound},

	{marketplace.ErrAlreadyListed, http.StatusConflict},
	{factory.ErrCollectionExists, http.StatusConflict},

	{marketplace.ErrInvalidAddress, http.StatusBadRequest},
	{entity.ErrInvalidAmount, http.StatusBadRequest},
	{ledger.ErrInvalidAmount, http.StatusBadRequest},
	{marketplace.ErrEmptyBatch, http.StatusBadRequest},
	{marketplace.ErrDuplicateItem, http.StatusBadRequest},

	{marketplace.ErrPriceTooLow, http.StatusUnprocessableEntity},
	{marketplace.ErrInsufficientPayment, http.StatusUnprocessableEntity},
	{marketplace.ErrInsufficientFunds, http.StatusUnprocessableEntity},
	{entity.ErrAmountOverflow, http.StatusUnprocessableEntity},
	{collection.ErrInvalidRoyalty, http.StatusUnprocessableEntity},
	{collection.ErrApprovalToOwner, http.StatusUnprocessableEntity},
	{collection.ErrEmptyName, http.StatusUnprocessableEntity},
	{collection.ErrEmptySymbol, http.StatusUnprocessableEntity},
}

func statusOf(err error) int {
	for _, mapping := range statusByError {
		if errors.Is(err, mapping.err) {
			return mapping.status
		}
	}

	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().With(zap.Error(err)).Error("API: Failed to write response")
	}
}

// writeError answers with the status mapped from err. Every error carries a
// reference id which is logged alongside it.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)

	reference := ""
	if u, uuidErr := uuid.NewV4(); uuidErr == nil {
		reference = u.String()
	}

	logger := zap.L().With(
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("reference", reference),
	)
	if status >= http.StatusInternalServerError {
		logger.Error("API: Request failed")
	} else {
		logger.Info("API: Request rejected")
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), Reference: reference})
}
