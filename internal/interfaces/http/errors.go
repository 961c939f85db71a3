package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nft-marketplace/internal/core/application/pubsub"
	"github.com/tdex-network/nft-marketplace/internal/core/application/wallet"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	webhookpubsub "github.com/tdex-network/nft-marketplace/internal/infrastructure/pubsub"
)

var errBadRequest = errors.New("bad request")

type errorMapping struct {
	err    error
	status int
	label  string
}

var errorMappings = []errorMapping{
	{errUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{errBadRequest, http.StatusBadRequest, "bad_request"},
	{domain.ErrPriceZero, http.StatusBadRequest, "price_zero"},
	{domain.ErrPriceNotMet, http.StatusBadRequest, "price_not_met"},
	{domain.ErrInvalidAddress, http.StatusBadRequest, "bad_request"},
	{domain.ErrInvalidAssetKey, http.StatusBadRequest, "bad_request"},
	{domain.ErrInvalidAmount, http.StatusBadRequest, "bad_request"},
	{domain.ErrCollectionInvalidName, http.StatusBadRequest, "bad_request"},
	{pubsub.ErrInvalidEvent, http.StatusBadRequest, "bad_request"},
	{webhookpubsub.ErrMissingEvent, http.StatusBadRequest, "bad_request"},
	{webhookpubsub.ErrInvalidEndpoint, http.StatusBadRequest, "bad_request"},
	{domain.ErrNotOwner, http.StatusForbidden, "not_owner"},
	{domain.ErrNotApproved, http.StatusForbidden, "not_approved"},
	{wallet.ErrFaucetDisabled, http.StatusForbidden, "faucet_disabled"},
	{domain.ErrNotListed, http.StatusNotFound, "not_listed"},
	{domain.ErrTokenNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrCollectionNotFound, http.StatusNotFound, "not_found"},
	{webhookpubsub.ErrSubscriptionNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrAlreadyListed, http.StatusConflict, "already_listed"},
	{domain.ErrCollectionAlreadyExists, http.StatusConflict, "already_exists"},
	{domain.ErrNoProceeds, http.StatusUnprocessableEntity, "no_proceeds"},
	{domain.ErrInsufficientFunds, http.StatusUnprocessableEntity, "insufficient_funds"},
	{domain.ErrBalanceOverflow, http.StatusUnprocessableEntity, "balance_overflow"},
	{domain.ErrTransferFailed, http.StatusBadGateway, "transfer_failed"},
}

func mapError(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.label
		}
	}
	return http.StatusInternalServerError, "internal"
}

func errorLabel(err error) string {
	_, label := mapError(err)
	return label
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, err error) {
	status, label := mapError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("internal error")
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{msg, label})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}
