package pubsub

import (
	"errors"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

// ErrInvalidEvent is returned for webhooks registered for an unknown event.
var ErrInvalidEvent = errors.New("invalid webhook event type")

type AddWebhookRequest struct {
	Event          string
	Endpoint       string
	Secret         string
	GenerateSecret bool
}

// Webhook carries the secret only when returned at registration.
type Webhook struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Endpoint  string `json:"endpoint"`
	Secret    string `json:"secret,omitempty"`
	IsSecured bool   `json:"is_secured"`
}

type activityPayload struct {
	Event      string          `json:"event"`
	ID         string          `json:"id"`
	Seller     *domain.Address `json:"seller,omitempty"`
	Buyer      *domain.Address `json:"buyer,omitempty"`
	Collection *domain.Address `json:"collection,omitempty"`
	TokenID    *uint64         `json:"token_id,omitempty"`
	Price      uint64          `json:"price"`
	Timestamp  int64           `json:"timestamp"`
}

func newActivityPayload(a domain.Activity) activityPayload {
	payload := activityPayload{
		Event:     a.Type.String(),
		ID:        a.ID,
		Price:     a.Price,
		Timestamp: a.Timestamp,
	}
	if !a.Seller.IsZero() {
		seller := a.Seller
		payload.Seller = &seller
	}
	if !a.Buyer.IsZero() {
		buyer := a.Buyer
		payload.Buyer = &buyer
	}
	if !a.Key.Collection.IsZero() {
		collection := a.Key.Collection
		tokenID := a.Key.TokenID
		payload.Collection = &collection
		payload.TokenID = &tokenID
	}
	return payload
}
