package httpinterface

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

type listRequest struct {
	Collection domain.Address `json:"collection"`
	TokenID    uint64         `json:"token_id"`
	Price      uint64         `json:"price"`
}

type updateRequest struct {
	Price uint64 `json:"price"`
}

type buyRequest struct {
	Payment uint64 `json:"payment"`
}

type createCollectionRequest struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// mintRequest mints and lists the token if a price is given.
type mintRequest struct {
	URI   string `json:"uri"`
	Price uint64 `json:"price"`
}

type approveRequest struct {
	Operator domain.Address `json:"operator"`
}

type approvalForAllRequest struct {
	Operator domain.Address `json:"operator"`
	Approved bool           `json:"approved"`
}

type depositRequest struct {
	Amount uint64 `json:"amount"`
}

type addWebhookRequest struct {
	Event          string `json:"event"`
	Endpoint       string `json:"endpoint"`
	Secret         string `json:"secret"`
	GenerateSecret bool   `json:"generate_secret"`
}

type listingResponse struct {
	Collection domain.Address `json:"collection"`
	TokenID    uint64         `json:"token_id"`
	Seller     domain.Address `json:"seller"`
	Price      uint64         `json:"price"`
	CreatedAt  int64          `json:"created_at"`
	UpdatedAt  int64          `json:"updated_at"`
}

func newListingResponse(l domain.Listing) listingResponse {
	return listingResponse{
		Collection: l.Key.Collection,
		TokenID:    l.Key.TokenID,
		Seller:     l.Seller,
		Price:      l.Price,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

type activityResponse struct {
	ID         string          `json:"id"`
	Event      string          `json:"event"`
	Seller     *domain.Address `json:"seller,omitempty"`
	Buyer      *domain.Address `json:"buyer,omitempty"`
	Collection *domain.Address `json:"collection,omitempty"`
	TokenID    *uint64         `json:"token_id,omitempty"`
	Price      uint64          `json:"price"`
	Timestamp  int64           `json:"timestamp"`
}

func newActivityResponse(a domain.Activity) activityResponse {
	res := activityResponse{
		ID:        a.ID,
		Event:     a.Type.String(),
		Price:     a.Price,
		Timestamp: a.Timestamp,
	}
	if !a.Seller.IsZero() {
		seller := a.Seller
		res.Seller = &seller
	}
	if !a.Buyer.IsZero() {
		buyer := a.Buyer
		res.Buyer = &buyer
	}
	if !a.Key.Collection.IsZero() {
		collection, tokenID := a.Key.Collection, a.Key.TokenID
		res.Collection = &collection
		res.TokenID = &tokenID
	}
	return res
}

type collectionResponse struct {
	Address     domain.Address `json:"address"`
	Name        string         `json:"name"`
	Symbol      string         `json:"symbol"`
	Creator     domain.Address `json:"creator"`
	MintedCount uint64         `json:"minted_count"`
}

func newCollectionResponse(c domain.Collection) collectionResponse {
	return collectionResponse{c.Address, c.Name, c.Symbol, c.Creator, c.NextTokenID}
}

type tokenResponse struct {
	Collection domain.Address  `json:"collection"`
	TokenID    uint64          `json:"token_id"`
	Owner      domain.Address  `json:"owner"`
	Approved   *domain.Address `json:"approved,omitempty"`
	URI        string          `json:"uri"`
}

func newTokenResponse(t domain.Token) tokenResponse {
	res := tokenResponse{
		Collection: t.Key.Collection,
		TokenID:    t.Key.TokenID,
		Owner:      t.Owner,
		URI:        t.URI,
	}
	if !t.Approved.IsZero() {
		approved := t.Approved
		res.Approved = &approved
	}
	return res
}

type balanceResponse struct {
	Address domain.Address `json:"address"`
	Amount  uint64         `json:"amount"`
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid body: %s", errBadRequest, err)
	}
	return nil
}

func parseAddress(str, name string) (domain.Address, error) {
	addr, err := domain.ParseAddress(str)
	if err != nil {
		return domain.Address{}, fmt.Errorf("%w: invalid %s", errBadRequest, name)
	}
	return addr, nil
}

func parseAssetKey(ps httprouter.Params) (domain.AssetKey, error) {
	collection, err := parseAddress(ps.ByName("collection"), "collection")
	if err != nil {
		return domain.AssetKey{}, err
	}
	tokenID, err := strconv.ParseUint(ps.ByName("token_id"), 10, 64)
	if err != nil {
		return domain.AssetKey{}, fmt.Errorf("%w: invalid token id", errBadRequest)
	}
	return domain.NewAssetKey(collection, tokenID)
}

// parsePage returns nil if the request is not paginated.
func parsePage(r *http.Request) (*domain.Page, error) {
	q := r.URL.Query()
	if q.Get("page") == "" && q.Get("size") == "" {
		return nil, nil
	}

	var number, size int
	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: invalid page", errBadRequest)
		}
		number = n
	}
	if s := q.Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: invalid page size", errBadRequest)
		}
		size = n
	}
	page := domain.NewPage(number, size)
	return &page, nil
}

// parseOptionalAddress returns the zero address if the query param is unset.
func parseOptionalAddress(r *http.Request, name string) (domain.Address, error) {
	str := r.URL.Query().Get(name)
	if str == "" {
		return domain.Address{}, nil
	}
	return parseAddress(str, name)
}
