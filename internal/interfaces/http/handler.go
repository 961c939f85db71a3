package httpinterface

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/tdex-network/nft-marketplace/internal/core/application/collectible"
	"github.com/tdex-network/nft-marketplace/internal/core/application/marketplace"
	"github.com/tdex-network/nft-marketplace/internal/core/application/pubsub"
	"github.com/tdex-network/nft-marketplace/internal/core/application/wallet"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

type handler struct {
	marketplaceSvc *marketplace.Service
	collectibleSvc *collectible.Service
	walletSvc      *wallet.Service
	pubsubSvc      *pubsub.Service
	auth           *authenticator
	metrics        *metrics
}

type route struct {
	method string
	path   string
	handle httprouter.Handle
}

func (h *handler) routes() []route {
	return []route{
		{http.MethodPost, "/v1/listings", h.list},
		{http.MethodGet, "/v1/listings", h.listListings},
		{http.MethodGet, "/v1/listings/:collection/:token_id", h.getListing},
		{http.MethodPut, "/v1/listings/:collection/:token_id", h.update},
		{http.MethodDelete, "/v1/listings/:collection/:token_id", h.cancel},
		{http.MethodPost, "/v1/listings/:collection/:token_id/buy", h.buy},
		{http.MethodPost, "/v1/proceeds/withdraw", h.withdraw},
		{http.MethodGet, "/v1/proceeds/:address", h.getProceeds},
		{http.MethodGet, "/v1/activities", h.listActivities},

		{http.MethodPost, "/v1/collections", h.createCollection},
		{http.MethodGet, "/v1/collections", h.listCollections},
		{http.MethodGet, "/v1/collections/:collection", h.getCollection},
		{http.MethodGet, "/v1/collections/:collection/tokens", h.listTokens},
		{http.MethodPost, "/v1/collections/:collection/mint", h.mint},
		{http.MethodPost, "/v1/collections/:collection/approval-for-all", h.setApprovalForAll},
		{http.MethodGet, "/v1/tokens/:collection/:token_id", h.getToken},
		{http.MethodPost, "/v1/tokens/:collection/:token_id/approve", h.approve},

		{http.MethodPost, "/v1/wallet/deposit", h.deposit},
		{http.MethodGet, "/v1/wallet/:address", h.getBalance},

		{http.MethodPost, "/v1/webhooks", h.addWebhook},
		{http.MethodGet, "/v1/webhooks", h.listWebhooks},
		{http.MethodDelete, "/v1/webhooks/:id", h.removeWebhook},

		{http.MethodGet, "/v1/events/stream", h.stream},
	}
}

func (h *handler) list(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := h.auth.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req listRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	key := domain.AssetKey{Collection: req.Collection, TokenID: req.TokenID}

	err = h.marketplaceSvc.List(r.Context(), caller, key, req.Price)
	h.metrics.observeOperation("list", err)
	if err != nil {
		writeError(w, err)
		return
	}

	listing, err := h.marketplaceSvc.GetListing(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newListingResponse(*listing))
}

func (h *handler) update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := h.auth.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	key, err := parseAssetKey(ps)
	if err != nil {
		writeError(w, err)
		return
	}
	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err = h.marketplaceSvc.Update(r.Context(), caller, key, req.Price)
	h.metrics.observeOperation("update", err)
	if err != nil {
		writeError(w, err)
		return
	}

	listing, err := h.marketplaceSvc.GetListing(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newListingResponse(*listing))
}

func (h *handler) cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := h.auth.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	key, err := parseAssetKey(ps)
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.marketplaceSvc.Cancel(r.Context(), caller, key)
	h.metrics.observeOperation("cancel", err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) buy(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := h.auth.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	key, err := parseAssetKey(ps)
	if err != nil {
		writeError(w, err)
		return
	}
	var req buyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err = h.marketplaceSvc.Buy(r.Context(), caller, key, req.Payment)
	h.metrics.observeOperation("buy", err)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.collectibleSvc.GetToken(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(*token))
}

func (h *handler) getListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	key, err := parseAssetKey(ps)
	if err != nil {
		writeError(w, err)
		return
	}
	listing, err := h.marketplaceSvc.GetListing(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	if listing == nil {
		writeError(w, domain.ErrNotListed)
		return
	}
	writeJSON(w, http.StatusOK, newListingResponse(*listing))
}

func (h *handler) listListings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	seller, err := parseOptionalAddress(r, "seller")
	if err != nil {
		writeError(w, err)
		return
	}
	collection, err := parseOptionalAddress(r, "collection")
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	listings, err := h.marketplaceSvc.ListListings(
		r.Context(), marketplace.ListingFilter{Seller: seller, Collection: collection}, page,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	res := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		res = append(res, newListingResponse(l))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) withdraw(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := h.auth.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}

	amount, err := h.marketplaceSvc.Withdraw(r.Context(), caller)
	h.metrics.observeOperation("withdraw", err)
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.proceedsWithdrawn.Add(float64(amount))
	writeJSON(w, http.StatusOK, balanceResponse{caller, amount})
}

func (h *handler) getProceeds(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	addr, err := parseAddress(ps.ByName("address"), "address")
	if err != nil {
		writeError(w, err)
		return
	}
	amount, err := h.marketplaceSvc.GetProceeds(r.Context(), addr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{addr, amount})
}

// listActivities filters by asset if both collection and token_id are given,
// otherwise by account, if any.
func (h *handler) listActivities(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	filter := marketplace.ActivityFilter{}
	if q.Get("collection") != "" || q.Get("token_id") != "" {
		key, err := parseAssetKey(httprouter.Params{
			{Key: "collection", Value: q.Get("collection")},
			{Key: "token_id", Value: q.Get("token_id")},
		})
		if err != nil {
			writeError(w, err)
			return
		}
		filter.Asset = &key
	}
	account, err := parseOptionalAddress(r, "account")
	if err != nil {
		writeError(w, err)
		return
	}
	filter.Account = account
	page, err := parsePage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	activities, err := h.marketplaceSvc.ListActivities(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}
	res := make([]activityResponse, 0, len(activities))
	for _, a := range activities {
		res = append(res, newActivityResponse(a))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) createCollection(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := h.auth.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req createCollectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	collection, err := h.collectibleSvc.CreateCollection(
		r.Context(), caller, req.Name, req.Symbol,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCollectionResponse(*collection))
}

func (h *handler) listCollections(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	collections, err := h.collectibleSvc.ListCollections(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	res := make([]collectionResponse, 0, len(collections))
	for _, c := range collections {
		res = append(res, newCollectionResponse(c))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) getCollection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	addr, err := parseAddress(ps.ByName("collection"), "collection")
	if err != nil {
		writeError(w, err)
		return
	}
	collection, err := h.collectibleSvc.GetCollection(r.Context(), addr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCollectionResponse(*collection))
}

func (h *handler) listTokens(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	collection, err := parseAddress(ps.ByName("collection"), "collection")
	if err != nil {
		writeError(w, err)
		return
	}
	owner, err := parseAddress(r.URL.Query().Get("owner"), "owner")
	if err != nil {
		writeError(w, err)
		return
	}
	tokens, err := h.collectibleSvc.ListTokensByOwner(r.Context(), collection, owner)
	if err != nil {
		writeError(w, err)
		return
	}
	res := make([]tokenResponse, 0, len(tokens))
	for _, t := range tokens {
		res = append(res, newTokenResponse(t))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) mint(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := h.auth.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	collection, err := parseAddress(ps.ByName("collection"), "collection")
	if err != nil {
		writeError(w, err)
		return
	}
	var req mintRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var token *domain.Token
	if req.Price > 0 {
		token, err = h.collectibleSvc.MintAndList(
			r.Context(), caller, collection, req.URI, req.Price,
		)
		h.metrics.observeOperation("list", err)
	} else {
		token, err = h.collectibleSvc.Mint(r.Context(), caller, collection, req.URI)
	}
	if err != nil {
		if token != nil {
			err = fmt.Errorf("minted token %d but failed to list it: %w", token.Key.TokenID, err)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTokenResponse(*token))
}

func (h *handler) approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := h.auth.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	key, err := parseAssetKey(ps)
	if err != nil {
		writeError(w, err)
		return
	}
	var req approveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.collectibleSvc.Approve(r.Context(), caller, key, req.Operator); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) setApprovalForAll(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, err := h.auth.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	collection, err := parseAddress(ps.ByName("collection"), "collection")
	if err != nil {
		writeError(w, err)
		return
	}
	var req approvalForAllRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.collectibleSvc.SetApprovalForAll(
		r.Context(), caller, collection, req.Operator, req.Approved,
	); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getToken(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	key, err := parseAssetKey(ps)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := h.collectibleSvc.GetToken(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(*token))
}

func (h *handler) deposit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, err := h.auth.caller(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req depositRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	balance, err := h.walletSvc.Deposit(r.Context(), caller, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{caller, balance})
}

func (h *handler) getBalance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	addr, err := parseAddress(ps.ByName("address"), "address")
	if err != nil {
		writeError(w, err)
		return
	}
	balance, err := h.walletSvc.GetBalance(r.Context(), addr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{addr, balance})
}

func (h *handler) addWebhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, err := h.auth.caller(r); err != nil {
		writeError(w, err)
		return
	}
	var req addWebhookRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	hook, err := h.pubsubSvc.AddWebhook(r.Context(), pubsub.AddWebhookRequest{
		Event:          req.Event,
		Endpoint:       req.Endpoint,
		Secret:         req.Secret,
		GenerateSecret: req.GenerateSecret,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, hook)
}

func (h *handler) listWebhooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, err := h.auth.caller(r); err != nil {
		writeError(w, err)
		return
	}
	hooks, err := h.pubsubSvc.ListWebhooks(r.Context(), r.URL.Query().Get("event"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hooks)
}

func (h *handler) removeWebhook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, err := h.auth.caller(r); err != nil {
		writeError(w, err)
		return
	}
	if err := h.pubsubSvc.RemoveWebhook(r.Context(), ps.ByName("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
