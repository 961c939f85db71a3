package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/urfave/cli/v2"
)

var (
	collectionFlag = cli.StringFlag{
		Name:     "collection",
		Usage:    "the address of the collection",
		Required: true,
	}
	tokenIDFlag = cli.Uint64Flag{
		Name:     "token_id",
		Usage:    "the id of the token in the collection",
		Required: true,
	}
	priceFlag = cli.StringFlag{
		Name:     "price",
		Usage:    "the price of the item",
		Required: true,
	}
	pageFlag = cli.IntFlag{
		Name:  "page",
		Usage: "the page number, starting from 1",
	}
	pageSizeFlag = cli.IntFlag{
		Name:  "size",
		Usage: "the number of entries per page",
	}
)

var list = cli.Command{
	Name:   "list",
	Usage:  "list an owned token for sale",
	Flags:  []cli.Flag{&collectionFlag, &tokenIDFlag, &priceFlag},
	Action: listAction,
}

var update = cli.Command{
	Name:   "update",
	Usage:  "update the price of a listed token",
	Flags:  []cli.Flag{&collectionFlag, &tokenIDFlag, &priceFlag},
	Action: updateAction,
}

var cancel = cli.Command{
	Name:   "cancel",
	Usage:  "remove a token from sale",
	Flags:  []cli.Flag{&collectionFlag, &tokenIDFlag},
	Action: cancelAction,
}

var buy = cli.Command{
	Name:  "buy",
	Usage: "buy a listed token",
	Flags: []cli.Flag{
		&collectionFlag,
		&tokenIDFlag,
		&cli.StringFlag{
			Name:     "payment",
			Usage:    "the amount paid, must cover the price",
			Required: true,
		},
	},
	Action: buyAction,
}

var withdraw = cli.Command{
	Name:   "withdraw",
	Usage:  "withdraw all the proceeds of the caller",
	Action: withdrawAction,
}

var listing = cli.Command{
	Name:   "listing",
	Usage:  "get the listing of a token",
	Flags:  []cli.Flag{&collectionFlag, &tokenIDFlag},
	Action: listingAction,
}

var listings = cli.Command{
	Name:  "listings",
	Usage: "get all active listings, optionally filtered by seller or collection",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "seller", Usage: "the address of the seller"},
		&cli.StringFlag{Name: "collection", Usage: "the address of the collection"},
		&pageFlag,
		&pageSizeFlag,
	},
	Action: listingsAction,
}

var proceeds = cli.Command{
	Name:  "proceeds",
	Usage: "get the withdrawable proceeds of an account",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "address",
			Usage: "the account address, defaults to the caller",
		},
	},
	Action: proceedsAction,
}

var activities = cli.Command{
	Name:  "activities",
	Usage: "get the marketplace activities, optionally filtered by token or account",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "collection", Usage: "the address of the collection"},
		&cli.StringFlag{Name: "token_id", Usage: "the id of the token"},
		&cli.StringFlag{Name: "account", Usage: "the address of the seller or buyer"},
		&pageFlag,
		&pageSizeFlag,
	},
	Action: activitiesAction,
}

func listAction(ctx *cli.Context) error {
	price, err := parseAmount(ctx.String("price"))
	if err != nil {
		return err
	}
	return doAndPrint(http.MethodPost, "/v1/listings", map[string]interface{}{
		"collection": ctx.String("collection"),
		"token_id":   ctx.Uint64("token_id"),
		"price":      price,
	})
}

func updateAction(ctx *cli.Context) error {
	price, err := parseAmount(ctx.String("price"))
	if err != nil {
		return err
	}
	return doAndPrint(http.MethodPut, listingPath(ctx), map[string]interface{}{
		"price": price,
	})
}

func cancelAction(ctx *cli.Context) error {
	return doAndPrint(http.MethodDelete, listingPath(ctx), nil)
}

func buyAction(ctx *cli.Context) error {
	payment, err := parseAmount(ctx.String("payment"))
	if err != nil {
		return err
	}
	return doAndPrint(http.MethodPost, listingPath(ctx)+"/buy", map[string]interface{}{
		"payment": payment,
	})
}

func withdrawAction(ctx *cli.Context) error {
	return doAndPrint(http.MethodPost, "/v1/proceeds/withdraw", nil)
}

func listingAction(ctx *cli.Context) error {
	return doAndPrint(http.MethodGet, listingPath(ctx), nil)
}

func listingsAction(ctx *cli.Context) error {
	q := url.Values{}
	setQuery(q, "seller", ctx.String("seller"))
	setQuery(q, "collection", ctx.String("collection"))
	setPage(ctx, q)
	return doAndPrint(http.MethodGet, withQuery("/v1/listings", q), nil)
}

func proceedsAction(ctx *cli.Context) error {
	addr, err := addressOrCaller(ctx.String("address"))
	if err != nil {
		return err
	}
	return doAndPrint(http.MethodGet, "/v1/proceeds/"+addr, nil)
}

func activitiesAction(ctx *cli.Context) error {
	if (ctx.String("collection") == "") != (ctx.String("token_id") == "") {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	q := url.Values{}
	setQuery(q, "collection", ctx.String("collection"))
	setQuery(q, "token_id", ctx.String("token_id"))
	setQuery(q, "account", ctx.String("account"))
	setPage(ctx, q)
	return doAndPrint(http.MethodGet, withQuery("/v1/activities", q), nil)
}

func listingPath(ctx *cli.Context) string {
	return fmt.Sprintf(
		"/v1/listings/%s/%d", url.PathEscape(ctx.String("collection")), ctx.Uint64("token_id"),
	)
}

func addressOrCaller(addr string) (string, error) {
	if addr != "" {
		return url.PathEscape(addr), nil
	}
	state, err := getState()
	if err != nil {
		return "", err
	}
	if state["address"] == "" {
		return "", fmt.Errorf("missing address, set it with `config set address`")
	}
	return url.PathEscape(state["address"]), nil
}

func setQuery(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setPage(ctx *cli.Context, q url.Values) {
	if p := ctx.Int("page"); p > 0 {
		q.Set("page", strconv.Itoa(p))
	}
	if s := ctx.Int("size"); s > 0 {
		q.Set("size", strconv.Itoa(s))
	}
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
