package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var collection = cli.Command{
	Name:   "collection",
	Usage:  "get the list of all collections",
	Action: listCollectionsAction,
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "create a new collection owned by the caller",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "the name of the collection", Required: true},
				&cli.StringFlag{Name: "symbol", Usage: "the symbol of the collection", Required: true},
			},
			Action: createCollectionAction,
		},
		{
			Name:   "info",
			Usage:  "get info about a collection",
			Flags:  []cli.Flag{&collectionFlag},
			Action: getCollectionAction,
		},
		{
			Name:  "tokens",
			Usage: "get the tokens of a collection owned by an address",
			Flags: []cli.Flag{
				&collectionFlag,
				&cli.StringFlag{Name: "owner", Usage: "the owner address, defaults to the caller"},
			},
			Action: listTokensAction,
		},
		{
			Name:   "token",
			Usage:  "get info about a token",
			Flags:  []cli.Flag{&collectionFlag, &tokenIDFlag},
			Action: getTokenAction,
		},
	},
}

var mint = cli.Command{
	Name:  "mint",
	Usage: "mint a new token in a collection owned by the caller",
	Flags: []cli.Flag{
		&collectionFlag,
		&cli.StringFlag{Name: "uri", Usage: "the uri of the token metadata"},
	},
	Action: mintAction,
}

var mintandlist = cli.Command{
	Name:  "mintandlist",
	Usage: "mint a new token and list it for sale",
	Flags: []cli.Flag{
		&collectionFlag,
		&cli.StringFlag{Name: "uri", Usage: "the uri of the token metadata"},
		&priceFlag,
	},
	Action: mintAndListAction,
}

var approve = cli.Command{
	Name:  "approve",
	Usage: "approve an operator to transfer a token owned by the caller",
	Flags: []cli.Flag{
		&collectionFlag,
		&tokenIDFlag,
		&cli.StringFlag{Name: "operator", Usage: "the address of the operator", Required: true},
	},
	Action: approveAction,
}

var approveall = cli.Command{
	Name:  "approveall",
	Usage: "approve or revoke an operator for all tokens of a collection owned by the caller",
	Flags: []cli.Flag{
		&collectionFlag,
		&cli.StringFlag{Name: "operator", Usage: "the address of the operator", Required: true},
		&cli.BoolFlag{Name: "revoke", Usage: "revoke the approval"},
	},
	Action: approveAllAction,
}

func listCollectionsAction(ctx *cli.Context) error {
	return doAndPrint(http.MethodGet, "/v1/collections", nil)
}

func createCollectionAction(ctx *cli.Context) error {
	return doAndPrint(http.MethodPost, "/v1/collections", map[string]interface{}{
		"name":   ctx.String("name"),
		"symbol": ctx.String("symbol"),
	})
}

func getCollectionAction(ctx *cli.Context) error {
	return doAndPrint(http.MethodGet, collectionPath(ctx), nil)
}

func listTokensAction(ctx *cli.Context) error {
	owner, err := addressOrCaller(ctx.String("owner"))
	if err != nil {
		return err
	}
	return doAndPrint(http.MethodGet, collectionPath(ctx)+"/tokens?owner="+owner, nil)
}

func getTokenAction(ctx *cli.Context) error {
	return doAndPrint(http.MethodGet, tokenPath(ctx), nil)
}

func mintAction(ctx *cli.Context) error {
	return doAndPrint(http.MethodPost, collectionPath(ctx)+"/mint", map[string]interface{}{
		"uri": ctx.String("uri"),
	})
}

func mintAndListAction(ctx *cli.Context) error {
	price, err := parseAmount(ctx.String("price"))
	if err != nil {
		return err
	}
	if price == 0 {
		return fmt.Errorf("price must be greater than zero")
	}
	return doAndPrint(http.MethodPost, collectionPath(ctx)+"/mint", map[string]interface{}{
		"uri":   ctx.String("uri"),
		"price": price,
	})
}

func approveAction(ctx *cli.Context) error {
	return doAndPrint(http.MethodPost, tokenPath(ctx)+"/approve", map[string]interface{}{
		"operator": ctx.String("operator"),
	})
}

func approveAllAction(ctx *cli.Context) error {
	return doAndPrint(http.MethodPost, collectionPath(ctx)+"/approval-for-all", map[string]interface{}{
		"operator": ctx.String("operator"),
		"approved": !ctx.Bool("revoke"),
	})
}

func collectionPath(ctx *cli.Context) string {
	return "/v1/collections/" + url.PathEscape(ctx.String("collection"))
}

func tokenPath(ctx *cli.Context) string {
	return fmt.Sprintf(
		"/v1/tokens/%s/%d", url.PathEscape(ctx.String("collection")), ctx.Uint64("token_id"),
	)
}
