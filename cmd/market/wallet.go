package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var deposit = cli.Command{
	Name:  "deposit",
	Usage: "credit the caller's balance, only if the daemon enables the faucet",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to deposit",
			Required: true,
		},
	},
	Action: depositAction,
}

var balance = cli.Command{
	Name:  "balance",
	Usage: "get the spendable balance of an account",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "address",
			Usage: "the account address, defaults to the caller",
		},
	},
	Action: balanceAction,
}

func depositAction(ctx *cli.Context) error {
	amount, err := parseAmount(ctx.String("amount"))
	if err != nil {
		return err
	}
	return doAndPrint(http.MethodPost, "/v1/wallet/deposit", map[string]interface{}{
		"amount": amount,
	})
}

func balanceAction(ctx *cli.Context) error {
	addr, err := addressOrCaller(ctx.String("address"))
	if err != nil {
		return err
	}
	return doAndPrint(http.MethodGet, "/v1/wallet/"+addr, nil)
}
