package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tdex-network/nft-marketplace/internal/core/domain"
	httpinterface "github.com/tdex-network/nft-marketplace/internal/interfaces/http"
	"github.com/tdex-network/nft-marketplace/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var (
	rpcFlag = cli.StringFlag{
		Name:  "rpcserver",
		Usage: "marketplace daemon address host:port",
		Value: "localhost:9945",
	}

	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "the address of the caller, used only if the daemon runs without auth",
		Value: "",
	}

	tokenFlag = cli.StringFlag{
		Name:  "token",
		Usage: "the bearer token identifying the caller",
		Value: "",
	}

	precisionFlag = cli.UintFlag{
		Name:  "precision",
		Usage: "the number of decimals of the amounts given to and printed by the CLI",
		Value: mathutil.DefaultPrecision,
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the market CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&rpcFlag,
				&addressFlag,
				&tokenFlag,
				&precisionFlag,
			},
		},
	},
}

var token = cli.Command{
	Name:  "token",
	Usage: "generate a bearer token for the given address and store it in the local state",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "secret",
			Usage:    "the auth secret of the daemon",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "address",
			Usage:    "the address identified by the token",
			Required: true,
		},
		&cli.DurationFlag{
			Name:  "ttl",
			Usage: "the validity of the token, 0 for no expiration",
			Value: 24 * time.Hour,
		},
	},
	Action: tokenAction,
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range state {
		fmt.Println(key + ": " + value)
	}

	return nil
}

func configInitAction(c *cli.Context) error {
	return setState(map[string]string{
		"rpcserver": c.String("rpcserver"),
		"address":   c.String("address"),
		"token":     c.String("token"),
		"precision": strconv.FormatUint(uint64(c.Uint("precision")), 10),
	})
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)
	return nil
}

func tokenAction(c *cli.Context) error {
	addr, err := domain.ParseAddress(c.String("address"))
	if err != nil {
		return err
	}

	t, err := httpinterface.NewAuthToken(c.String("secret"), addr, c.Duration("ttl"))
	if err != nil {
		return err
	}

	if err := setState(map[string]string{
		"token":   t,
		"address": addr.String(),
	}); err != nil {
		return err
	}

	fmt.Println(t)
	return nil
}
