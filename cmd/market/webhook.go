package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var webhook = cli.Command{
	Name:  "webhook",
	Usage: "manage webhooks notified of marketplace events",
	Subcommands: []*cli.Command{
		{
			Name:  "add",
			Usage: "add a webhook for an event",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "event",
					Usage: "the event type, one of ITEM_LISTED, ITEM_CANCELED, ITEM_BOUGHT, PROCEEDS_WITHDRAWN or * for all",
					Value: "*",
				},
				&cli.StringFlag{
					Name:     "endpoint",
					Usage:    "the endpoint to notify",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "secret",
					Usage: "the secret used to sign the requests",
				},
				&cli.BoolFlag{
					Name:  "generate_secret",
					Usage: "let the daemon generate the secret",
				},
			},
			Action: addWebhookAction,
		},
		{
			Name:  "remove",
			Usage: "remove a webhook",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Usage:    "the id of the webhook",
					Required: true,
				},
			},
			Action: removeWebhookAction,
		},
		{
			Name:  "list",
			Usage: "list the webhooks, optionally filtered by event",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "event", Usage: "the event type"},
			},
			Action: listWebhooksAction,
		},
	},
}

func addWebhookAction(ctx *cli.Context) error {
	if ctx.String("secret") != "" && ctx.Bool("generate_secret") {
		return fmt.Errorf("secret and generate_secret are mutually exclusive")
	}
	return doAndPrint(http.MethodPost, "/v1/webhooks", map[string]interface{}{
		"event":           ctx.String("event"),
		"endpoint":        ctx.String("endpoint"),
		"secret":          ctx.String("secret"),
		"generate_secret": ctx.Bool("generate_secret"),
	})
}

func removeWebhookAction(ctx *cli.Context) error {
	return doAndPrint(http.MethodDelete, "/v1/webhooks/"+url.PathEscape(ctx.String("id")), nil)
}

func listWebhooksAction(ctx *cli.Context) error {
	q := url.Values{}
	setQuery(q, "event", ctx.String("event"))
	return doAndPrint(http.MethodGet, withQuery("/v1/webhooks", q), nil)
}
