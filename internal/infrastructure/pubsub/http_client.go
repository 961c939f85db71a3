package pubsub

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	userAgent = "nft-marketplace-webhook/1.0"
	// EventHeader carries the event type of the delivered payload.
	EventHeader = "X-Market-Event"
	// maxResponseSize bounds the response body kept for error reporting.
	maxResponseSize = 1 << 10
)

// client delivers webhook payloads.
type client struct {
	*http.Client
}

func newHTTPClient(requestTimeout time.Duration) *client {
	return &client{&http.Client{Timeout: requestTimeout}}
}

// deliver posts the JSON payload of the given event to the endpoint and
// fails if the endpoint does not answer with 200 OK.
func (c *client) deliver(
	endpoint, event, payload string, header map[string]string,
) error {
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(EventHeader, event)
	for key, value := range header {
		req.Header.Set(key, value)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		return fmt.Errorf(
			"answered with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)),
		)
	}
	// Drain the body so that the connection can be reused.
	//nolint
	io.Copy(io.Discard, resp.Body)
	return nil
}
