package pubsub

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/golang-jwt/jwt"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
	"github.com/tdex-network/nft-marketplace/pkg/circuitbreaker"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRequestTimeout = 15 * time.Second
)

// Config holds the parameters of the webhook pubsub service.
// An empty DbDir keeps the subscriptions in memory, a zero RequestTimeout
// defaults to 15 seconds and a zero RateLimit disables the throttling of
// outgoing requests.
type Config struct {
	DbDir          string
	RequestTimeout time.Duration
	// RateLimit is the max number of webhook requests per second.
	RateLimit int
	Logger    badger.Logger
}

type service struct {
	store      *store
	httpClient *client
	limiter    ratelimit.Limiter

	lock     *sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewService(cfg Config) (ports.PubSub, error) {
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must not be negative")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	limiter := ratelimit.NewUnlimited()
	if cfg.RateLimit > 0 {
		limiter = ratelimit.New(cfg.RateLimit)
	}

	s, err := newStore(cfg.DbDir, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open webhook store: %w", err)
	}

	return &service{
		store:      s,
		httpClient: newHTTPClient(timeout),
		limiter:    limiter,
		lock:       &sync.Mutex{},
		breakers:   make(map[string]*gobreaker.CircuitBreaker),
	}, nil
}

func (ws *service) Subscribe(topic, endpoint, secret string) (string, error) {
	sub, err := NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	if err := ws.store.add(sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (ws *service) Unsubscribe(_, id string) error {
	return ws.store.remove(id)
}

func (ws *service) ListSubscriptionsForTopic(topic string) []ports.Subscription {
	return ws.listSubscriptionsForTopic(topic).toPortable()
}

func (ws *service) Publish(topic string, message string) error {
	subs := ws.listSubscriptionsForTopic(topic)

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		ws.limiter.Take()
		eg.Go(func() error { return ws.doRequest(sub, topic, message) })
	}
	return eg.Wait()
}

func (ws *service) Close() error {
	return ws.store.close()
}

func (ws *service) listSubscriptionsForTopic(topic string) subscriptions {
	subs, _ := ws.store.list(topic)
	if topic != ports.AnyTopic && topic != ports.UnspecifiedTopic {
		subsForAnyTopic, _ := ws.store.list(ports.AnyTopic)
		subs = append(subs, subsForAnyTopic...)
	}
	return subs
}

// breaker returns the circuit breaker of the given endpoint so that an
// unreachable endpoint does not prevent notifying the others.
func (ws *service) breaker(endpoint string) *gobreaker.CircuitBreaker {
	ws.lock.Lock()
	defer ws.lock.Unlock()

	cb, ok := ws.breakers[endpoint]
	if !ok {
		cb = circuitbreaker.NewCircuitBreaker(endpoint)
		ws.breakers[endpoint] = cb
	}
	return cb
}

func (ws *service) doRequest(sub Subscription, topic, payload string) error {
	_, err := ws.breaker(sub.Endpoint).Execute(func() (interface{}, error) {
		headers := map[string]string{}
		if sub.IsSecured() {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
				Subject:  topic,
				IssuedAt: time.Now().Unix(),
			})
			tokenString, err := token.SignedString([]byte(sub.Secret))
			if err != nil {
				return nil, err
			}
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		if err := ws.httpClient.deliver(sub.Endpoint, topic, payload, headers); err != nil {
			return nil, fmt.Errorf("webhook %s %s", sub.ID, err)
		}
		return nil, nil
	})

	return err
}
