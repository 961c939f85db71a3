package pubsub_test

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/pubsub"
)

var testMessage = `{"event":"ItemBought","seller":"0x01","buyer":"0x02","collection":"0x03","token_id":0,"price":1000,"timestamp":1700000000}`

func TestPubSubService(t *testing.T) {
	server := newTestWebServer(t)
	t.Cleanup(server.Close)

	pubsubSvc, err := pubsub.NewService(pubsub.Config{DbDir: t.TempDir(), RateLimit: 100})
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint
		pubsubSvc.Close()
	})

	testSubs := newTestSubs(server.URL)
	for _, sub := range testSubs {
		subID, err := pubsubSvc.Subscribe(sub.Topic(), sub.Endpoint, sub.Secret)
		require.NoError(t, err)
		require.NotEmpty(t, subID)
	}

	subs := pubsubSvc.ListSubscriptionsForTopic("test")
	require.Len(t, subs, len(testSubs))
	require.Condition(t, func() bool {
		for _, sub := range subs {
			if sub.Id() == "" {
				return false
			}
			if sub.Topic() != ports.AnyTopic && !sub.IsSecured() {
				return false
			}
		}
		return true
	})
	require.Len(t, pubsubSvc.ListSubscriptionsForTopic(ports.UnspecifiedTopic), len(testSubs))

	// Should invoke all hooks.
	err = pubsubSvc.Publish("test", testMessage)
	require.NoError(t, err)

	requests := server.requests()
	require.Len(t, requests, len(testSubs))
	for _, r := range requests {
		require.Equal(t, testMessage, r.payload)
		require.Equal(t, "test", r.event)
		require.Contains(t, r.userAgent, "nft-marketplace-webhook")
		if r.endpoint == "/testevent" {
			require.Equal(t, "test", r.subject)
		} else {
			require.Empty(t, r.subject)
		}
	}
	require.Equal(t, len(testSubs)-1, server.count("/testevent"))
	require.Equal(t, 1, server.count("/allevents"))

	for i, s := range subs {
		err := pubsubSvc.Unsubscribe(s.Topic(), s.Id())
		require.NoError(t, err)

		if s.Topic() == ports.AnyTopic {
			subs := pubsubSvc.ListSubscriptionsForTopic(ports.AnyTopic)
			require.Len(t, subs, 0)
		}
		subs := pubsubSvc.ListSubscriptionsForTopic("test")
		require.Len(t, subs, len(testSubs)-1-i)
	}

	err = pubsubSvc.Unsubscribe("test", subs[0].Id())
	require.ErrorIs(t, err, pubsub.ErrSubscriptionNotFound)

	// Checks that it's all ok if there are no hooks to invoke.
	err = pubsubSvc.Publish("test1", testMessage)
	require.NoError(t, err)
}

func TestPubSubServiceFailingEndpoint(t *testing.T) {
	server := newTestWebServer(t)
	t.Cleanup(server.Close)

	pubsubSvc, err := pubsub.NewService(pubsub.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint
		pubsubSvc.Close()
	})

	_, err = pubsubSvc.Subscribe("test", server.URL+"/fail", "")
	require.NoError(t, err)
	_, err = pubsubSvc.Subscribe("test", server.URL+"/testevent", randomSecret())
	require.NoError(t, err)

	err = pubsubSvc.Publish("test", testMessage)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")

	// The healthy endpoint is notified anyway.
	require.Equal(t, 1, server.count("/testevent"))
}

func TestNewSubscription(t *testing.T) {
	tests := []struct {
		name     string
		event    string
		endpoint string
		err      error
	}{
		{"missing event", "", "http://localhost/hook", pubsub.ErrMissingEvent},
		{"invalid endpoint", "test", "not an url", pubsub.ErrInvalidEndpoint},
		{"unsupported scheme", "test", "ftp://localhost/hook", pubsub.ErrInvalidEndpoint},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			sub, err := pubsub.NewSubscription(tt.event, tt.endpoint, "")
			require.ErrorIs(t, err, tt.err)
			require.Nil(t, sub)
		})
	}

	sub, err := pubsub.NewSubscription("test", "https://localhost/hook", "")
	require.NoError(t, err)
	require.NotEmpty(t, sub.Id())
	require.False(t, sub.IsSecured())
}

func newTestSubs(serverURL string) []*pubsub.Subscription {
	subsDetails := []struct {
		topic    string
		endpoint string
		secret   string
	}{
		{"test", serverURL + "/testevent", randomSecret()},
		{"test", serverURL + "/testevent", randomSecret()},
		{"test", serverURL + "/testevent", randomSecret()},
		{"*", serverURL + "/allevents", ""},
	}
	subs := make([]*pubsub.Subscription, 0, len(subsDetails))
	for _, d := range subsDetails {
		sub, _ := pubsub.NewSubscription(d.topic, d.endpoint, d.secret)
		subs = append(subs, sub)
	}
	return subs
}

type request struct {
	endpoint  string
	event     string
	userAgent string
	subject   string
	payload   string
}

type testWebServer struct {
	*httptest.Server

	lock     sync.Mutex
	received []request
}

func (s *testWebServer) requests() []request {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]request{}, s.received...)
}

func (s *testWebServer) count(endpoint string) int {
	count := 0
	for _, r := range s.requests() {
		if r.endpoint == endpoint {
			count++
		}
	}
	return count
}

func newTestWebServer(t *testing.T) *testWebServer {
	srv := &testWebServer{}
	handleFn := func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Bad method", http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Content-Type") == "" {
			http.Error(w, "Missing Content-Type header", http.StatusUnsupportedMediaType)
			return
		}
		var subject string
		if auth := r.Header.Get("Authorization"); auth != "" {
			tokenString := strings.TrimPrefix(auth, "Bearer ")
			claims := &jwt.StandardClaims{}
			token, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims)
			if err != nil || token.Method != jwt.SigningMethodHS256 {
				http.Error(w, "Bad token", http.StatusUnauthorized)
				return
			}
			subject = claims.Subject
		}

		defer r.Body.Close()
		payload, _ := io.ReadAll(r.Body)

		srv.lock.Lock()
		srv.received = append(srv.received, request{
			endpoint:  r.URL.Path,
			event:     r.Header.Get(pubsub.EventHeader),
			userAgent: r.Header.Get("User-Agent"),
			subject:   subject,
			payload:   string(payload),
		})
		srv.lock.Unlock()

		fmt.Fprintf(w, "Done")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/testevent", handleFn)
	mux.HandleFunc("/allevents", handleFn)
	mux.HandleFunc("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})
	srv.Server = httptest.NewServer(mux)
	return srv
}

func randomSecret() string {
	b := make([]byte, 32)
	//nolint
	rand.Read(b)
	return hex.EncodeToString(b)
}
