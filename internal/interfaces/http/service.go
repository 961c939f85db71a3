package httpinterface

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nft-marketplace/internal/core/application/collectible"
	"github.com/tdex-network/nft-marketplace/internal/core/application/marketplace"
	"github.com/tdex-network/nft-marketplace/internal/core/application/pubsub"
	"github.com/tdex-network/nft-marketplace/internal/core/application/wallet"
	"github.com/tdex-network/nft-marketplace/internal/interfaces"
)

const shutdownTimeout = 5 * time.Second

type ServiceOpts struct {
	Port       int
	AuthSecret string
	NoAuth     bool

	MarketplaceSvc *marketplace.Service
	CollectibleSvc *collectible.Service
	WalletSvc      *wallet.Service
	PubSubSvc      *pubsub.Service
}

func (o ServiceOpts) validate() error {
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("invalid port %d", o.Port)
	}
	if !o.NoAuth && len(o.AuthSecret) <= 0 {
		return fmt.Errorf("missing auth secret")
	}
	if o.MarketplaceSvc == nil {
		return fmt.Errorf("marketplace app service must not be null")
	}
	if o.CollectibleSvc == nil {
		return fmt.Errorf("collectible app service must not be null")
	}
	if o.WalletSvc == nil {
		return fmt.Errorf("wallet app service must not be null")
	}
	if o.PubSubSvc == nil {
		return fmt.Errorf("pubsub app service must not be null")
	}
	return nil
}

type service struct {
	opts   ServiceOpts
	server *http.Server
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	handler, err := NewHandler(opts)
	if err != nil {
		return nil, err
	}

	return &service{
		opts: opts,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// NewHandler returns the router serving the REST interface, the event stream
// and the metrics of the daemon.
func NewHandler(opts ServiceOpts) (http.Handler, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	registry := prometheus.NewRegistry()
	m := newMetrics(registry)

	h := &handler{
		marketplaceSvc: opts.MarketplaceSvc,
		collectibleSvc: opts.CollectibleSvc,
		walletSvc:      opts.WalletSvc,
		pubsubSvc:      opts.PubSubSvc,
		auth:           newAuthenticator(opts.AuthSecret, opts.NoAuth),
		metrics:        m,
	}

	router := httprouter.New()
	routes := h.routes()
	for _, r := range routes {
		router.Handle(r.method, r.path, m.instrument(r.path, r.handle))
	}
	router.Handler(
		http.MethodGet, "/metrics",
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		log.WithField("panic", v).Errorf("%s %s: recovered from panic", r.Method, r.URL.Path)
		writeError(w, fmt.Errorf("internal error"))
	}
	return router, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http interface stopped unexpectedly")
		}
	}()

	log.Infof("http interface listening on %s", s.server.Addr)
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully shutdown http interface")
	}
	log.Debug("disabled http interface")
}
