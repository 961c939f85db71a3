package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/nft-marketplace/internal/config"
	"github.com/tdex-network/nft-marketplace/internal/core/application/collectible"
	"github.com/tdex-network/nft-marketplace/internal/core/application/marketplace"
	"github.com/tdex-network/nft-marketplace/internal/core/application/pubsub"
	"github.com/tdex-network/nft-marketplace/internal/core/application/wallet"
	"github.com/tdex-network/nft-marketplace/internal/core/ports"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/funds"
	webhookpubsub "github.com/tdex-network/nft-marketplace/internal/infrastructure/pubsub"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/registry"
	dbbadger "github.com/tdex-network/nft-marketplace/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/nft-marketplace/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/tdex-network/nft-marketplace/internal/interfaces/http"
	"github.com/tdex-network/nft-marketplace/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	datadir := config.GetDatadir()
	dbDir := filepath.Join(datadir, config.DbLocation)
	marketplaceAddr, _ := config.GetMarketplaceAddress()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.GetBool(config.EnableProfilerKey) {
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		dumpPath := filepath.Join(datadir, config.ProfilerLocation, "prometheus.log")
		stats.EnableMemoryStatistics(ctx, interval, dumpPath)
	}

	var dbLogger badger.Logger
	if log.GetLevel() >= log.DebugLevel {
		dbLogger = log.StandardLogger()
	}

	repoManager, err := newRepoManager(dbDir, dbLogger)
	if err != nil {
		log.WithError(err).Fatal("failed to open db")
	}
	defer repoManager.Close()

	// Infrastructure
	assetRegistry := registry.NewRegistry(repoManager)
	ledger := funds.NewLedger(repoManager, marketplaceAddr)

	webhookDbDir := dbDir
	if config.GetString(config.DBTypeKey) == config.DBInmemory {
		webhookDbDir = ""
	}
	webhookSvc, err := webhookpubsub.NewService(webhookpubsub.Config{
		DbDir:          webhookDbDir,
		RequestTimeout: config.GetDuration(config.WebhookTimeoutKey),
		RateLimit:      config.GetInt(config.WebhookRateLimitKey),
		Logger:         dbLogger,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize webhook service")
	}

	// App services
	pubsubSvc, err := pubsub.NewService(webhookSvc)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize pubsub service")
	}
	defer pubsubSvc.Close()

	marketplaceSvc, err := marketplace.NewService(
		repoManager, assetRegistry.AsOperator(marketplaceAddr), ledger,
		pubsubSvc, marketplaceAddr,
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize marketplace service")
	}
	collectibleSvc, err := collectible.NewService(repoManager, marketplaceSvc)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize collectible service")
	}
	walletSvc, err := wallet.NewService(
		repoManager, config.GetBool(config.EnableFaucetKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize wallet service")
	}

	// Interfaces
	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Port:           config.GetInt(config.ListeningPortKey),
		AuthSecret:     config.GetString(config.AuthSecretKey),
		NoAuth:         config.GetBool(config.NoAuthKey),
		MarketplaceSvc: marketplaceSvc,
		CollectibleSvc: collectibleSvc,
		WalletSvc:      walletSvc,
		PubSubSvc:      pubsubSvc,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize http interface")
	}

	log.RegisterExitHandler(svc.Stop)

	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start http interface")
	}

	log.Infof("marketplace %s is ready", marketplaceAddr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-sigChan

	log.Info("shutting down daemon")
	svc.Stop()
	log.Debug("exiting")
}

func newRepoManager(
	dbDir string, logger badger.Logger,
) (ports.RepoManager, error) {
	if config.GetString(config.DBTypeKey) == config.DBInmemory {
		return inmemory.NewRepoManager(), nil
	}
	return dbbadger.NewRepoManager(dbDir, logger)
}
