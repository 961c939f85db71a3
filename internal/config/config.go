package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
	"github.com/tdex-network/nft-marketplace/internal/core/domain"
)

const (
	// ListeningPortKey is the port where the HTTP interface will listen on
	ListeningPortKey = "LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// MarketplaceAddressKey is the address sellers must approve to let the
	// marketplace move their assets. It also holds the escrowed payments.
	MarketplaceAddressKey = "MARKETPLACE_ADDRESS"
	// AuthSecretKey is the HS256 secret used to verify the bearer tokens
	// identifying callers
	AuthSecretKey = "AUTH_SECRET"
	// NoAuthKey is used to start the daemon without verifying bearer tokens.
	// The caller is then taken from the X-Caller-Address header.
	NoAuthKey = "NO_AUTH"
	// EnableFaucetKey enables the deposit endpoint that credits funds out of
	// thin air
	EnableFaucetKey = "ENABLE_FAUCET"
	// WebhookTimeoutKey is the max duration of a webhook request
	WebhookTimeoutKey = "WEBHOOK_TIMEOUT"
	// WebhookRateLimitKey is the max number of webhook requests per second, 0
	// means unlimited
	WebhookRateLimitKey = "WEBHOOK_RATE_LIMIT"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval in seconds for printing basic statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	ProfilerLocation = "stats"

	DBBadger   = "badger"
	DBInmemory = "inmemory"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("nft-marketplace", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("MARKET")
	vip.AutomaticEnv()

	vip.SetDefault(ListeningPortKey, 9945)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(NoAuthKey, false)
	vip.SetDefault(EnableFaucetKey, false)
	vip.SetDefault(WebhookTimeoutKey, 15*time.Second)
	vip.SetDefault(WebhookRateLimitKey, 10)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetMarketplaceAddress returns the configured address of the marketplace.
// It's safe to ignore the error after InitConfig succeeded.
func GetMarketplaceAddress() (domain.Address, error) {
	return domain.ParseAddress(GetString(MarketplaceAddressKey))
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if port := GetInt(ListeningPortKey); port <= 0 || port > 65535 {
		return fmt.Errorf("invalid listening port %d", port)
	}

	if !vip.IsSet(MarketplaceAddressKey) {
		return fmt.Errorf("missing marketplace address")
	}
	if _, err := GetMarketplaceAddress(); err != nil {
		return fmt.Errorf("invalid marketplace address: %s", err)
	}

	if !GetBool(NoAuthKey) && len(GetString(AuthSecretKey)) <= 0 {
		return fmt.Errorf("missing auth secret, required unless %s is set", NoAuthKey)
	}

	switch dbType := GetString(DBTypeKey); dbType {
	case DBBadger, DBInmemory:
	default:
		return fmt.Errorf(
			"unsupported db type %s, must be one of %s, %s",
			dbType, DBBadger, DBInmemory,
		)
	}

	if GetInt(WebhookRateLimitKey) < 0 {
		return fmt.Errorf("%s must not be negative", WebhookRateLimitKey)
	}
	if GetDuration(WebhookTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", WebhookTimeoutKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
