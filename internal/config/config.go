package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StoragePebble   = "pebble"
)

// Contract modes.
const (
	ContractSimulated = "simulated"
	ContractEVM       = "evm"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	ShutdownTimeout time.Duration
	SessionSecret   string
	SessionTTL      time.Duration
	LogLevel        string

	StorageDriver string
	DatabaseURI   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PebbleDir     string

	ContractMode       string
	SimulatedCallDelay time.Duration
	ReceiptTimeout     time.Duration
	TokenAddress       string
	EscrowAddress      string

	ChainID     uint64
	ChainName   string
	RPCURL      string
	ExplorerURL string

	ReconcileInterval time.Duration
	ReconcileBatch    int
	WorkerPoolSize    int

	ActionRatePerMinute float64
	ActionRateBurst     int

	KafkaBrokers []string
	KafkaTopic   string
}

const (
	defaultRunAddress         = ":8080"
	defaultShutdownTimeout    = 10 * time.Second
	defaultSessionSecret      = "change-me-in-production"
	defaultSessionTTL         = 24 * time.Hour
	defaultLogLevel           = "info"
	defaultStorageDriver      = StorageMemory
	defaultPebbleDir          = "data/escrowdesk"
	defaultContractMode       = ContractSimulated
	defaultSimulatedCallDelay = 1500 * time.Millisecond
	defaultReceiptTimeout     = 2 * time.Minute
	defaultTokenAddress       = "0x7Cfa80f3aAa0FB7880A951eF5B39B930A8DA7e51"
	defaultEscrowAddress      = "0x1431d20901AecF05A8192498E0A7D635F4ca76ea"
	defaultChainID            = 84532
	defaultChainName          = "Base Sepolia"
	defaultRPCURL             = "https://sepolia.base.org"
	defaultExplorerURL        = "https://sepolia.basescan.org"
	defaultReconcileInterval  = 15 * time.Second
	defaultReconcileBatch     = 32
	defaultWorkerPoolSize     = 4
	defaultKafkaTopic         = "escrow.orders"
	defaultActionRate         = 30
	defaultActionBurst        = 5
)

var loadEnvOnce sync.Once

// Load parses configuration from flags and environment variables. A .env file
// in the working directory is applied first without overriding the environment.
func Load() (*Config, error) {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load()
	})
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		SessionSecret:      getString(lookup, "SESSION_SECRET", defaultSessionSecret),
		SessionTTL:         getDuration(lookup, "SESSION_TTL", defaultSessionTTL),
		LogLevel:           getString(lookup, "LOG_LEVEL", defaultLogLevel),
		StorageDriver:      getString(lookup, "STORAGE_DRIVER", defaultStorageDriver),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		RedisAddr:          getString(lookup, "REDIS_ADDR", ""),
		RedisPassword:      getString(lookup, "REDIS_PASSWORD", ""),
		RedisDB:            getInt(lookup, "REDIS_DB", 0),
		PebbleDir:          getString(lookup, "PEBBLE_DIR", defaultPebbleDir),
		ContractMode:       getString(lookup, "CONTRACT_MODE", defaultContractMode),
		SimulatedCallDelay: getDuration(lookup, "SIMULATED_CALL_DELAY", defaultSimulatedCallDelay),
		ReceiptTimeout:     getDuration(lookup, "RECEIPT_TIMEOUT", defaultReceiptTimeout),
		TokenAddress:       getString(lookup, "TOKEN_ADDRESS", defaultTokenAddress),
		EscrowAddress:      getString(lookup, "ESCROW_ADDRESS", defaultEscrowAddress),
		ChainID:            getUint(lookup, "CHAIN_ID", defaultChainID),
		ChainName:          getString(lookup, "CHAIN_NAME", defaultChainName),
		RPCURL:             getString(lookup, "RPC_URL", defaultRPCURL),
		ExplorerURL:        getString(lookup, "EXPLORER_URL", defaultExplorerURL),
		ReconcileInterval:  getDuration(lookup, "RECONCILE_INTERVAL", defaultReconcileInterval),
		ReconcileBatch:     getInt(lookup, "RECONCILE_BATCH", defaultReconcileBatch),
		WorkerPoolSize:     getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		KafkaTopic:         getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),

		ActionRatePerMinute: getFloat(lookup, "ACTION_RATE_PER_MINUTE", defaultActionRate),
		ActionRateBurst:     getInt(lookup, "ACTION_RATE_BURST", defaultActionBurst),
	}
	brokers := getString(lookup, "KAFKA_BROKERS", "")

	fs := flag.NewFlagSet("escrowdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		callDelayStr       = cfg.SimulatedCallDelay.String()
		reconcileStr       = cfg.ReconcileInterval.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "Order storage driver: memory, postgres, redis or pebble")
	fs.StringVar(&cfg.ContractMode, "contract", cfg.ContractMode, "Contract mode: simulated or evm")
	fs.StringVar(&cfg.RPCURL, "rpc", cfg.RPCURL, "EVM JSON-RPC endpoint")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Secret for signing session tokens")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconcile workers")
	fs.IntVar(&cfg.ReconcileBatch, "reconcile-batch", cfg.ReconcileBatch, "Maximum orders per reconcile round")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&callDelayStr, "call-delay", callDelayStr, "Latency of simulated contract calls")
	fs.StringVar(&reconcileStr, "reconcile-interval", reconcileStr, "Interval between chain reconcile rounds")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&brokers, "kafka-brokers", brokers, "Comma separated Kafka brokers; empty disables events")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.SimulatedCallDelay, err = time.ParseDuration(callDelayStr); err != nil {
		return nil, fmt.Errorf("invalid call delay: %w", err)
	}

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if secretFile, ok := lookup("SESSION_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read session secret file: %w", err)
		}
		cfg.SessionSecret = strings.TrimSpace(string(content))
	}

	cfg.KafkaBrokers = splitList(brokers)
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	cfg.ContractMode = strings.ToLower(strings.TrimSpace(cfg.ContractMode))

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ReconcileBatch <= 0 {
		cfg.ReconcileBatch = defaultReconcileBatch
	}

	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaultReconcileInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.ActionRateBurst <= 0 {
		cfg.ActionRateBurst = defaultActionBurst
	}

	if cfg.ReceiptTimeout <= 0 {
		cfg.ReceiptTimeout = defaultReceiptTimeout
	}

	if cfg.SimulatedCallDelay < 0 {
		cfg.SimulatedCallDelay = 0
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURI == "" {
			return fmt.Errorf("database URI must be provided for postgres storage")
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis address must be provided for redis storage")
		}
	case StoragePebble:
		if c.PebbleDir == "" {
			return fmt.Errorf("pebble directory must be provided for pebble storage")
		}
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.StorageDriver)
	}

	switch c.ContractMode {
	case ContractSimulated:
	case ContractEVM:
		if c.RPCURL == "" {
			return fmt.Errorf("rpc url must be provided for evm contract mode")
		}
		if c.EscrowAddress == "" || c.TokenAddress == "" {
			return fmt.Errorf("token and escrow addresses must be provided for evm contract mode")
		}
	default:
		return fmt.Errorf("unsupported contract mode: %s", c.ContractMode)
	}

	if c.ChainID == 0 {
		return fmt.Errorf("chain id must be positive")
	}

	if c.SessionSecret == "" {
		return fmt.Errorf("session secret must be provided")
	}

	return nil
}

// ChainIDHex renders the chain id the way wallets expect it, e.g. 0x14A34.
func (c *Config) ChainIDHex() string {
	return "0x" + strings.ToUpper(strconv.FormatUint(c.ChainID, 16))
}

// EventsEnabled reports whether order events are published to Kafka.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getUint(lookup envLookup, key string, def uint64) uint64 {
	if v, ok := lookup(key); ok && v != "" {
		base := 10
		if strings.HasPrefix(strings.ToLower(v), "0x") {
			v, base = v[2:], 16
		}
		if n, err := strconv.ParseUint(v, base, 64); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
