package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(nil, lookupFrom(nil))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}

	if cfg.RunAddress != defaultRunAddress {
		t.Errorf("expected default run address %q, got %q", defaultRunAddress, cfg.RunAddress)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Errorf("expected memory storage, got %q", cfg.StorageDriver)
	}
	if cfg.ContractMode != ContractSimulated {
		t.Errorf("expected simulated contract, got %q", cfg.ContractMode)
	}
	if cfg.SimulatedCallDelay != defaultSimulatedCallDelay {
		t.Errorf("expected default call delay %v, got %v", defaultSimulatedCallDelay, cfg.SimulatedCallDelay)
	}
	if cfg.ChainID != 84532 || cfg.ChainIDHex() != "0x14A34" {
		t.Errorf("unexpected chain %d / %s", cfg.ChainID, cfg.ChainIDHex())
	}
	if cfg.EventsEnabled() {
		t.Error("events must be disabled without brokers")
	}
	if cfg.WorkerPoolSize != defaultWorkerPoolSize {
		t.Errorf("expected default worker pool %d, got %d", defaultWorkerPoolSize, cfg.WorkerPoolSize)
	}
	if cfg.ActionRatePerMinute != defaultActionRate || cfg.ActionRateBurst != defaultActionBurst {
		t.Errorf("unexpected action rate %v/%d", cfg.ActionRatePerMinute, cfg.ActionRateBurst)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Errorf("expected default log level %q, got %q", defaultLogLevel, cfg.LogLevel)
	}
}

func TestLoadWithFlagOverrides(t *testing.T) {
	env := map[string]string{
		"STORAGE_DRIVER":   "redis",
		"REDIS_ADDR":       "localhost:6379",
		"REDIS_DB":         "2",
		"CHAIN_ID":         "0x1",
		"WORKER_POOL_SIZE": "3",
		"KAFKA_BROKERS":    "a:9092, b:9092",
	}

	args := []string{
		"-a", ":9090",
		"-d", "postgres://override",
		"--storage", "POSTGRES",
		"--contract", "evm",
		"--rpc", "http://node:8545",
		"--shutdown-timeout", "20s",
		"--call-delay", "0s",
		"--reconcile-interval", "1m",
		"--worker-pool", "9",
		"--reconcile-batch", "11",
		"--session-secret", "flag-secret",
	}

	cfg, err := load(args, lookupFrom(env))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}

	if cfg.RunAddress != ":9090" {
		t.Errorf("expected run address :9090, got %q", cfg.RunAddress)
	}
	if cfg.StorageDriver != StoragePostgres || cfg.DatabaseURI != "postgres://override" {
		t.Errorf("unexpected storage %q %q", cfg.StorageDriver, cfg.DatabaseURI)
	}
	if cfg.ContractMode != ContractEVM || cfg.RPCURL != "http://node:8545" {
		t.Errorf("unexpected contract %q %q", cfg.ContractMode, cfg.RPCURL)
	}
	if cfg.ChainID != 1 {
		t.Errorf("expected chain id 1, got %d", cfg.ChainID)
	}
	if cfg.RedisDB != 2 {
		t.Errorf("expected redis db 2, got %d", cfg.RedisDB)
	}
	if cfg.ShutdownTimeout != 20*time.Second || cfg.SimulatedCallDelay != 0 || cfg.ReconcileInterval != time.Minute {
		t.Errorf("unexpected durations %v %v %v", cfg.ShutdownTimeout, cfg.SimulatedCallDelay, cfg.ReconcileInterval)
	}
	if cfg.WorkerPoolSize != 9 || cfg.ReconcileBatch != 11 {
		t.Errorf("unexpected worker settings %d %d", cfg.WorkerPoolSize, cfg.ReconcileBatch)
	}
	if cfg.SessionSecret != "flag-secret" {
		t.Errorf("expected session secret override, got %q", cfg.SessionSecret)
	}
	if !reflect.DeepEqual(cfg.KafkaBrokers, []string{"a:9092", "b:9092"}) || !cfg.EventsEnabled() {
		t.Errorf("unexpected brokers %v", cfg.KafkaBrokers)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{"shutdown timeout", []string{"--shutdown-timeout", "bad"}, nil, "invalid shutdown timeout"},
		{"call delay", []string{"--call-delay", "bad"}, nil, "invalid call delay"},
		{"reconcile interval", []string{"--reconcile-interval", "bad"}, nil, "invalid reconcile interval"},
		{"unknown flag", []string{"--nope"}, nil, "parse flags"},
		{"postgres dsn", nil, map[string]string{"STORAGE_DRIVER": "postgres"}, "database URI"},
		{"redis addr", nil, map[string]string{"STORAGE_DRIVER": "redis"}, "redis address"},
		{"unknown driver", nil, map[string]string{"STORAGE_DRIVER": "mongo"}, "unsupported storage driver"},
		{"unknown contract", nil, map[string]string{"CONTRACT_MODE": "mock"}, "unsupported contract mode"},
		{"evm rpc", []string{"--rpc", ""}, map[string]string{"CONTRACT_MODE": "evm"}, "rpc url"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(tc.args, lookupFrom(tc.env))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadNormalizesNonPositiveValues(t *testing.T) {
	env := map[string]string{
		"WORKER_POOL_SIZE":     "-1",
		"RECONCILE_BATCH":      "0",
		"RECONCILE_INTERVAL":   "0",
		"SHUTDOWN_TIMEOUT":     "0",
		"SIMULATED_CALL_DELAY": "-1s",
	}

	cfg, err := load(nil, lookupFrom(env))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}

	if cfg.WorkerPoolSize != defaultWorkerPoolSize {
		t.Errorf("expected default worker pool %d, got %d", defaultWorkerPoolSize, cfg.WorkerPoolSize)
	}
	if cfg.ReconcileBatch != defaultReconcileBatch {
		t.Errorf("expected default batch size %d, got %d", defaultReconcileBatch, cfg.ReconcileBatch)
	}
	if cfg.ReconcileInterval != defaultReconcileInterval {
		t.Errorf("expected default reconcile interval %v, got %v", defaultReconcileInterval, cfg.ReconcileInterval)
	}
	if cfg.ShutdownTimeout != defaultShutdownTimeout {
		t.Errorf("expected default shutdown timeout %v, got %v", defaultShutdownTimeout, cfg.ShutdownTimeout)
	}
	if cfg.SimulatedCallDelay != 0 {
		t.Errorf("expected negative delay clamped to zero, got %v", cfg.SimulatedCallDelay)
	}
}

func TestLoadReadsSecretFromFile(t *testing.T) {
	dir := t.TempDir()
	secretFile := filepath.Join(dir, "secret")
	if err := os.WriteFile(secretFile, []byte("file-secret\n"), 0o600); err != nil {
		t.Fatalf("failed to write secret file: %v", err)
	}

	cfg, err := load(nil, lookupFrom(map[string]string{"SESSION_SECRET_FILE": secretFile}))
	if err != nil {
		t.Fatalf("load returned unexpected error: %v", err)
	}
	if cfg.SessionSecret != "file-secret" {
		t.Errorf("expected secret from file, got %q", cfg.SessionSecret)
	}

	if _, err := load(nil, lookupFrom(map[string]string{"SESSION_SECRET_FILE": filepath.Join(dir, "missing")})); err == nil {
		t.Fatal("expected error for missing secret file")
	}
}
