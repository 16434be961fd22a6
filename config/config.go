package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Node roles.
const (
	RoleFI          = "fi"
	RoleCentralBank = "central_bank"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Node        NodeConfig        `mapstructure:"node"`
	CentralBank CentralBankConfig `mapstructure:"central_bank"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	AES         AESConfig         `mapstructure:"aes"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Compliance  ComplianceConfig  `mapstructure:"compliance"`
	Proof       ProofConfig       `mapstructure:"proof"`
	Sync        SyncConfig        `mapstructure:"sync"`
	Remote      RemoteConfig      `mapstructure:"remote"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// NodeConfig identifies this process inside the settlement network.
type NodeConfig struct {
	Role      string `mapstructure:"role"` // fi, central_bank
	ID        string `mapstructure:"id"`
	Name      string `mapstructure:"name"`
	PublicURL string `mapstructure:"public_url"`
}

// IsCentralBank reports whether this node runs the central bank role.
func (n NodeConfig) IsCentralBank() bool {
	return n.Role == RoleCentralBank
}

// CentralBankConfig is used by FI nodes to reach the central bank.
type CentralBankConfig struct {
	URL          string `mapstructure:"url"`
	NodeID       string `mapstructure:"node_id"`
	SharedSecret string `mapstructure:"shared_secret"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// MigrateURL returns the DSN in the scheme expected by the migrate pgx/v5 driver.
func (d DatabaseConfig) MigrateURL() string {
	return "pgx5" + strings.TrimPrefix(d.DSN(), "postgres")
}

// StorageConfig selects the backends behind the ledger ports.
type StorageConfig struct {
	Driver           string `mapstructure:"driver"`            // postgres, memory
	NullifierBackend string `mapstructure:"nullifier_backend"` // postgres, redis, memory
	SyncLock         string `mapstructure:"sync_lock"`         // redis, local
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type AESConfig struct {
	Key string `mapstructure:"key"` // 32-byte hex-encoded key for AES-256
}

// AuthConfig holds the operator credential. The password is stored as an
// Argon2id PHC string, never in plaintext.
type AuthConfig struct {
	OperatorUsername     string `mapstructure:"operator_username"`
	OperatorPasswordHash string `mapstructure:"operator_password_hash"`
}

// ComplianceConfig holds every spending ceiling enforced by the compliance engine.
type ComplianceConfig struct {
	SingleTxLimit                 int64 `mapstructure:"single_tx_limit"`
	DailyLimit                    int64 `mapstructure:"daily_limit"`
	MonthlyLimit                  int64 `mapstructure:"monthly_limit"`
	OfflineTxLimit                int64 `mapstructure:"offline_tx_limit"`
	OfflineDailyCount             int   `mapstructure:"offline_daily_count"`
	IoTDeviceLimit                int64 `mapstructure:"iot_device_limit"`
	SubWalletBalanceCeiling       int64 `mapstructure:"subwallet_balance_ceiling"`
	DefaultSubWalletSpendingLimit int64 `mapstructure:"default_subwallet_spending_limit"`
}

type ProofConfig struct {
	MaxClockSkew time.Duration `mapstructure:"max_clock_skew"`
	MaxAge       time.Duration `mapstructure:"max_age"` // 0 disables the age check
}

type SyncConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Interval    time.Duration `mapstructure:"interval"`
	Concurrency int           `mapstructure:"concurrency"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"`
	BatchSize   int           `mapstructure:"batch_size"`
}

type RemoteConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRetries       int           `mapstructure:"max_retries"`
	Backoff          time.Duration `mapstructure:"backoff"`
	BreakerThreshold int           `mapstructure:"breaker_threshold"`
	BreakerCooldown  time.Duration `mapstructure:"breaker_cooldown"`
	SignatureWindow  time.Duration `mapstructure:"signature_window"`
}

type RateLimitConfig struct {
	Limit  int64         `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: CBDC_.
// Nested keys use underscore: CBDC_NODE_ROLE, CBDC_COMPLIANCE_DAILY_LIMIT, etc.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("CBDC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A config file is optional; env vars can suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("node.role", RoleFI)
	v.SetDefault("node.id", "FI-001")
	v.SetDefault("node.name", "Default FI")
	v.SetDefault("node.public_url", "http://localhost:8080")

	v.SetDefault("central_bank.url", "http://localhost:9000")
	v.SetDefault("central_bank.node_id", "CB")
	v.SetDefault("central_bank.shared_secret", "")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "cbdc_settlement")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("storage.nullifier_backend", "postgres")
	v.SetDefault("storage.sync_lock", "redis")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "12h")
	v.SetDefault("jwt.issuer", "cbdc-settlement")
	v.SetDefault("aes.key", "")
	v.SetDefault("auth.operator_username", "operator")
	v.SetDefault("auth.operator_password_hash", "")

	v.SetDefault("compliance.single_tx_limit", 50000)
	v.SetDefault("compliance.daily_limit", 200000)
	v.SetDefault("compliance.monthly_limit", 1000000)
	v.SetDefault("compliance.offline_tx_limit", 10000)
	v.SetDefault("compliance.offline_daily_count", 20)
	v.SetDefault("compliance.iot_device_limit", 5000)
	v.SetDefault("compliance.subwallet_balance_ceiling", 10000)
	v.SetDefault("compliance.default_subwallet_spending_limit", 1000)

	v.SetDefault("proof.max_clock_skew", "5m")
	v.SetDefault("proof.max_age", "720h")

	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.interval", "30s")
	v.SetDefault("sync.concurrency", 8)
	v.SetDefault("sync.lock_ttl", "2m")
	v.SetDefault("sync.batch_size", 100)

	v.SetDefault("remote.timeout", "5s")
	v.SetDefault("remote.max_retries", 3)
	v.SetDefault("remote.backoff", "200ms")
	v.SetDefault("remote.breaker_threshold", 5)
	v.SetDefault("remote.breaker_cooldown", "30s")
	v.SetDefault("remote.signature_window", "5m")

	v.SetDefault("ratelimit.limit", 100)
	v.SetDefault("ratelimit.window", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// Validate rejects configurations that cannot run a node.
func (c *Config) Validate() error {
	switch c.Node.Role {
	case RoleFI, RoleCentralBank:
	default:
		return fmt.Errorf("invalid node.role %q", c.Node.Role)
	}
	if c.Node.ID == "" {
		return fmt.Errorf("node.id is required")
	}
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("invalid storage.driver %q", c.Storage.Driver)
	}
	switch c.Storage.NullifierBackend {
	case "postgres", "redis", "memory":
	default:
		return fmt.Errorf("invalid storage.nullifier_backend %q", c.Storage.NullifierBackend)
	}
	if c.Storage.Driver == "memory" && c.Storage.NullifierBackend == "postgres" {
		return fmt.Errorf("storage.nullifier_backend postgres requires storage.driver postgres")
	}
	switch c.Storage.SyncLock {
	case "redis", "local":
	default:
		return fmt.Errorf("invalid storage.sync_lock %q", c.Storage.SyncLock)
	}
	if c.Compliance.SingleTxLimit <= 0 || c.Compliance.DailyLimit <= 0 || c.Compliance.MonthlyLimit <= 0 {
		return fmt.Errorf("compliance limits must be positive")
	}
	if c.Compliance.DefaultSubWalletSpendingLimit > c.Compliance.SubWalletBalanceCeiling {
		return fmt.Errorf("compliance.default_subwallet_spending_limit exceeds subwallet_balance_ceiling")
	}
	if c.Sync.Concurrency <= 0 {
		c.Sync.Concurrency = 1
	}
	return nil
}
