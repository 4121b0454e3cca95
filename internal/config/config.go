// Package config loads the settings shared by the cart binaries.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
)

const (
	EnvPrefix         = "CART_"
	DefaultConfigFile = "config.yaml"
	DefaultEnvFile    = ".env"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverDynamoDB = "dynamodb"
)

type Config struct {
	Namespace string        `koanf:"namespace" validate:"required"`
	Log       LogConfig     `koanf:"log"`
	Cart      CartConfig    `koanf:"cart"`
	Shop      ShopConfig    `koanf:"shop"`
	Storage   StorageConfig `koanf:"storage"`
	Kafka     KafkaConfig   `koanf:"kafka"`
	Server    ServerConfig  `koanf:"server"`
	Catalog   CatalogConfig `koanf:"catalog"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

type CartConfig struct {
	StrictFirstAdd bool `koanf:"strict_first_add"`
}

// ShopConfig points at the catalog/stock upstream
type ShopConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
	Breaker BreakerConfig `koanf:"breaker"`
}

type BreakerConfig struct {
	ConsecutiveFailures uint32        `koanf:"consecutive_failures"`
	OpenTimeout         time.Duration `koanf:"open_timeout" validate:"gte=0"`
}

type StorageConfig struct {
	Driver string `koanf:"driver" validate:"oneof=memory file postgres redis dynamodb"`

	Path string `koanf:"path" validate:"required_if=Driver file"`

	PostgresURL string `koanf:"postgres_url" validate:"required_if=Driver postgres"`

	RedisAddr     string `koanf:"redis_addr" validate:"required_if=Driver redis"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db" validate:"gte=0"`

	DynamoTable    string `koanf:"dynamo_table" validate:"required_if=Driver dynamodb"`
	DynamoRegion   string `koanf:"dynamo_region"`
	DynamoEndpoint string `koanf:"dynamo_endpoint"`
}

// KafkaConfig enables the cart activity stream when Brokers is set
type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic" validate:"required_with=Brokers"`
	GroupID string   `koanf:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

type CatalogConfig struct {
	Addr string `koanf:"addr" validate:"required"`
	// Seed is a db.json path; empty uses the built-in catalog
	Seed string `koanf:"seed"`
}

func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "namespace=%s log.level=%s log.format=%s", c.Namespace, c.Log.Level, c.Log.Format)
	fmt.Fprintf(&b, " cart.strict_first_add=%t", c.Cart.StrictFirstAdd)
	fmt.Fprintf(&b, " shop.base_url=%s shop.timeout=%v", c.Shop.BaseURL, c.Shop.Timeout)
	fmt.Fprintf(&b, " storage.driver=%s", c.Storage.Driver)
	switch c.Storage.Driver {
	case DriverFile:
		fmt.Fprintf(&b, " storage.path=%s", c.Storage.Path)
	case DriverPostgres:
		fmt.Fprintf(&b, " storage.postgres_url=%s", maskURL(c.Storage.PostgresURL))
	case DriverRedis:
		fmt.Fprintf(&b, " storage.redis_addr=%s", maskURL(c.Storage.RedisAddr))
	case DriverDynamoDB:
		fmt.Fprintf(&b, " storage.dynamo_table=%s", c.Storage.DynamoTable)
	}
	if c.Kafka.Enabled() {
		fmt.Fprintf(&b, " kafka.brokers=%s kafka.topic=%s", strings.Join(c.Kafka.Brokers, ","), c.Kafka.Topic)
	}
	return b.String()
}

func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	return url
}

func defaults() map[string]any {
	return map[string]any{
		"namespace":                         "@RocketShoes",
		"log.level":                         "info",
		"log.format":                        "text",
		"cart.strict_first_add":             false,
		"shop.base_url":                     "http://localhost:3333",
		"shop.timeout":                      "0s",
		"shop.breaker.consecutive_failures": 0,
		"shop.breaker.open_timeout":         "30s",
		"storage.driver":                    DriverFile,
		"storage.path":                      "rocketshoes-cart.json",
		"kafka.topic":                       "cart-events",
		"kafka.group_id":                    "cartwatch",
		"server.addr":                       ":8080",
		"server.read_timeout":               "10s",
		"server.write_timeout":              "10s",
		"server.idle_timeout":               "60s",
		"server.shutdown_timeout":           "10s",
		"catalog.addr":                      ":3333",
	}
}

// Load reads defaults, then configFile (yaml), then envFile, then the process
// environment. Later layers win. Missing files are skipped.
func Load(configFile, envFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	// 1. yaml file
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("error loading YAML config file '%s': %w", configFile, err)
			}
		}
	}

	// 2. .env file, only CART_ keys
	if envFile != "" {
		if envFileMap, err := godotenv.Read(envFile); err == nil {
			envMap := make(map[string]any)
			for key, value := range envFileMap {
				if strings.HasPrefix(strings.ToUpper(key), EnvPrefix) {
					envMap[keyTransformer(key)] = value
				}
			}
			if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
				logrus.WithError(err).Warn("Error loading .env config")
			}
		} else if !os.IsNotExist(err) {
			logrus.WithError(err).Warn("Error reading .env file")
		}
	}

	// 3. process environment, the highest priority
	if err := k.Load(env.Provider(EnvPrefix, ".", keyTransformer), nil); err != nil {
		logrus.WithError(err).Warn("Error loading env vars")
	}

	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			WeaklyTypedInput: true,
			Result:           &cfg,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// keyTransformer maps CART_SHOP__BASE_URL to shop.base_url
func keyTransformer(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, strings.ToLower(EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
