package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"

	"github.com/goliatone/go-catalog-cache/cache"
)

// EnvPrefix prefixes every environment override, e.g. CATALOG_HTTP_ADDR.
const EnvPrefix = "CATALOG"

// IndexBackend selects the index implementation.
type IndexBackend string

const (
	IndexElastic IndexBackend = "elastic"
	IndexMemory  IndexBackend = "memory"
)

type Config struct {
	ProjectName string        `mapstructure:"project_name"`
	LogLevel    string        `mapstructure:"log_level"`
	HTTP        HTTPConfig    `mapstructure:"http"`
	Redis       RedisConfig   `mapstructure:"redis"`
	Elastic     ElasticConfig `mapstructure:"elastic"`
	Cache       CacheConfig   `mapstructure:"cache"`
	Index       IndexConfig   `mapstructure:"index"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type ElasticConfig struct {
	Scheme         string        `mapstructure:"scheme"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// URL returns the node address.
func (e ElasticConfig) URL() string {
	return fmt.Sprintf("%s://%s:%d", e.Scheme, e.Host, e.Port)
}

type CacheConfig struct {
	Backend            string        `mapstructure:"backend"`
	TTL                time.Duration `mapstructure:"ttl"`
	Prefix             string        `mapstructure:"prefix"`
	QueryTimeout       time.Duration `mapstructure:"query_timeout"`
	Capacity           int           `mapstructure:"capacity"`
	NumShards          int           `mapstructure:"num_shards"`
	EvictionPercentage int           `mapstructure:"eviction_percentage"`
	EvictionInterval   time.Duration `mapstructure:"eviction_interval"`
}

// Store converts the section to the cache package configuration.
func (c CacheConfig) Store() cache.Config {
	return cache.Config{
		Backend:            cache.Backend(c.Backend),
		TTL:                c.TTL,
		Prefix:             c.Prefix,
		QueryTimeout:       c.QueryTimeout,
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

type IndexConfig struct {
	Backend IndexBackend `mapstructure:"backend"`
	// SeedFile is a JSON document {"movies": [...], "genres": [...],
	// "persons": [...]} loaded into the memory backend at startup.
	SeedFile string `mapstructure:"seed_file"`
}

// Load reads configuration from defaults, an optional catalog.yaml and the
// environment, in increasing priority. path overrides the file search.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("catalog")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/catalog/")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "config: read")
		}
		// No file; defaults and environment only.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config: invalid")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("project_name", "movies")
	v.SetDefault("log_level", "info")

	v.SetDefault("http.addr", ":8000")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.shutdown_timeout", 15*time.Second)

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("elastic.scheme", "http")
	v.SetDefault("elastic.host", "127.0.0.1")
	v.SetDefault("elastic.port", 9200)
	v.SetDefault("elastic.request_timeout", 5*time.Second)

	defaults := cache.DefaultConfig()
	v.SetDefault("cache.backend", string(defaults.Backend))
	v.SetDefault("cache.ttl", defaults.TTL)
	v.SetDefault("cache.prefix", "")
	v.SetDefault("cache.query_timeout", defaults.QueryTimeout)
	v.SetDefault("cache.capacity", defaults.Capacity)
	v.SetDefault("cache.num_shards", defaults.NumShards)
	v.SetDefault("cache.eviction_percentage", defaults.EvictionPercentage)
	v.SetDefault("cache.eviction_interval", defaults.EvictionInterval)

	v.SetDefault("index.backend", string(IndexElastic))
	v.SetDefault("index.seed_file", "")
}

// bindLegacyEnv accepts the unprefixed variable names deployments already
// set, next to the prefixed ones.
func bindLegacyEnv(v *viper.Viper) error {
	legacy := map[string]string{
		"project_name": "PROJECT_NAME",
		"redis.host":   "REDIS_HOST",
		"redis.port":   "REDIS_PORT",
		"elastic.host": "ELASTIC_HOST",
		"elastic.port": "ELASTIC_PORT",
	}
	for key, env := range legacy {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return errors.Wrapf(err, "config: bind %s", env)
		}
	}
	return nil
}

// Validate checks the loaded configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.LogLevel, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.HTTP),
		validation.Field(&c.Redis, validation.Skip.When(c.Cache.Backend != string(cache.BackendRedis))),
		validation.Field(&c.Elastic, validation.Skip.When(c.Index.Backend != IndexElastic)),
		validation.Field(&c.Cache),
		validation.Field(&c.Index),
	)
}

func (h HTTPConfig) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Addr, validation.Required),
		validation.Field(&h.ReadTimeout, validation.Min(time.Duration(0))),
		validation.Field(&h.WriteTimeout, validation.Min(time.Duration(0))),
		validation.Field(&h.ShutdownTimeout, validation.Required, validation.Min(time.Second)),
	)
}

func (r RedisConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Host, validation.Required, is.Host),
		validation.Field(&r.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&r.DB, validation.Min(0)),
	)
}

func (e ElasticConfig) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Scheme, validation.Required, validation.In("http", "https")),
		validation.Field(&e.Host, validation.Required, is.Host),
		validation.Field(&e.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&e.RequestTimeout, validation.Min(time.Duration(0))),
	)
}

func (c CacheConfig) Validate() error {
	return c.Store().Validate()
}

func (i IndexConfig) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Backend, validation.Required, validation.In(IndexElastic, IndexMemory)),
	)
}
