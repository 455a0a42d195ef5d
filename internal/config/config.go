package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// VideoUploadTimeout bounds the long-running video upload route only.
	VideoUploadTimeout time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	// RootFolder prefixes every category folder inside the bucket.
	RootFolder string
	UseSSL     bool
	Region     string
	// PublicBaseURL overrides the endpoint-derived URL when the host serves
	// assets from a CDN domain.
	PublicBaseURL string
}

type SecurityConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type UploadConfig struct {
	MaxImageBytes int64
	MaxVideoBytes int64
	// Compression bounds for oversized images.
	MaxPixelDimension int
	JPEGStartQuality  int
	JPEGQualityStep   int
	JPEGQualityFloor  int
}

type JobsConfig struct {
	Enabled       bool
	SweepSchedule string
	Stream        string
	Group         string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Upload           UploadConfig
	Jobs             JobsConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("PEYS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ErrMisconfigured marks configuration gaps an operator has to fix. Handlers
// translate it into a "server misconfigured" response instead of a generic
// failure.
var ErrMisconfigured = errors.New("server misconfigured")

// Validate checks the settings the upload pipeline cannot run without.
func (c *AppConfig) Validate() error {
	var missing []string
	if c.Storage.Endpoint == "" {
		missing = append(missing, "storage.endpoint")
	}
	if c.Storage.AccessKey == "" {
		missing = append(missing, "storage.accesskey")
	}
	if c.Storage.SecretKey == "" {
		missing = append(missing, "storage.secretkey")
	}
	if c.Postgres.DSN == "" {
		missing = append(missing, "postgres.dsn")
	}
	if c.Security.JWTSecret == "" {
		missing = append(missing, "security.jwtsecret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMisconfigured, strings.Join(missing, ", "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "60s")
	v.SetDefault("http.writetimeout", "60s")
	v.SetDefault("http.idletimeout", "60s")
	v.SetDefault("http.videouploadtimeout", "300s")

	// Empty defaults register the keys so env-only values survive Unmarshal.
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.publicbaseurl", "")
	v.SetDefault("security.jwtsecret", "")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.bucket", "peysphotos-media")
	v.SetDefault("storage.rootfolder", "peysphotos")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.accessttl", "15m")
	v.SetDefault("security.refreshttl", "720h")

	v.SetDefault("upload.maximagebytes", 10<<20)
	v.SetDefault("upload.maxvideobytes", 100<<20)
	v.SetDefault("upload.maxpixeldimension", 2000)
	v.SetDefault("upload.jpegstartquality", 85)
	v.SetDefault("upload.jpegqualitystep", 10)
	v.SetDefault("upload.jpegqualityfloor", 40)

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.sweepschedule", "0 0 3 * * *") // daily, off-peak
	v.SetDefault("jobs.stream", "media:reconcile")
	v.SetDefault("jobs.group", "reconcilers")
}
