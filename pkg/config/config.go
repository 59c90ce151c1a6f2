package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"time"

	"mentorbook/pkg/client"
	"mentorbook/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Timezone is the single locale every booking date is normalised in.
	Timezone        string
	Location        *time.Location
	BookingAmount   int64
	BookingCurrency string
	SlotHoldTTL     time.Duration

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
	// RazorpayWebhookSecret enables the payment webhook route when set.
	RazorpayWebhookSecret string

	MetricsEnabled bool
	MetricsPath    string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	envErr := godotenv.Load(".env")

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Timezone:        getEnvStr(EnvTimezone, DefaultTimezone),
		BookingAmount:   int64(getEnvNum(EnvBookingAmount, DefaultBookingAmount)),
		BookingCurrency: getEnvStr(EnvBookingCurrency, DefaultBookingCurrency),
		SlotHoldTTL:     getEnvDuration(EnvSlotHoldTTL, DefaultSlotHoldTTL),

		RazorpayKeyID:     getEnvStr(EnvRazorpayKeyID, ""),
		RazorpayKeySecret: getEnvStr(EnvRazorpayKeySecret, ""),
		RazorpayBaseURL:   getEnvStr(EnvRazorpayBaseURL, DefaultRazorpayBaseURL),

		RazorpayWebhookSecret: getEnvStr(EnvRazorpayWebhookSecret, ""),

		MetricsEnabled: getEnvBool(EnvMetricsEnabled, DefaultMetricsEnabled),
		MetricsPath:    getEnvStr(EnvMetricsPath, DefaultMetricsPath),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
			File: &logger.FileConfig{
				Path:       getEnvStr(EnvLogFile, ""),
				MaxSizeMB:  getEnvNum(EnvLogMaxSizeMB, DefaultLogMaxSizeMB),
				MaxBackups: getEnvNum(EnvLogMaxBackups, DefaultLogMaxBackups),
				MaxAgeDays: getEnvNum(EnvLogMaxAgeDays, DefaultLogMaxAgeDays),
				Compress:   true,
			},
		}),
		Client: client.NewClient(),
	}

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		cfg.Log.Warn("Failed to load .env file, using environment only", "error", envErr)
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// PaymentsConfigured reports whether gateway credentials are present.
func (cfg *Config) PaymentsConfigured() bool {
	return cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != ""
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if loc, err := time.LoadLocation(cfg.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("Timezone must be a valid IANA zone, got: %s", cfg.Timezone))
	} else {
		cfg.Location = loc
	}
	if cfg.BookingAmount <= 0 {
		errors = append(errors, fmt.Sprintf("BookingAmount must be positive, got: %d", cfg.BookingAmount))
	}
	if len(cfg.BookingCurrency) != 3 {
		errors = append(errors, fmt.Sprintf("BookingCurrency must be an ISO 4217 code, got: %s", cfg.BookingCurrency))
	}
	if cfg.SlotHoldTTL <= 0 {
		errors = append(errors, fmt.Sprintf("SlotHoldTTL must be positive, got: %s", cfg.SlotHoldTTL))
	}
	if (cfg.RazorpayKeyID == "") != (cfg.RazorpayKeySecret == "") {
		errors = append(errors, "RazorpayKeyID and RazorpayKeySecret must be set together")
	}
	if cfg.MetricsEnabled && (cfg.MetricsPath == "" || cfg.MetricsPath[0] != '/') {
		errors = append(errors, fmt.Sprintf("MetricsPath must start with '/', got: %q", cfg.MetricsPath))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"timezone", cfg.Timezone,
		"booking_amount", cfg.BookingAmount,
		"booking_currency", cfg.BookingCurrency,
		"slot_hold_ttl", cfg.SlotHoldTTL,
		"payments_configured", cfg.PaymentsConfigured(),
		"payment_webhook_enabled", cfg.RazorpayWebhookSecret != "",
		"metrics_enabled", cfg.MetricsEnabled,
		"metrics_path", cfg.MetricsPath,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown(ctx context.Context) {
	if err := cfg.Client.GracefulShutdown(ctx); err != nil {
		cfg.Log.Error("Failed to disconnect from MongoDB", "error", err)
	}
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
