package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "mentorbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultLogMaxSizeMB  = 100
	DefaultLogMaxBackups = 5
	DefaultLogMaxAgeDays = 28

	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = 15 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultTimezone        = "Asia/Kolkata"
	DefaultBookingAmount   = 200
	DefaultBookingCurrency = "INR"
	DefaultSlotHoldTTL     = 10 * time.Minute

	DefaultRazorpayBaseURL = "https://api.razorpay.com/v1"

	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"

	DefaultPaginationLimit = 100
)
