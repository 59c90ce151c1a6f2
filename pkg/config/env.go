package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvLogFile       = "LOG_FILE"
	EnvLogMaxSizeMB  = "LOG_MAX_SIZE_MB"
	EnvLogMaxBackups = "LOG_MAX_BACKUPS"
	EnvLogMaxAgeDays = "LOG_MAX_AGE_DAYS"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvTimezone        = "TIMEZONE"
	EnvBookingAmount   = "BOOKING_AMOUNT"
	EnvBookingCurrency = "BOOKING_CURRENCY"
	EnvSlotHoldTTL     = "SLOT_HOLD_TTL"

	EnvRazorpayKeyID     = "RAZORPAY_KEY_ID"
	EnvRazorpayKeySecret = "RAZORPAY_KEY_SECRET"
	EnvRazorpayBaseURL   = "RAZORPAY_BASE_URL"

	EnvRazorpayWebhookSecret = "RAZORPAY_WEBHOOK_SECRET"

	EnvMetricsEnabled = "METRICS_ENABLED"
	EnvMetricsPath    = "METRICS_PATH"
)
