package main

import (
	"context"

	blackouthandler "mentorbook/internal/blackouts/handler"
	blackoutrepo "mentorbook/internal/blackouts/repository"
	blackoutservice "mentorbook/internal/blackouts/service"
	blackoutvalidator "mentorbook/internal/blackouts/validator"
	"mentorbook/internal/bookings/handler"
	"mentorbook/internal/bookings/repository"
	"mentorbook/internal/bookings/service"
	"mentorbook/internal/bookings/validator"
	"mentorbook/internal/events"
	mentorhandler "mentorbook/internal/mentors/handler"
	mentorrepo "mentorbook/internal/mentors/repository"
	mentorservice "mentorbook/internal/mentors/service"
	mentorvalidator "mentorbook/internal/mentors/validator"
	"mentorbook/internal/payments/gateway"
	paymenthandler "mentorbook/internal/payments/handler"
	paymentrepo "mentorbook/internal/payments/repository"
	paymentservice "mentorbook/internal/payments/service"
	paymentvalidator "mentorbook/internal/payments/validator"
	"mentorbook/pkg/app"
	"mentorbook/pkg/config"
	"mentorbook/pkg/contracts"
	"mentorbook/pkg/kafka"
	kafka_config "mentorbook/pkg/kafka/config"
	kafka_middleware "mentorbook/pkg/kafka/middleware"
	"mentorbook/pkg/locale"

	"github.com/prometheus/client_golang/prometheus"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(cfg.GracefulShutdown)

	publisher := initPublisher(cfg, serverApp)
	handlers := initHandlers(cfg, publisher, serverApp.Registry())

	serverApp.SetApp(handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log), handlers...)
	serverApp.Run()
}

func initPublisher(cfg *config.Config, serverApp *app.Application) service.EventPublisher {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled {
		cfg.Log.Warn("Kafka disabled, booking events will be dropped")
		return events.NewNoopPublisher(cfg.Log)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log, kafkaCfg.BookingEventsTopic, kafkaCfg.BookingEventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware(kafka_middleware.NewMetrics(serverApp.Registry(), app.MetricsNamespace)))
	}
	serverApp.OnShutdown(func(context.Context) {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	return events.NewKafkaPublisher(producer, ServiceName, cfg.Log)
}

func initHandlers(cfg *config.Config, publisher service.EventPublisher, reg prometheus.Registerer) []contracts.Handler {
	loc := locale.New(cfg.Location)

	mentorRepo := mentorrepo.NewMongoMentorRepository(cfg)
	mentorService := mentorservice.NewMentorService(mentorRepo, mentorvalidator.NewMentorValidator(cfg.Log), cfg)

	blackoutRepo := blackoutrepo.NewMongoBlackoutRepository(cfg)
	blackoutService := blackoutservice.NewBlackoutService(blackoutRepo, blackoutvalidator.NewBlackoutValidator(cfg.Log), cfg)

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	holdRepo := repository.NewMongoSlotHoldRepository(cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		mentorRepo,
		blackoutRepo,
		publisher,
		validator.NewBookingValidator(cfg.Log),
		service.NewMetrics(reg, app.MetricsNamespace),
		cfg,
	)
	availabilityService := service.NewAvailabilityService(bookingRepo, holdRepo, blackoutRepo, cfg)
	analyticsService := service.NewAnalyticsService(repository.NewMongoAnalyticsRepository(cfg), mentorRepo, cfg)

	var paymentGateway paymentservice.Gateway
	if cfg.PaymentsConfigured() {
		paymentGateway = gateway.NewRazorpayGateway(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	} else {
		cfg.Log.Warn("Payment gateway not configured, order creation will return 503")
	}
	paymentService := paymentservice.NewPaymentService(
		paymentrepo.NewMongoPaymentRepository(cfg),
		holdRepo,
		bookingRepo,
		bookingService,
		mentorRepo,
		blackoutRepo,
		paymentGateway,
		paymentvalidator.NewPaymentValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName, "timezone", cfg.Timezone)
	return []contracts.Handler{
		handler.NewBookingHandler(bookingService, availabilityService, analyticsService, loc, cfg.Log),
		mentorhandler.NewMentorHandler(mentorService, cfg.Log),
		blackouthandler.NewBlackoutHandler(blackoutService, cfg.Log),
		paymenthandler.NewPaymentHandler(paymentService, cfg.RazorpayWebhookSecret, cfg.Log),
	}
}
