package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/example/notification-gateway/internal/common"
	"github.com/example/notification-gateway/internal/dispatch"
	"github.com/example/notification-gateway/internal/email"
	"github.com/example/notification-gateway/internal/events"
	"github.com/example/notification-gateway/internal/history"
	"github.com/example/notification-gateway/internal/notification"
	"github.com/example/notification-gateway/internal/push"
	"github.com/example/notification-gateway/internal/queue"
	"github.com/example/notification-gateway/internal/server"
	"github.com/example/notification-gateway/internal/sms"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := common.LoadConfig("gateway")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := common.NewLogger(cfg.ServiceName)
	if cfg.AuthToken == "" {
		logger.Fatal().Msg("AUTH_TOKEN must be provided")
	}

	shutdown, err := common.SetupOTel(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise telemetry")
	}
	defer common.ShutdownTelemetry(context.Background(), shutdown)

	metricsSrv := common.StartMetricsServer(cfg.MetricsPort)
	defer metricsSrv.Shutdown(context.Background())

	var sinks []dispatch.AttemptSink

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect postgres")
		}
		defer pool.Close()
		sinks = append(sinks, history.NewPostgresRecorder(pool))
	}

	if len(cfg.KafkaBrokers) > 0 {
		writer := &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBrokers...),
			Topic:    cfg.DeliveryEventsTopic,
			Balancer: &kafka.Hash{},
		}
		defer writer.Close()
		sinks = append(sinks, &events.Publisher{Writer: writer})
	}

	var gateway *queue.Gateway
	if cfg.SQSQueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Fatal().Err(err).Msg("load aws config")
		}
		gateway = &queue.Gateway{
			Client:       sqs.NewFromConfig(awsCfg),
			QueueURL:     cfg.SQSQueueURL,
			DelaySeconds: int32(cfg.SQSDelaySeconds),
		}
	}

	orchestrator := &dispatch.Orchestrator{
		Router: buildRouter(cfg, logger),
		Sinks:  sinks,
		Logger: logger,
	}
	if gateway != nil {
		orchestrator.Queue = gateway
	}

	srv := &http.Server{
		Addr: ":" + strconv.Itoa(cfg.HTTPPort),
		Handler: (&server.Server{
			Processor: orchestrator,
			AuthToken: cfg.AuthToken,
			Logger:    logger,
		}).Router(),
	}

	go func() {
		logger.Info().Int("port", cfg.HTTPPort).Msg("notification gateway listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func buildRouter(cfg *common.Config, logger zerolog.Logger) *dispatch.Router {
	r := dispatch.NewRouter()
	r.Register(notification.ChannelEmail, notification.ProviderSMTP, &email.SMTPProvider{Config: cfg.SMTP})
	r.Register(notification.ChannelEmail, notification.ProviderSendGrid, &email.SendGridProvider{Config: cfg.SendGrid})
	r.Register(notification.ChannelSMS, notification.ProviderTwilio, &sms.TwilioProvider{Config: cfg.Twilio})

	if cfg.Firebase.CredentialsFile == "" {
		logger.Warn().Msg("FIREBASE_CREDENTIALS_FILE not set, push delivery disabled")
		return r
	}
	fcm, err := push.NewFCMProvider(cfg.Firebase)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise firebase provider")
	}
	r.Register(notification.ChannelPush, notification.ProviderFirebase, fcm)
	return r
}
