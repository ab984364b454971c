package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog"

	"github.com/example/notification-gateway/internal/common"
	"github.com/example/notification-gateway/internal/dispatch"
	"github.com/example/notification-gateway/internal/email"
	"github.com/example/notification-gateway/internal/notification"
	"github.com/example/notification-gateway/internal/push"
	"github.com/example/notification-gateway/internal/queue"
	"github.com/example/notification-gateway/internal/sms"
	"github.com/example/notification-gateway/internal/worker"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := common.LoadConfig("queue-worker")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := common.NewLogger(cfg.ServiceName)
	if cfg.SQSQueueURL == "" {
		logger.Fatal().Msg("SQS_QUEUE_URL must be provided")
	}

	shutdown, err := common.SetupOTel(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise telemetry")
	}
	defer common.ShutdownTelemetry(context.Background(), shutdown)

	metricsSrv := common.StartMetricsServer(cfg.MetricsPort)
	defer metricsSrv.Shutdown(context.Background())

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Fatal().Err(err).Msg("load aws config")
	}

	w := worker.Worker{
		Queue: &queue.Gateway{
			Client:   sqs.NewFromConfig(awsCfg),
			QueueURL: cfg.SQSQueueURL,
		},
		Router: buildRouter(cfg, logger),
		Logger: logger,
	}

	logger.Info().Msg("queue worker started")
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal().Err(err).Msg("queue worker stopped")
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
