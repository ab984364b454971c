package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPPort    int
	MetricsPort int
	AuthToken   string

	DatabaseURL         string
	KafkaBrokers        []string
	DeliveryEventsTopic string
	OTLPEndpoint        string
	ServiceName         string

	AWSRegion       string
	SQSQueueURL     string
	SQSDelaySeconds int

	SMTP     SMTPConfig
	SendGrid SendGridConfig
	Twilio   TwilioConfig
	Firebase FirebaseConfig
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Encryption string
}

type SendGridConfig struct {
	Endpoint string
	APIKey   string
	Sender   string
}

type TwilioConfig struct {
	Endpoint   string
	AccountSID string
	AuthToken  string
	FromNumber string
}

type FirebaseConfig struct {
	Endpoint        string
	ProjectID       string
	CredentialsFile string
}

func LoadConfig(service string) (*Config, error) {
	cfg := &Config{ServiceName: service}

	httpPort, err := getEnvInt("HTTP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.HTTPPort = httpPort

	metricsPort, err := getEnvInt("METRICS_PORT", httpPort+1000)
	if err != nil {
		return nil, err
	}
	cfg.MetricsPort = metricsPort

	cfg.AuthToken = os.Getenv("AUTH_TOKEN")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.OTLPEndpoint = os.Getenv("OTLP_ENDPOINT")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	cfg.DeliveryEventsTopic = getEnv("DELIVERY_EVENTS_TOPIC", "delivery.events")

	cfg.AWSRegion = getEnv("AWS_REGION", "us-east-1")
	cfg.SQSQueueURL = os.Getenv("SQS_QUEUE_URL")
	delay, err := getEnvInt("SQS_DELAY_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	cfg.SQSDelaySeconds = delay

	smtpPort, err := getEnvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	cfg.SMTP = SMTPConfig{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       smtpPort,
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		From:       os.Getenv("DEFAULT_FROM_EMAIL"),
		Encryption: getEnv("SMTP_ENCRYPTION", "starttls"),
	}

	cfg.SendGrid = SendGridConfig{
		Endpoint: getEnv("SENDGRID_ENDPOINT", "https://api.sendgrid.com"),
		APIKey:   os.Getenv("SENDGRID_API_KEY"),
		Sender:   os.Getenv("SENDGRID_SENDER_EMAIL"),
	}

	cfg.Twilio = TwilioConfig{
		Endpoint:   getEnv("TWILIO_ENDPOINT", "https://api.twilio.com"),
		AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		FromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
	}

	cfg.Firebase = FirebaseConfig{
		Endpoint:        getEnv("FCM_ENDPOINT", "https://fcm.googleapis.com"),
		ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		CredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		return parsed, nil
	}
	return fallback, nil
}
