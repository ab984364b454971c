package common

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "METRICS_PORT", "SQS_DELAY_SECONDS", "SMTP_ENCRYPTION", "KAFKA_BROKERS"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig("gateway")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServiceName != "gateway" {
		t.Fatalf("service name = %q", cfg.ServiceName)
	}
	if cfg.HTTPPort != 8080 || cfg.MetricsPort != 9080 {
		t.Fatalf("ports = %d/%d, expected 8080/9080", cfg.HTTPPort, cfg.MetricsPort)
	}
	if cfg.SQSDelaySeconds != 10 {
		t.Fatalf("sqs delay = %d, expected 10", cfg.SQSDelaySeconds)
	}
	if cfg.SMTP.Encryption != "starttls" {
		t.Fatalf("smtp encryption = %q", cfg.SMTP.Encryption)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("brokers = %v, expected none", cfg.KafkaBrokers)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("METRICS_PORT", "7777")
	t.Setenv("AUTH_TOKEN", "topsecret")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig("gateway")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPPort != 9999 || cfg.MetricsPort != 7777 {
		t.Fatalf("ports = %d/%d", cfg.HTTPPort, cfg.MetricsPort)
	}
	if cfg.AuthToken != "topsecret" {
		t.Fatalf("auth token = %q", cfg.AuthToken)
	}
	if len(cfg.KafkaBrokers) != 2 {
		t.Fatalf("brokers = %v", cfg.KafkaBrokers)
	}
}

func TestLoadConfigRejectsBadInt(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")
	if _, err := LoadConfig("gateway"); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}
