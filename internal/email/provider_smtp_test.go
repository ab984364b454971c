package email

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/wneessen/go-mail"

	"github.com/example/notification-gateway/internal/common"
	"github.com/example/notification-gateway/internal/notification"
)

func TestSMTPBuildMessage(t *testing.T) {
	provider := &SMTPProvider{Config: common.SMTPConfig{From: "noreply@example.com"}}
	item := &notification.EmailItem{
		To:      []string{"dest@example.com"},
		CC:      []string{"copy@example.com"},
		Subject: "Welcome",
		Message: "<p>Hello</p>",
	}

	msg, err := provider.buildMessage(item, nil)
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("render message: %v", err)
	}
	rendered := buf.String()
	for _, want := range []string{"dest@example.com", "copy@example.com", "Welcome", "noreply@example.com"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("rendered message missing %q:\n%s", want, rendered)
		}
	}
}

func TestSMTPBuildMessageRejectsBadAddress(t *testing.T) {
	provider := &SMTPProvider{Config: common.SMTPConfig{From: "noreply@example.com"}}
	item := &notification.EmailItem{To: []string{"not an address"}}

	if _, err := provider.buildMessage(item, nil); err == nil {
		t.Fatal("expected error for malformed recipient")
	}
}

func TestSMTPRejectsNonEmailItem(t *testing.T) {
	provider := &SMTPProvider{}
	out := provider.Send(context.Background(), &notification.SMSItem{SendTo: []string{"+15551230000"}, Message: "hi"})
	if out.Success {
		t.Fatal("expected failure for non-email item")
	}
}

func TestSMTPBadAttachmentFailsBeforeDial(t *testing.T) {
	provider := &SMTPProvider{Config: common.SMTPConfig{From: "noreply@example.com"}}
	item := &notification.EmailItem{
		To:          []string{"dest@example.com"},
		Subject:     "s",
		Message:     "m",
		Attachments: []notification.Attachment{{FileName: "broken.bin", File: "not-base64!!!"}},
	}

	out := provider.Send(context.Background(), item)
	if out.Success {
		t.Fatal("expected failure for undecodable attachment")
	}
	if !strings.Contains(out.Detail, "broken.bin") {
		t.Fatalf("detail should name the attachment: %s", out.Detail)
	}
}

func TestTLSPolicy(t *testing.T) {
	cases := []struct {
		encryption string
		want       mail.TLSPolicy
	}{
		{"ssl_tls", mail.TLSMandatory},
		{"none", mail.NoTLS},
		{"starttls", mail.TLSOpportunistic},
		{"", mail.TLSOpportunistic},
	}
	for _, tc := range cases {
		if got := tlsPolicy(tc.encryption); got != tc.want {
			t.Fatalf("tlsPolicy(%q) = %v, expected %v", tc.encryption, got, tc.want)
		}
	}
}
