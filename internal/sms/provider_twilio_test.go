package sms

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/notification-gateway/internal/common"
	"github.com/example/notification-gateway/internal/notification"
)

func twilioConfig(endpoint string) common.TwilioConfig {
	return common.TwilioConfig{
		Endpoint:   endpoint,
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15550000000",
	}
}

func TestTwilioSendPerNumber(t *testing.T) {
	var recipients []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/AC123/Messages.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "secret" {
			t.Errorf("basic auth = %q/%q", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		to := r.PostForm.Get("To")
		recipients = append(recipients, to)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"sid":"SM-%s"}`, to)
	}))
	defer srv.Close()

	provider := &TwilioProvider{Config: twilioConfig(srv.URL), Client: srv.Client()}
	item := &notification.SMSItem{
		SendTo:  []string{"+15551230001", "+15551230002"},
		Message: "Your code is 1234",
	}

	out := provider.Send(context.Background(), item)
	if !out.Success {
		t.Fatalf("send failed: %s", out.Detail)
	}
	if len(recipients) != 2 {
		t.Fatalf("expected one request per number, got %v", recipients)
	}
	if out.Metadata["sid:+15551230001"] != "SM-+15551230001" {
		t.Fatalf("metadata = %v", out.Metadata)
	}
}

func TestTwilioPartialNumberFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("To") == "+15559990000" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"message":"invalid number"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"sid":"SM-ok"}`)
	}))
	defer srv.Close()

	provider := &TwilioProvider{Config: twilioConfig(srv.URL), Client: srv.Client()}
	item := &notification.SMSItem{
		SendTo:  []string{"+15551230001", "+15559990000"},
		Message: "hello",
	}

	out := provider.Send(context.Background(), item)
	if out.Success {
		t.Fatal("expected failure when any number fails")
	}
	if !strings.Contains(out.Detail, "+15559990000") {
		t.Fatalf("detail should name the failed number: %s", out.Detail)
	}
	if strings.Contains(out.Detail, "+15551230001:") {
		t.Fatalf("detail should not flag the delivered number: %s", out.Detail)
	}
}

func TestTwilioRejectsNonSMSItem(t *testing.T) {
	provider := &TwilioProvider{}
	out := provider.Send(context.Background(), &notification.EmailItem{To: []string{"a@example.com"}})
	if out.Success {
		t.Fatal("expected failure for non-sms item")
	}
}
