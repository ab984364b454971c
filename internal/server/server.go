package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/example/notification-gateway/internal/common"
	"github.com/example/notification-gateway/internal/dispatch"
	"github.com/example/notification-gateway/internal/envelope"
	"github.com/example/notification-gateway/internal/notification"
)

var (
	reqCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "send_requests_total",
		Help: "Total number of /send requests received",
	}, []string{"channel", "status"})
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "send_request_duration_seconds",
		Help:    "Latency for /send requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel"})
	failedItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "send_failed_items_total",
		Help: "Batch items reported back in failed_payload",
	}, []string{"channel"})
)

// Processor runs one batch to completion; implemented by dispatch.Orchestrator.
type Processor interface {
	Process(ctx context.Context, ch notification.Channel, provider notification.ProviderType, req dispatch.Request) (dispatch.BatchResult, error)
}

type Server struct {
	Processor Processor
	AuthToken string
	Logger    zerolog.Logger
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Route("/send", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/{channel}/{provider}", s.send)
	})
	return r
}

// authenticate gates every request before any body processing.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || s.AuthToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.AuthToken)) != 1 {
			reqCounter.WithLabelValues("unknown", "forbidden").Inc()
			envelope.Forbidden().Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) send(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("gateway").Start(r.Context(), "send_batch")
	defer span.End()

	ch := notification.Channel(chi.URLParam(r, "channel"))
	provider := notification.ProviderType(chi.URLParam(r, "provider"))
	span.SetAttributes(
		attribute.String("channel", string(ch)),
		attribute.String("provider", string(provider)),
	)

	if !notification.KnownChannel(ch) {
		s.respondErr(ctx, w, ch, "unknown channel "+string(ch))
		return
	}

	var req dispatch.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondErr(ctx, w, ch, "invalid request body: "+err.Error())
		return
	}

	start := time.Now()
	res, err := s.Processor.Process(ctx, ch, provider, req)
	requestLatency.WithLabelValues(string(ch)).Observe(time.Since(start).Seconds())

	var unknown *dispatch.UnknownProviderError
	if errors.As(err, &unknown) {
		reqCounter.WithLabelValues(string(ch), "invalid_provider").Inc()
		logger := common.WithContext(ctx, s.Logger)
		logger.Warn().Str("provider", string(provider)).Msg("rejected unknown provider")
		envelope.ClientError(http.StatusBadRequest, unknown.Error()).Write(w)
		return
	}
	if err != nil {
		s.respondErr(ctx, w, ch, err.Error())
		return
	}

	status := "ok"
	if len(res.Failed) > 0 {
		status = "partial"
		failedItems.WithLabelValues(string(ch)).Add(float64(len(res.Failed)))
	}
	reqCounter.WithLabelValues(string(ch), status).Inc()

	logger := common.WithContext(ctx, s.Logger)
	logger.Info().
		Str("channel", string(ch)).
		Str("provider", string(provider)).
		Int("attempted", res.Attempted).
		Int("delivered", res.Delivered).
		Int("queued", res.Queued).
		Int("failed", len(res.Failed)).
		Msg("batch processed")

	envelope.Build(ch, res.Failed).Write(w)
}

func (s *Server) respondErr(ctx context.Context, w http.ResponseWriter, ch notification.Channel, detail string) {
	logger := common.WithContext(ctx, s.Logger)
	logger.Error().Str("detail", detail).Msg("send handler rejected request")
	reqCounter.WithLabelValues(string(ch), "bad_request").Inc()
	envelope.ClientError(http.StatusBadRequest, detail).Write(w)
}
