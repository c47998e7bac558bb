// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/skywatch/internal/config"
	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/metrics"
	"github.com/tomtom215/skywatch/internal/models"
)

// ErrPublisherClosed is returned by Publish after Shutdown.
var ErrPublisherClosed = errors.New("publisher is closed")

// ScorePublisher publishes every persisted panic score to NATS JetStream
// on subject <prefix>.<region>. It is registered as a scoring listener.
//
// Publishing never blocks scoring: failures are logged and counted, and
// after 5 consecutive failures the breaker skips publishes for 30 seconds.
type ScorePublisher struct {
	cfg    config.NATSConfig
	logger watermill.LoggerAdapter
	cb     *gobreaker.CircuitBreaker[struct{}]

	mu        sync.RWMutex
	publisher message.Publisher
	embedded  *EmbeddedServer
	closed    bool
}

// NewScorePublisher creates an unstarted publisher. Call Start before use.
func NewScorePublisher(cfg config.NATSConfig) *ScorePublisher {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "skywatch.scores"
	}
	return &ScorePublisher{
		cfg:    cfg,
		logger: NewWatermillLogger(),
		cb:     newPublishBreaker(),
	}
}

// newScorePublisherWith wraps an existing watermill publisher.
func newScorePublisherWith(pub message.Publisher, prefix string) *ScorePublisher {
	p := NewScorePublisher(config.NATSConfig{SubjectPrefix: prefix})
	p.publisher = pub
	return p
}

// Start starts the embedded server if configured, provisions the score
// stream, and connects the watermill publisher.
func (p *ScorePublisher) Start(ctx context.Context) error {
	url := p.cfg.URL
	if p.cfg.EmbeddedServer {
		srv, err := NewEmbeddedServer(p.cfg)
		if err != nil {
			return fmt.Errorf("start embedded NATS: %w", err)
		}
		p.embedded = srv
		url = srv.ClientURL()
		logging.Info().Str("url", url).Msg("Embedded NATS server started")
	}

	if err := p.provisionStream(ctx, url); err != nil {
		p.shutdownEmbedded(ctx)
		return err
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: p.natsOptions(),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, p.logger)
	if err != nil {
		p.shutdownEmbedded(ctx)
		return fmt.Errorf("create watermill publisher: %w", err)
	}

	p.mu.Lock()
	p.publisher = pub
	p.closed = false
	p.mu.Unlock()

	logging.Info().Str("url", url).Str("prefix", p.cfg.SubjectPrefix).Msg("Score publisher connected")
	return nil
}

func (p *ScorePublisher) provisionStream(ctx context.Context, url string) error {
	nc, err := natsgo.Connect(url, natsgo.Timeout(10*time.Second))
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	streamCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := EnsureStream(streamCtx, js, ScoreStreamConfig(p.cfg.SubjectPrefix)); err != nil {
		return err
	}
	return nil
}

func (p *ScorePublisher) natsOptions() []natsgo.Option {
	return []natsgo.Option{
		natsgo.Name("skywatch-scores"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				p.logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			p.logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
}

// OnScore publishes result. Errors are logged, never returned.
func (p *ScorePublisher) OnScore(ctx context.Context, result *models.PanicScoreResult) {
	if err := p.Publish(ctx, result); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("region", result.Region).Msg("Failed to publish panic score")
	}
}

// Publish sends result to <prefix>.<region> through the circuit breaker.
func (p *ScorePublisher) Publish(ctx context.Context, result *models.PanicScoreResult) error {
	p.mu.RLock()
	pub, closed := p.publisher, p.closed
	p.mu.RUnlock()
	if closed || pub == nil {
		return ErrPublisherClosed
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal score: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	msg.Metadata.Set("region", result.Region)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set("correlation_id", id)
	}

	topic := Subject(p.cfg.SubjectPrefix, result.Region)
	_, err = p.cb.Execute(func() (struct{}, error) {
		return struct{}{}, pub.Publish(topic, msg)
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(publishBreakerName, "rejected").Inc()
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(publishBreakerName, "failure").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(publishBreakerName, "success").Inc()
	}
	metrics.RecordNATSPublish(err)

	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	logging.Ctx(ctx).Debug().Str("subject", topic).Int("score", result.OverallScore).Msg("Published panic score")
	return nil
}

// Shutdown closes the publisher and the embedded server.
func (p *ScorePublisher) Shutdown(ctx context.Context) {
	p.mu.Lock()
	pub := p.publisher
	p.publisher = nil
	p.closed = true
	p.mu.Unlock()

	if pub != nil {
		if err := pub.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing score publisher")
		}
	}
	p.shutdownEmbedded(ctx)
}

func (p *ScorePublisher) shutdownEmbedded(ctx context.Context) {
	if p.embedded == nil {
		return
	}
	if err := p.embedded.Shutdown(ctx); err != nil {
		logging.Warn().Err(err).Msg("Embedded NATS shutdown incomplete")
	}
	p.embedded = nil
}

// Subject returns the subject a region's scores are published on.
// The region is lowercased and characters NATS treats as tokens or
// wildcards are replaced with underscores.
func Subject(prefix, region string) string {
	r := strings.NewReplacer(" ", "_", ".", "_", "*", "_", ">", "_")
	token := r.Replace(strings.ToLower(strings.TrimSpace(region)))
	if token == "" {
		token = "unknown"
	}
	return prefix + "." + token
}
