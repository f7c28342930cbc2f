package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/shlok1014/ReWear/internal/config"
	"github.com/shlok1014/ReWear/internal/entity"
	"go.uber.org/zap"
)

// Notifications for a channel travel on subjectPrefix + channel; the
// websocket hub subscribes the wildcard and routes on the suffix.
const subjectPrefix = "rewear.notify."

// WildcardSubject matches every notification channel.
const WildcardSubject = subjectPrefix + ">"

// ChannelFromSubject recovers the logical channel from a NATS subject.
func ChannelFromSubject(subject string) string {
	return strings.TrimPrefix(subject, subjectPrefix)
}

type Publisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

func NewNATSPublisher(cfg *config.NATSConfig, logger *zap.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.ConnectTimeout),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.Error("NATS error", zap.String("subject", sub.Subject), zap.Error(err))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Successfully connected to NATS", zap.String("url", nc.ConnectedUrl()))

	return &Publisher{nc: nc, logger: logger}, nil
}

// Publish is at-most-once and fire-and-forget: NATS drops the message when
// the channel has no subscriber, which is the contract the fan-out wants.
func (p *Publisher) Publish(ctx context.Context, channel string, n *entity.Notification) error {
	subject := subjectPrefix + channel

	data, err := json.Marshal(n)
	if err != nil {
		p.logger.Error("Failed to marshal notification for NATS publishing",
			zap.Error(err),
			zap.String("subject", subject),
		)
		return fmt.Errorf("failed to marshal notification for %s: %w", subject, err)
	}

	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Error("Failed to publish NATS message",
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish NATS message for %s: %w", subject, err)
	}
	p.logger.Debug("Published notification",
		zap.String("subject", subject),
		zap.String("type", n.Type),
	)
	return nil
}

// SubscribeAll delivers every notification to handler together with its
// logical channel. Used by the websocket hub bridge.
func (p *Publisher) SubscribeAll(handler func(channel string, data []byte)) (*nats.Subscription, error) {
	sub, err := p.nc.Subscribe(WildcardSubject, func(msg *nats.Msg) {
		handler(ChannelFromSubject(msg.Subject), msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", WildcardSubject, err)
	}
	return sub, nil
}

func (p *Publisher) Close() {
	if p.nc != nil && !p.nc.IsClosed() {
		if err := p.nc.Drain(); err != nil {
			p.logger.Error("Error draining NATS connection", zap.Error(err))
		}
		p.nc.Close()
		p.logger.Info("NATS publisher connection closed")
	}
}
