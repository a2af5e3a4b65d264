package natsutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// ErrNotConnected is returned by Publish before Connect or after Close.
var ErrNotConnected = errors.New("not connected to NATS")

// Client is a reconnecting core-NATS connection used for publishing.
type Client struct {
	url                  string
	name                 string
	nc                   *nats.Conn
	reconnectDelay       time.Duration
	maxReconnectAttempts int
}

func NewClient(url, name string) *Client {
	return &Client{
		url:                  url,
		name:                 name,
		reconnectDelay:       2 * time.Second,
		maxReconnectAttempts: 10,
	}
}

// Connect dials the server and installs connection-state logging.
func (c *Client) Connect(ctx context.Context) error {
	opts := []nats.Option{
		nats.Name(c.name),
		nats.MaxReconnects(c.maxReconnectAttempts),
		nats.ReconnectWait(c.reconnectDelay),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Error("NATS disconnected with error")
				return
			}
			log.Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(*nats.Conn) {
			log.Info("NATS reconnected")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			fields := log.Fields{"error": err}
			if sub != nil {
				fields["subject"] = sub.Subject
			}
			log.WithFields(fields).Error("NATS async error")
		}),
	}

	if deadline, ok := ctx.Deadline(); ok {
		opts = append(opts, nats.Timeout(time.Until(deadline)))
	}

	nc, err := nats.Connect(c.url, opts...)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}

	c.nc = nc

	log.WithField("url", c.url).Info("connected to NATS")

	return nil
}

func (c *Client) Publish(subject string, data []byte) error {
	if c.nc == nil {
		return ErrNotConnected
	}

	err := c.nc.Publish(subject, data)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}

	return nil
}

// Close flushes buffered messages and closes the connection. Closing an
// unconnected or already closed client is a no-op.
func (c *Client) Close(ctx context.Context) error {
	if c.nc == nil {
		return nil
	}

	nc := c.nc
	c.nc = nil

	err := nc.FlushWithContext(ctx)
	nc.Close()

	if err != nil {
		return fmt.Errorf("flush NATS: %w", err)
	}

	log.Info("NATS connection closed")

	return nil
}
