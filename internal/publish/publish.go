package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/equigrid/internal/ctxlog"
	"github.com/specialistvlad/equigrid/internal/report"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event name documents are emitted on.
const DefaultEvent = "equigrid:report"

// Options configure a Socket.IO publisher.
type Options struct {
	URL                string
	Namespace          string
	Event              string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Validate checks the options and fills in defaults.
func (o *Options) Validate() error {
	if o.URL == "" {
		return errors.New("publish URL is required")
	}
	u, err := url.Parse(o.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("publish URL %q must include a scheme and host", o.URL)
	}
	if o.Event == "" {
		o.Event = DefaultEvent
	}
	if o.Namespace == "" {
		o.Namespace = "/"
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	return nil
}

// Envelope is the payload of every emitted event.
type Envelope struct {
	Client   string           `json:"client"`
	Seq      uint64           `json:"seq"`
	Document *report.Document `json:"document"`
}

// Client is a connected publisher.
type Client struct {
	io    *socket.Socket
	event string
	id    string
	seq   atomic.Uint64
}

// Dial connects to the server and waits for the namespace connection.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "url", opts.URL)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	sockOpts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sockOpts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("📡 Publisher connected", "namespace", opts.Namespace, "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection refused")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})

	logger.Debug("Initiating publisher connection.")
	io.Connect()

	timer := time.NewTimer(opts.Timeout)
	defer timer.Stop()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-timer.C:
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", opts.Timeout)
	}

	return &Client{io: io, event: opts.Event, id: uuid.NewString()}, nil
}

// ID returns the client identifier sent with every envelope.
func (c *Client) ID() string { return c.id }

// Publish emits doc on the configured event.
func (c *Client) Publish(ctx context.Context, doc *report.Document) error {
	if !c.io.Connected() {
		return errors.New("publisher is not connected")
	}
	env := c.envelope(doc)
	ctxlog.FromContext(ctx).Debug("Publishing report.", "event", c.event, "seq", env.Seq, "systems", len(doc.Systems))
	if err := c.io.Emit(c.event, env); err != nil {
		return fmt.Errorf("failed to emit %s: %w", c.event, err)
	}
	return nil
}

func (c *Client) envelope(doc *report.Document) Envelope {
	return Envelope{Client: c.id, Seq: c.seq.Add(1), Document: doc}
}

// Close disconnects from the server.
func (c *Client) Close() error {
	c.io.Disconnect()
	return nil
}
