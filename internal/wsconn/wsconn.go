// Package wsconn provides a WebSocket client with automatic reconnection.
package wsconn

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// State represents the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
)

// ErrClosed is returned by Send after Close has been called.
var ErrClosed = errors.New("wsconn: client closed")

// Config holds WebSocket client configuration.
type Config struct {
	URL            string
	Headers        map[string]string
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = infinite
	PingInterval   time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		MaxReconnects:  0, // infinite
		PingInterval:   30 * time.Second,
	}
}

// Client maintains a WebSocket connection, reconnecting with exponential
// backoff when the read loop fails. Received messages are delivered on the
// Messages channel; the channel closes when the client shuts down.
type Client struct {
	config   Config
	state    State
	stateMu  sync.RWMutex
	connMu   sync.Mutex
	conn     *websocket.Conn
	messages chan []byte
	done     chan struct{}
	closed   sync.Once
}

// New creates a new WebSocket client.
func New(config Config) *Client {
	return &Client{
		config:   config,
		state:    StateDisconnected,
		messages: make(chan []byte, 100),
		done:     make(chan struct{}),
	}
}

// Connect establishes the connection and starts the read loop. The read
// loop reconnects on failure until ctx is cancelled, Close is called, or
// MaxReconnects is exhausted.
func (c *Client) Connect(ctx context.Context) error {
	c.setState(StateConnecting)

	if err := c.dial(ctx); err != nil {
		c.setState(StateDisconnected)
		return err
	}
	c.setState(StateConnected)

	go c.readLoop(ctx)
	if c.config.PingInterval > 0 {
		go c.pingLoop(ctx)
	}
	return nil
}

func (c *Client) dial(ctx context.Context) error {
	opts := &websocket.DialOptions{}
	if len(c.config.Headers) > 0 {
		opts.HTTPHeader = make(map[string][]string, len(c.config.Headers))
		for k, v := range c.config.Headers {
			opts.HTTPHeader.Set(k, v)
		}
	}

	conn, _, err := websocket.Dial(ctx, c.config.URL, opts)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", c.config.URL, err)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	return nil
}

func (c *Client) readLoop(ctx context.Context) {
	defer close(c.messages)

	reconnects := 0
	for {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		_, data, err := conn.Read(ctx)
		if err == nil {
			select {
			case c.messages <- data:
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		default:
		}

		if c.config.MaxReconnects > 0 && reconnects >= c.config.MaxReconnects {
			c.setState(StateDisconnected)
			return
		}

		c.setState(StateReconnecting)
		backoff := c.config.InitialBackoff
		for {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			case <-c.done:
				return
			}

			if err := c.dial(ctx); err == nil {
				break
			}
			backoff *= 2
			if backoff > c.config.MaxBackoff {
				backoff = c.config.MaxBackoff
			}
		}
		reconnects++
		c.setState(StateConnected)
	}
}

func (c *Client) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.connMu.Lock()
			conn := c.conn
			c.connMu.Unlock()
			if c.State() == StateConnected {
				_ = conn.Ping(ctx)
			}
		case <-ctx.Done():
			return
		case <-c.done:
			return
		}
	}
}

// Send sends a text message over the connection.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return fmt.Errorf("wsconn: not connected")
	}
	return conn.Write(ctx, websocket.MessageText, msg)
}

// Messages returns the channel for receiving messages.
func (c *Client) Messages() <-chan []byte {
	return c.messages
}

// State returns the current connection state.
func (c *Client) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// Close gracefully closes the WebSocket connection.
func (c *Client) Close() error {
	c.closed.Do(func() {
		close(c.done)
		c.connMu.Lock()
		if c.conn != nil {
			c.conn.Close(websocket.StatusNormalClosure, "shutting down")
		}
		c.connMu.Unlock()
		c.setState(StateDisconnected)
	})
	return nil
}

func (c *Client) setState(state State) {
	c.stateMu.Lock()
	c.state = state
	c.stateMu.Unlock()
}
