// Package network handles communication with the game server.
package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/Faultbox/tileclient/internal/network/packets"
)

const instrumentationName = "github.com/Faultbox/tileclient/internal/network"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// SessionHeader carries the client session id on the websocket handshake.
const SessionHeader = "X-Session-ID"

// ErrNotConnected is returned when an operation needs a live connection.
var ErrNotConnected = errors.New("not connected")

// Handler handles one inbound message kind. It runs on the game goroutine.
type Handler func(env packets.Envelope) error

// Options configures a Client.
type Options struct {
	SendQueue    int           // Outbound buffer, full buffer drops messages
	InboundQueue int           // Inbound buffer drained by Process
	WriteTimeout time.Duration // Per-message write deadline
	Log          *zap.Logger
}

// conn is one live websocket connection with its pumps.
type conn struct {
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *conn) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// Client handles network communication. SendData and Process are meant to be
// called from the game loop; the read and write pumps run on their own
// goroutines.
type Client struct {
	mu       sync.Mutex
	conn     *conn
	handlers map[string]Handler
	inbound  chan packets.Envelope
	session  uuid.UUID
	opts     Options
	log      *zap.Logger
	wg       sync.WaitGroup

	sent     metric.Int64Counter
	dropped  metric.Int64Counter
	received metric.Int64Counter
}

// New creates a new network client.
func New(opts Options) (*Client, error) {
	if opts.SendQueue <= 0 {
		opts.SendQueue = 64
	}
	if opts.InboundQueue <= 0 {
		opts.InboundQueue = 256
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	c := &Client{
		handlers: make(map[string]Handler),
		inbound:  make(chan packets.Envelope, opts.InboundQueue),
		session:  uuid.New(),
		opts:     opts,
		log:      opts.Log,
	}

	m := meter()
	var err error
	if c.sent, err = m.Int64Counter("network.messages.sent",
		metric.WithDescription("Messages written to the server")); err != nil {
		return nil, fmt.Errorf("creating sent counter: %w", err)
	}
	if c.dropped, err = m.Int64Counter("network.messages.dropped",
		metric.WithDescription("Messages dropped on a full or closed queue")); err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}
	if c.received, err = m.Int64Counter("network.messages.received",
		metric.WithDescription("Messages read from the server")); err != nil {
		return nil, fmt.Errorf("creating received counter: %w", err)
	}
	return c, nil
}

// Session returns the id sent on every handshake.
func (c *Client) Session() uuid.UUID {
	return c.session
}

// Connect dials the server and starts the pumps.
func (c *Client) Connect(ctx context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return fmt.Errorf("already connected")
	}

	header := http.Header{}
	header.Set(SessionHeader, c.session.String())

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", url, err)
	}

	cn := &conn{
		ws:   ws,
		send: make(chan []byte, c.opts.SendQueue),
		done: make(chan struct{}),
	}
	c.conn = cn

	c.wg.Add(2)
	go c.writePump(cn)
	go c.readPump(cn)

	c.log.Info("connected", zap.String("url", url), zap.String("session", c.session.String()))
	return nil
}

// Disconnect closes the connection and waits for the pumps to exit.
func (c *Client) Disconnect() {
	c.mu.Lock()
	cn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if cn != nil {
		cn.close()
	}
	c.wg.Wait()
}

// IsConnected returns connection status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// RegisterHandler registers the handler for a message kind.
func (c *Client) RegisterHandler(kind string, handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[kind] = handler
}

// SendData encodes and queues a message without blocking. Messages are
// dropped when the client is offline or the queue is full.
func (c *Client) SendData(kind string, payload ...any) {
	attrs := metric.WithAttributes(attribute.String("kind", kind))

	data, err := packets.Encode(kind, payload...)
	if err != nil {
		c.log.Error("encode failed", zap.String("kind", kind), zap.Error(err))
		c.dropped.Add(context.Background(), 1, attrs)
		return
	}

	c.mu.Lock()
	cn := c.conn
	c.mu.Unlock()
	if cn == nil {
		c.log.Debug("dropping message", zap.String("kind", kind), zap.Error(ErrNotConnected))
		c.dropped.Add(context.Background(), 1, attrs)
		return
	}

	select {
	case <-cn.done:
		c.dropped.Add(context.Background(), 1, attrs)
	case cn.send <- data:
	default:
		c.log.Warn("send queue full", zap.String("kind", kind))
		c.dropped.Add(context.Background(), 1, attrs)
	}
}

// Process dispatches every buffered inbound message to its handler. It
// should be called once per tick from the game loop. Handler errors are
// logged and the first one is returned after the queue is drained.
func (c *Client) Process() error {
	var first error
	for {
		select {
		case env := <-c.inbound:
			c.mu.Lock()
			h, ok := c.handlers[env.Kind]
			c.mu.Unlock()
			if !ok {
				c.log.Debug("no handler", zap.String("kind", env.Kind))
				continue
			}
			if err := h(env); err != nil {
				c.log.Warn("handler failed", zap.String("kind", env.Kind), zap.Error(err))
				if first == nil {
					first = fmt.Errorf("handling %s: %w", env.Kind, err)
				}
			}
		default:
			return first
		}
	}
}

// writePump writes queued messages until the connection closes.
func (c *Client) writePump(cn *conn) {
	defer c.wg.Done()
	defer cn.close()

	for {
		select {
		case <-cn.done:
			return
		case msg := <-cn.send:
			_ = cn.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := cn.ws.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				c.log.Warn("write failed", zap.Error(err))
				c.detach(cn)
				return
			}
			c.sent.Add(context.Background(), 1)
		}
	}
}

// readPump decodes server messages into the inbound queue.
func (c *Client) readPump(cn *conn) {
	defer c.wg.Done()
	defer cn.close()

	cn.ws.SetReadLimit(1 << 20)
	for {
		_, data, err := cn.ws.ReadMessage()
		if err != nil {
			select {
			case <-cn.done:
			default:
				c.log.Info("disconnected", zap.Error(err))
			}
			c.detach(cn)
			return
		}

		env, err := packets.Decode(data)
		if err != nil {
			c.log.Warn("bad message", zap.Error(err))
			continue
		}
		c.received.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("kind", env.Kind)))

		select {
		case c.inbound <- env:
		default:
			c.log.Warn("inbound queue full", zap.String("kind", env.Kind))
		}
	}
}

// detach forgets cn if it is still the current connection.
func (c *Client) detach(cn *conn) {
	c.mu.Lock()
	if c.conn == cn {
		c.conn = nil
	}
	c.mu.Unlock()
}
