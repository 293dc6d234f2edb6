package ble

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	blecrypto "github.com/fhunleth/ninebot-ble/internal/ble/crypto"
	"github.com/fhunleth/ninebot-ble/internal/ble/protocol"
	"github.com/fhunleth/ninebot-ble/internal/metrics"
)

// ClientOptions configures request/reply timing.
type ClientOptions struct {
	RequestTimeout time.Duration // outer deadline for request() retries
	ReceiveTimeout time.Duration // per-iteration receive() wait
	QueueSize      int           // bounded receive queue capacity

	// Recorder receives handshake/retry/frame-drop counters. A nil
	// Recorder is fine: every method on it is a no-op on a nil receiver.
	Recorder *metrics.Recorder
}

// DefaultClientOptions returns the timings spec §4.4 names: a 5s outer
// request deadline, a 1s receive wait, and a 100-packet queue.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		RequestTimeout: 5 * time.Second,
		ReceiveTimeout: 1 * time.Second,
		QueueSize:      100,
	}
}

// Client manages one session with a scooter: the GATT connection, the
// session cipher, chunked reassembly, and the request/reply engine
// register reads and the handshake are both built on.
type Client struct {
	adapter Adapter
	cipher  blecrypto.SessionCipher
	opts    ClientOptions

	rec *metrics.Recorder

	mu      sync.Mutex
	conn    Connection
	rxChar  Characteristic
	recvBuf *protocol.ReceiveBuffer
	state   HandshakeState

	// queue is the bounded FIFO of decoded packets; the notification
	// callback is its sole producer, request()/receive() its consumers.
	// A full queue drops the oldest entry — stale packets are never
	// useful to a caller that has fallen behind.
	queue chan protocol.Packet
}

// NewClient creates a Client for the given adapter and session cipher.
// Each client owns its own cipher instance; it is not shared across
// sessions.
func NewClient(adapter Adapter, cipher blecrypto.SessionCipher, opts ClientOptions) *Client {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}
	if opts.ReceiveTimeout <= 0 {
		opts.ReceiveTimeout = 1 * time.Second
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	return &Client{
		adapter: adapter,
		cipher:  cipher,
		opts:    opts,
		rec:     opts.Recorder,
		recvBuf: protocol.NewReceiveBuffer(cipher),
		queue:   make(chan protocol.Packet, opts.QueueSize),
	}
}

// Connect establishes the GATT link, discovers the Nordic UART
// characteristics, tells the cipher the device name, and subscribes to
// notifications. It does not perform the protocol handshake — call
// Handshake afterward. Per the scoped-acquisition pattern, a failure
// here leaves partial state behind; the caller must call Disconnect
// before retrying.
func (c *Client) Connect(ctx context.Context, mac, deviceName string) error {
	if err := c.adapter.Enable(); err != nil {
		return fmt.Errorf("ble: enable adapter: %w", err)
	}

	conn, err := c.adapter.Connect(ctx, mac)
	if err != nil {
		return fmt.Errorf("ble: connect to %s: %w", mac, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	rxChar, err := conn.DiscoverCharacteristic(ServiceUUID, RXCharUUID)
	if err != nil {
		return fmt.Errorf("ble: discover RX characteristic: %w", err)
	}
	txChar, err := conn.DiscoverCharacteristic(ServiceUUID, TXCharUUID)
	if err != nil {
		return fmt.Errorf("ble: discover TX characteristic: %w", err)
	}

	if deviceName == "" {
		deviceName = "Unnamed"
	}
	c.cipher.SetDeviceName([]byte(deviceName))

	c.mu.Lock()
	c.rxChar = rxChar
	c.mu.Unlock()

	if err := txChar.Subscribe(c.onNotification); err != nil {
		return fmt.Errorf("ble: subscribe to notifications: %w", err)
	}

	slog.Info("ble: connected", "mac", mac, "name", deviceName)
	return nil
}

// Disconnect closes the BLE handle and clears the client's connection
// and handshake state. It does not unsubscribe from TX notifications as
// a separate step; closing the connection is the only teardown. Safe to
// call after a failed Connect.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.rxChar = nil
	c.state = StateConnected
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Disconnect()
}

// State reports the client's current handshake state.
func (c *Client) State() HandshakeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s HandshakeState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// onNotification is the sole producer onto the receive queue, invoked
// from the adapter's notification context for every TX notification.
func (c *Client) onNotification(data []byte) {
	result, err := c.recvBuf.Feed(data)
	switch result {
	case protocol.FrameMalformed:
		slog.Warn("ble: malformed notification, buffer reset", "error", err)
		c.rec.FrameDropped(metrics.ReasonMalformed)
		return
	case protocol.FrameIncomplete:
		return
	case protocol.FrameReady:
		pkt, err := c.recvBuf.Take()
		if err != nil {
			slog.Warn("ble: failed to decode reassembled frame", "error", err)
			c.rec.FrameDropped(metrics.ReasonDecodeError)
			return
		}
		select {
		case c.queue <- pkt:
		default:
			// Queue full: drop the oldest entry and retry once.
			select {
			case <-c.queue:
			default:
			}
			select {
			case c.queue <- pkt:
			default:
			}
		}
	}
}

// send encrypts and transmits one Packet in MaxWriteBytes chunks.
func (c *Client) send(p protocol.Packet) error {
	c.mu.Lock()
	rxChar := c.rxChar
	c.mu.Unlock()
	if rxChar == nil {
		return fmt.Errorf("ble: send %s: not connected", p)
	}

	wire, err := p.Pack()
	if err != nil {
		return fmt.Errorf("ble: pack %s: %w", p, err)
	}
	ciphertext, err := c.cipher.Encrypt(wire)
	if err != nil {
		return fmt.Errorf("ble: encrypt %s: %w: %w", p, err, ErrSessionFatal)
	}

	for _, chunk := range protocol.Chunk(ciphertext) {
		if err := rxChar.Write(chunk); err != nil {
			return fmt.Errorf("ble: write chunk: %w", err)
		}
	}
	return nil
}

// receive returns the next packet from the queue, or a timeout error if
// none arrives within timeout.
func (c *Client) receive(timeout time.Duration) (protocol.Packet, error) {
	select {
	case pkt := <-c.queue:
		return pkt, nil
	case <-time.After(timeout):
		return protocol.Packet{}, fmt.Errorf("ble: receive: timeout after %s: %w", timeout, ErrTimeout)
	}
}

// request sends req and waits for a matching reply (per
// protocol.Matches), retrying the send if ReceiveTimeout elapses before
// a match is found, until RequestTimeout's outer deadline trips.
func (c *Client) request(req protocol.Packet) (protocol.Packet, error) {
	deadline := time.Now().Add(c.opts.RequestTimeout)

	for time.Now().Before(deadline) {
		if err := c.send(req); err != nil {
			return protocol.Packet{}, err
		}

		for time.Now().Before(deadline) {
			remaining := time.Until(deadline)
			wait := c.opts.ReceiveTimeout
			if remaining < wait {
				wait = remaining
			}
			pkt, err := c.receive(wait)
			if err != nil {
				c.rec.RequestRetry(req.Command.String())
				break // per-iteration wait elapsed: resend
			}
			if protocol.Matches(req, pkt) {
				return pkt, nil
			}
			// Non-matching packet: stale retry or out-of-band notification.
		}
	}
	return protocol.Packet{}, fmt.Errorf("ble: request: timeout waiting for reply to %s: %w", req, ErrTimeout)
}
