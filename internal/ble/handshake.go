package ble

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/fhunleth/ninebot-ble/internal/ble/protocol"
	"github.com/fhunleth/ninebot-ble/internal/metrics"
)

// HandshakeState tracks progress through the INIT/PING/PAIR exchange.
type HandshakeState int

const (
	StateConnected HandshakeState = iota
	StateKeysPartial
	StatePaired
)

func (s HandshakeState) String() string {
	switch s {
	case StateConnected:
		return "Connected"
	case StateKeysPartial:
		return "KeysPartial"
	case StatePaired:
		return "Paired"
	default:
		return "Unknown"
	}
}

// appKeySize is the length of the locally generated app key exchanged
// during PING/PAIR.
const appKeySize = 16

// Handshake runs the INIT/PING/pairing-loop/PAIR state machine (§4.5).
// Connect must have succeeded first. On success the client's cipher
// holds the full device+app key material and State() reports Paired.
func (c *Client) Handshake(pairTimeout time.Duration) error {
	if pairTimeout <= 0 {
		pairTimeout = 60 * time.Second
	}

	appKey := make([]byte, appKeySize)
	if _, err := rand.Read(appKey); err != nil {
		return fmt.Errorf("ble: generate app key: %w", err)
	}

	// Step 1: INIT.
	initReply, err := c.request(protocol.New(protocol.PC, protocol.ESBLE, protocol.CmdInit, 0, nil))
	if err != nil {
		c.rec.HandshakeAttempt(metrics.OutcomeTimeout)
		return fmt.Errorf("ble: handshake INIT: %w", err)
	}
	if len(initReply.Data) < 16 {
		return fmt.Errorf("ble: handshake INIT: reply payload %d bytes, need at least 16: %w", len(initReply.Data), ErrSessionFatal)
	}
	deviceKey := initReply.Data[:16]
	deviceSerial := initReply.Data[16:] // opaque per spec §9; passed through unvalidated
	c.cipher.SetDeviceKey(deviceKey)
	c.setState(StateKeysPartial)

	// Step 2: PING (first).
	pingReply, err := c.request(protocol.New(protocol.PC, protocol.ESBLE, protocol.CmdPing, 0, appKey))
	if err != nil {
		c.rec.HandshakeAttempt(metrics.OutcomeTimeout)
		return fmt.Errorf("ble: handshake PING: %w", err)
	}
	if pingReply.DataIndex == 1 {
		c.cipher.SetAppKey(appKey)
		c.setState(StatePaired)
		c.rec.HandshakeAttempt(metrics.OutcomePaired)
		slog.Info("ble: already paired")
		return nil
	}

	// Step 3: pairing loop.
	deadline := time.Now().Add(pairTimeout)
	paired := false
	for time.Now().Before(deadline) {
		time.Sleep(1 * time.Second)

		// Fire-and-forget: the reply mapping here is asymmetric and
		// depends on the scooter's physical UI, so send/receive are
		// used directly instead of request().
		if err := c.send(protocol.New(protocol.PC, protocol.ESBLE, protocol.CmdPair, 0, deviceSerial)); err != nil {
			return fmt.Errorf("ble: handshake pairing loop: send PAIR: %w", err)
		}

		pkt, err := c.receive(1 * time.Second)
		if err != nil {
			continue // non-fatal: scooter hasn't responded yet
		}

		switch {
		case pkt.Command == protocol.CmdPing && pkt.DataIndex == 1:
			c.cipher.SetAppKey(appKey)
			paired = true
		case pkt.Command == protocol.CmdPair && pkt.DataIndex == 1:
			c.cipher.SetAppKey(appKey)
			paired = true
		default:
			slog.Info("ble: please press the power button on the scooter")
			c.rec.HandshakeAttempt(metrics.OutcomeButtonWait)
		}
		if paired {
			break
		}
	}
	if !paired {
		c.rec.HandshakeAttempt(metrics.OutcomeTimeout)
		return fmt.Errorf("ble: handshake: pairing timed out after %s: %w", pairTimeout, ErrTimeout)
	}

	// Step 4: PAIR confirm.
	if _, err := c.request(protocol.New(protocol.PC, protocol.ESBLE, protocol.CmdPair, 0, deviceSerial)); err != nil {
		c.rec.HandshakeAttempt(metrics.OutcomeTimeout)
		return fmt.Errorf("ble: handshake PAIR confirm: %w", err)
	}
	c.setState(StatePaired)
	c.rec.HandshakeAttempt(metrics.OutcomePaired)

	slog.Info("ble: handshake complete")
	return nil
}
