// Package crypto defines the session-cipher contract the Ninebot/Segway
// BLE protocol wraps every frame in, plus a concrete, testable stand-in
// for the device's real cipher primitive.
//
// The real on-device algorithm ("NbCrypto" in the original source) is a
// proprietary black box this module deliberately does not attempt to
// reverse engineer: it is out of scope (spec §1 Non-goals). What IS in
// scope is the *contract* every session cipher must satisfy — stateful,
// length-preserving, and keyed in the order the handshake installs key
// material (name, then device key, then app key) — so that the rest of
// the stack (framer, transport, handshake, request engine) has a real,
// swappable, fully testable implementation to run against. Production
// users of this module should supply their own SessionCipher wrapping
// the real primitive; StreamCipher below is a structurally compatible
// placeholder, not a decoded version of the device's algorithm.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// SessionCipher is the session-layer cryptography capability the
// protocol stack depends on (spec §4.3/§6). Implementations are
// stateful: SetDeviceName must be called once before the handshake,
// SetDeviceKey after the INIT reply, and SetAppKey once pairing
// succeeds. Encrypt and Decrypt are length-preserving on whole frames.
type SessionCipher interface {
	SetDeviceName(name []byte)
	SetDeviceKey(key []byte)
	SetAppKey(key []byte)
	Encrypt(buf []byte) ([]byte, error)
	Decrypt(buf []byte) ([]byte, error)
}

const hkdfInfo = "ninebot-ble-session-cipher"

// StreamCipher is a length-preserving AES-CTR keystream cipher keyed by
// HKDF-SHA256 over whatever key material has been installed so far. It
// satisfies the SessionCipher contract so the rest of this module is
// runnable and testable without the real NbCrypto primitive. Zero value
// is ready to use (usable immediately after SetDeviceName, before any
// keys exist, since it must wrap the INIT request itself).
type StreamCipher struct {
	name      []byte
	deviceKey []byte
	appKey    []byte
}

var _ SessionCipher = (*StreamCipher)(nil)

// NewStreamCipher returns a ready-to-use StreamCipher.
func NewStreamCipher() *StreamCipher {
	return &StreamCipher{}
}

func (c *StreamCipher) SetDeviceName(name []byte) {
	c.name = append([]byte(nil), name...)
}

func (c *StreamCipher) SetDeviceKey(key []byte) {
	c.deviceKey = append([]byte(nil), key...)
}

func (c *StreamCipher) SetAppKey(key []byte) {
	c.appKey = append([]byte(nil), key...)
}

// aesKeySize is the AES-256 key length HKDF derives for the CTR cipher.
const aesKeySize = 32

// ctrStream builds the AES-CTR keystream generator for the currently
// installed key material: HKDF-SHA256 over name||deviceKey||appKey
// derives the AES-256 key, and CTR runs from an all-zero counter block.
// A fresh cipher.Stream is built per call since cipher.Stream is not
// safe for replaying from position zero once advanced.
func (c *StreamCipher) ctrStream() (cipher.Stream, error) {
	ikm := append(append(append([]byte(nil), c.name...), c.deviceKey...), c.appKey...)
	reader := hkdf.New(sha256.New, ikm, nil, []byte(hkdfInfo))
	key := make([]byte, aesKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("ble/crypto: derive AES-256 key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("ble/crypto: new AES cipher: %w", err)
	}
	iv := make([]byte, aes.BlockSize)
	return cipher.NewCTR(block, iv), nil
}

// keystream derives n deterministic AES-CTR keystream bytes from the
// currently installed key material. CTR's keystream at a given position
// depends only on the key and counter, not on how much has been
// requested so far, so the first n bytes are identical no matter how
// many times keystream is called with a growing n — which the chunked
// reassembly buffer relies on, since it redecrypts its whole running
// buffer on every notification.
func (c *StreamCipher) keystream(n int) ([]byte, error) {
	stream, err := c.ctrStream()
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	stream.XORKeyStream(out, out)
	return out, nil
}

func (c *StreamCipher) Encrypt(buf []byte) ([]byte, error) {
	return c.xor(buf)
}

func (c *StreamCipher) Decrypt(buf []byte) ([]byte, error) {
	return c.xor(buf)
}

func (c *StreamCipher) xor(buf []byte) ([]byte, error) {
	ks, err := c.keystream(len(buf))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(buf))
	for i := range buf {
		out[i] = buf[i] ^ ks[i]
	}
	return out, nil
}
