package ble

import "errors"

// ErrTimeout is the sentinel wrapped into every receive()/request() timeout
// error, so callers can errors.Is(err, ble.ErrTimeout) instead of matching
// the message text.
var ErrTimeout = errors.New("ble: timeout")

// ErrSessionFatal is the sentinel wrapped into errors that leave the
// session cipher or handshake state unrecoverable — an encrypt failure, or
// a handshake reply with an unexpected shape. Callers must Disconnect and
// run Connect+Handshake again rather than retry in place.
var ErrSessionFatal = errors.New("ble: session fatal")
