package protocol

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	cases := []Packet{
		New(PC, ESBLE, CmdInit, 0, nil),
		New(PC, ESControl, CmdRead, 0x1A, []byte{2}),
		New(ESControl, PC, CmdReadAck, 0x1A, []byte{0x34, 0x12}),
		New(PC, ESBLE, CmdPair, 0, []byte("ABCDEF")),
	}
	for _, p := range cases {
		wire, err := p.Pack()
		if err != nil {
			t.Fatalf("Pack(%v) error = %v", p, err)
		}
		got, err := Unpack(wire)
		if err != nil {
			t.Fatalf("Unpack(%x) error = %v", wire, err)
		}
		if diff := cmp.Diff(p, got); diff != "" {
			t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestPackUnpackRoundTripAllLengths(t *testing.T) {
	for l := 0; l <= MaxDataLen; l += 7 {
		data := make([]byte, l)
		for i := range data {
			data[i] = byte(i)
		}
		p := New(PC, ESControl, CmdWrite, 0x10, data)
		wire, err := p.Pack()
		if err != nil {
			t.Fatalf("Pack() len=%d error = %v", l, err)
		}
		got, err := Unpack(wire)
		if err != nil {
			t.Fatalf("Unpack() len=%d error = %v", l, err)
		}
		if diff := cmp.Diff(p, got); diff != "" {
			t.Errorf("len=%d round-trip mismatch (-want +got):\n%s", l, diff)
		}
	}
}

func TestPackRejectsOversizedData(t *testing.T) {
	p := New(PC, ESControl, CmdWrite, 0, make([]byte, MaxDataLen+1))
	if _, err := p.Pack(); err == nil {
		t.Error("Pack() with oversized data should fail")
	}
}

func TestPackRejectsSameSourceTarget(t *testing.T) {
	p := New(PC, PC, CmdInit, 0, nil)
	if _, err := p.Pack(); err == nil {
		t.Error("Pack() with source == target should fail")
	}
}

func TestUnpackRejectsShortInput(t *testing.T) {
	for l := 0; l < HeaderLen; l++ {
		_, err := Unpack(make([]byte, l))
		if err == nil {
			t.Errorf("Unpack() of %d bytes should fail", l)
		}
	}
}

func TestUnpackRejectsBadPreamble(t *testing.T) {
	wire := []byte{0x00, 0x00, 0x00, byte(PC), byte(ESBLE), byte(CmdInit), 0x00}
	if _, err := Unpack(wire); err == nil {
		t.Error("Unpack() with bad preamble should fail")
	}
}

func TestUnpackRejectsTruncatedPayload(t *testing.T) {
	wire := []byte{MagicHi, MagicLo, 0x05, byte(PC), byte(ESBLE), byte(CmdInit), 0x00, 0x01, 0x02}
	if _, err := Unpack(wire); err == nil {
		t.Error("Unpack() with truncated payload should fail")
	}
}

func TestUnpackRejectsUnknownEnumValues(t *testing.T) {
	base := []byte{MagicHi, MagicLo, 0x00, byte(PC), byte(ESBLE), byte(CmdInit), 0x00}

	badSource := append([]byte(nil), base...)
	badSource[3] = 0xFF
	if _, err := Unpack(badSource); err == nil {
		t.Error("Unpack() with unknown source should fail")
	}

	badTarget := append([]byte(nil), base...)
	badTarget[4] = 0xFF
	if _, err := Unpack(badTarget); err == nil {
		t.Error("Unpack() with unknown target should fail")
	}

	badCommand := append([]byte(nil), base...)
	badCommand[5] = 0xFF
	if _, err := Unpack(badCommand); err == nil {
		t.Error("Unpack() with unknown command should fail")
	}
}

func TestUnpackErrorsWrapErrDecode(t *testing.T) {
	_, err := Unpack([]byte{0x00, 0x00})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Unpack() error = %v, want errors.Is(err, ErrDecode)", err)
	}
}

func TestExpectedReply(t *testing.T) {
	if ExpectedReply(CmdRead) != CmdReadAck {
		t.Errorf("ExpectedReply(READ) = %v, want READ_ACK", ExpectedReply(CmdRead))
	}
	for _, c := range []Command{CmdWrite, CmdWriteAckNoReply, CmdInit, CmdPing, CmdPair} {
		if ExpectedReply(c) != c {
			t.Errorf("ExpectedReply(%v) = %v, want %v", c, ExpectedReply(c), c)
		}
	}
}

func TestMatchesRegisterAccessChecksDataIndex(t *testing.T) {
	req := New(PC, ESControl, CmdRead, 0x1A, []byte{2})
	goodReply := New(ESControl, PC, CmdReadAck, 0x1A, []byte{0, 0})
	wrongIdxReply := New(ESControl, PC, CmdReadAck, 0x1B, []byte{0, 0})

	if !Matches(req, goodReply) {
		t.Error("expected goodReply to match")
	}
	if Matches(req, wrongIdxReply) {
		t.Error("READ_ACK with wrong data_index must not match a READ request")
	}
}

func TestMatchesHandshakeIgnoresDataIndex(t *testing.T) {
	req := New(PC, ESBLE, CmdInit, 0, nil)
	reply1 := New(ESBLE, PC, CmdInit, 0, []byte{1, 2, 3})
	reply2 := New(ESBLE, PC, CmdInit, 1, []byte{1, 2, 3})

	if !Matches(req, reply1) {
		t.Error("expected reply1 to match INIT request")
	}
	if !Matches(req, reply2) {
		t.Error("any INIT_ACK with any data_index must match an INIT request")
	}
}

func TestMatchesRejectsWrongDirection(t *testing.T) {
	req := New(PC, ESControl, CmdRead, 0x1A, []byte{2})
	reply := New(PC, ESControl, CmdReadAck, 0x1A, []byte{0, 0})
	if Matches(req, reply) {
		t.Error("reply with same source/target as request should not match")
	}
}

func TestMatchesRejectsWrongCommand(t *testing.T) {
	req := New(PC, ESControl, CmdRead, 0x1A, []byte{2})
	reply := New(ESControl, PC, CmdWriteAck, 0x1A, nil)
	if Matches(req, reply) {
		t.Error("WRITE_ACK should not match a READ request")
	}
}
