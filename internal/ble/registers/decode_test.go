package registers

import (
	"errors"
	"testing"
)

func TestDecodeU16LE(t *testing.T) {
	v, err := DecodeU16LE([]byte{0x34, 0x12})
	if err != nil {
		t.Fatalf("DecodeU16LE() error = %v", err)
	}
	if v != uint16(0x1234) {
		t.Errorf("DecodeU16LE() = %v, want 0x1234", v)
	}
}

func TestDecodeS16LENegative(t *testing.T) {
	v, err := DecodeS16LE([]byte{0xFF, 0xFF})
	if err != nil {
		t.Fatalf("DecodeS16LE() error = %v", err)
	}
	if v != int16(-1) {
		t.Errorf("DecodeS16LE() = %v, want -1", v)
	}
}

func TestDecodeU32From2U16LE(t *testing.T) {
	v, err := DecodeU32From2U16LE([]byte{0x01, 0x00, 0x00, 0x80})
	if err != nil {
		t.Fatalf("DecodeU32From2U16LE() error = %v", err)
	}
	if v != uint32(0x80000001) {
		t.Errorf("DecodeU32From2U16LE() = %#x, want 0x80000001", v)
	}
}

func TestDecodeVersion(t *testing.T) {
	v, err := DecodeVersion([]byte{0x34, 0x12})
	if err != nil {
		t.Fatalf("DecodeVersion() error = %v", err)
	}
	if v != "18.3.4" {
		t.Errorf("DecodeVersion() = %q, want %q", v, "18.3.4")
	}
}

func TestDecodeBitfieldBool(t *testing.T) {
	data := []byte{0x04, 0x00}
	if v, _ := DecodeBitfieldBool(2)(data); v != true {
		t.Errorf("bit 2 = %v, want true", v)
	}
	if v, _ := DecodeBitfieldBool(0)(data); v != false {
		t.Errorf("bit 0 = %v, want false", v)
	}
}

func TestDecodeStringAndHex(t *testing.T) {
	s, err := DecodeString([]byte("ABCDEF"))
	if err != nil || s != "ABCDEF" {
		t.Errorf("DecodeString() = %v, %v, want ABCDEF, nil", s, err)
	}
	h, err := DecodeHex([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	if err != nil || h != "DEADBEEF" {
		t.Errorf("DecodeHex() = %v, %v, want DEADBEEF, nil", h, err)
	}
}

func TestDecodeOpModeAndKersLevel(t *testing.T) {
	if v, err := DecodeOpMode([]byte{0x01, 0x00}); err != nil || v != ModeEco {
		t.Errorf("DecodeOpMode(1) = %v, %v, want Eco, nil", v, err)
	}
	if v, err := DecodeKersLevel([]byte{0x02, 0x00}); err != nil || v != KersStrong {
		t.Errorf("DecodeKersLevel(2) = %v, %v, want Strong, nil", v, err)
	}
	if _, err := DecodeOpMode([]byte{0x03, 0x00}); err == nil {
		t.Error("DecodeOpMode(3) should fail: unknown enum value")
	} else if !errors.Is(err, ErrDecode) {
		t.Errorf("DecodeOpMode(3) error = %v, want errors.Is(err, ErrDecode)", err)
	}
}

func TestDecodersRejectWrongLength(t *testing.T) {
	if _, err := DecodeU16LE([]byte{0x01}); err == nil {
		t.Error("DecodeU16LE with 1 byte should fail")
	} else if !errors.Is(err, ErrDecode) {
		t.Errorf("DecodeU16LE error = %v, want errors.Is(err, ErrDecode)", err)
	}
	if _, err := DecodeU32From2U16LE([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Error("DecodeU32From2U16LE with 3 bytes should fail")
	} else if !errors.Is(err, ErrDecode) {
		t.Errorf("DecodeU32From2U16LE error = %v, want errors.Is(err, ErrDecode)", err)
	}
}

func TestTemperatureScalers(t *testing.T) {
	v, err := DecodeU16LE([]byte{0x28, 0x29})
	if err != nil {
		t.Fatalf("DecodeU16LE() error = %v", err)
	}
	if got := scaleTempLowByte()(v); got != 20 {
		t.Errorf("scaleTempLowByte() = %v, want 20", got)
	}
	if got := scaleTempHighByte()(v); got != 21 {
		t.Errorf("scaleTempHighByte() = %v, want 21", got)
	}
}

func TestScaleDivRound(t *testing.T) {
	v, err := DecodeU32From2U16LE([]byte{0xE8, 0x03, 0x00, 0x00})
	if err != nil {
		t.Fatalf("DecodeU32From2U16LE() error = %v", err)
	}
	got := scaleDivRound(1000, 1)(v)
	if got != 1.0 {
		t.Errorf("scaleDivRound(1000,1)(1000) = %v, want 1.0", got)
	}
}
