package wire

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestVarIntRoundTrip(t *testing.T) {
	values := []int32{-1, 0, 1, 127, 128, 16383, 16384, 2147483647}
	for _, v := range values {
		buf := &bytes.Buffer{}
		WriteVarInt(buf, v)
		got, consumed, err := ReadVarIntBytes(buf.Bytes(), 0)
		if err != nil {
			t.Fatalf("decode(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("decode(encode(%d)) = %d", v, got)
		}
		if consumed != buf.Len() {
			t.Fatalf("consumed %d bytes, wrote %d", consumed, buf.Len())
		}
	}
}

func TestNegativeOneIsFiveBytes(t *testing.T) {
	buf := &bytes.Buffer{}
	WriteVarInt(buf, -1)
	want := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("encode(-1) = % x, want % x", buf.Bytes(), want)
	}
}

func TestReadVarIntStreamRejectsSixthContinuationByte(t *testing.T) {
	// Six bytes, all with the continuation bit set.
	raw := bytes.Repeat([]byte{0xFF}, 6)
	_, err := ReadVarIntStream(bytes.NewReader(raw), 0)
	if err == nil {
		t.Fatal("expected error for 6-byte continuation varint")
	}
	if !errors.Is(err, ErrVarIntTooLong) {
		t.Fatalf("got %v, want ErrVarIntTooLong", err)
	}
}

func TestFramingRoundTrip(t *testing.T) {
	payload := []byte("hello minecraft")
	buf := &bytes.Buffer{}
	if err := WritePacket(buf, 0x00, payload); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}

	gotID, gotPayload, err := ReadPacket(buf, time.Second)
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if gotID != 0x00 {
		t.Fatalf("id = %d, want 0", gotID)
	}
	if !bytes.Equal(gotPayload, payload) {
		t.Fatalf("payload = %q, want %q", gotPayload, payload)
	}
}

func TestFramingTruncationFails(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WritePacket(buf, 0x00, []byte("truncated")); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	truncated := buf.Bytes()[:buf.Len()-1]
	_, _, err := ReadPacket(bytes.NewReader(truncated), time.Second)
	if err == nil {
		t.Fatal("expected error reading truncated frame")
	}
}

func TestStringRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	WriteString(buf, "example.com")
	got, err := ReadString(buf, time.Second)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "example.com" {
		t.Fatalf("got %q", got)
	}
}
