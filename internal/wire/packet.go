package wire

import (
	"bytes"
	"io"
	"time"

	"emperror.dev/errors"
)

// WriteString writes a VarInt byte-length prefix followed by the UTF-8
// bytes of s. The length is a byte count, not a codepoint count.
func WriteString(buf *bytes.Buffer, s string) {
	b := []byte(s)
	WriteVarInt(buf, int32(len(b)))
	buf.Write(b)
}

// ReadString reads a length-prefixed UTF-8 string from r.
func ReadString(r io.Reader, timeout time.Duration) (string, error) {
	n, err := ReadVarIntStream(r, timeout)
	if err != nil {
		return "", errors.Wrap(err, "read string length")
	}
	if n < 0 {
		return "", errors.WithMessage(ErrFraming, "negative string length")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", errors.Wrap(err, "read string body")
	}
	return string(buf), nil
}

// WritePacket frames payload as VarInt(len(id)+len(payload)) ++ VarInt(id) ++ payload.
func WritePacket(w io.Writer, id int32, payload []byte) error {
	body := &bytes.Buffer{}
	WriteVarInt(body, id)
	body.Write(payload)

	framed := &bytes.Buffer{}
	WriteVarInt(framed, int32(body.Len()))
	framed.Write(body.Bytes())

	_, err := w.Write(framed.Bytes())
	return errors.Wrap(err, "write packet")
}

// ReadPacket reads one length-prefixed packet from r and splits it into
// (id, payload). It enforces the 5-byte VarInt cap on both the length and
// id fields, surfacing ErrVarIntTooLong on violation; ErrFraming covers a
// negative length or an id that cannot be decoded from the body.
func ReadPacket(r io.Reader, timeout time.Duration) (id int32, payload []byte, err error) {
	length, err := ReadVarIntStream(r, timeout)
	if err != nil {
		return 0, nil, errors.Wrap(err, "read packet length")
	}
	if length < 0 {
		return 0, nil, errors.WithMessage(ErrFraming, "negative packet length")
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, errors.Wrap(err, "read packet body")
	}

	pid, consumed, err := ReadVarIntBytes(body, 0)
	if err != nil {
		if errors.Is(err, ErrVarIntTooLong) {
			return 0, nil, ErrVarIntTooLong
		}
		return 0, nil, errors.WithMessage(ErrFraming, "read packet id")
	}
	return pid, body[consumed:], nil
}
