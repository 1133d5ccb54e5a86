package probe

import "emperror.dev/errors"

// Error taxonomy from spec.md §7. Each is a sentinel wrapped with
// contextual detail (emperror.dev/errors.WithMessage) at the point of failure,
// so callers can both pattern-match the kind with errors.Is and read a
// human-readable chain via Error().
const (
	ErrConnectTimeout = errors.Sentinel("connect_timeout")
	ErrReadTimeout    = errors.Sentinel("read_timeout")
	ErrFramingError   = errors.Sentinel("framing_error")
	ErrDecodeError    = errors.Sentinel("decode_error")
	ErrDNSFailure     = errors.Sentinel("dns_failure")
	ErrCanceled       = errors.Sentinel("canceled")
	ErrProtocolAbort  = errors.Sentinel("protocol_abort")
	ErrIOPersist      = errors.Sentinel("io_persist")
)
