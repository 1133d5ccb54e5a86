package probe

import (
	"context"
	"strconv"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/sandertv/go-raknet"

	"github.com/mcobservatory/observatory/internal/record"
)

// BedrockOptions configures a single Bedrock unconnected-ping probe.
type BedrockOptions struct {
	Timeout time.Duration
}

// PingBedrock sends a single RakNet unconnected ping to addr and parses
// the pong's ";"-delimited advertise string.
//
// The datagram itself is sent via github.com/sandertv/go-raknet's
// PingContext, which implements the RakNet offline-message framing (id
// 0x01, timestamp, magic, client GUID) on the wire and returns only the
// decoded advertise string — the unconnected-pong's own id/timestamp/
// GUID/magic header is already stripped by the time PingContext returns,
// so parsePong never sees it.
func PingBedrock(ctx context.Context, addr string, opts BedrockOptions) (Result, error) {
	start := time.Now()

	dialCtx := ctx
	var cancel context.CancelFunc
	if opts.Timeout > 0 {
		dialCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	pong, err := raknet.PingContext(dialCtx, addr)
	queryMs := time.Since(start).Milliseconds()
	if err != nil {
		return Result{}, errors.WithMessage(ErrConnectTimeout, err.Error())
	}

	result, err := parsePong(pong)
	if err != nil {
		return Result{}, errors.WithMessage(ErrDecodeError, err.Error())
	}
	result.Kind = record.KindBedrock
	result.ConnectMs = queryMs
	result.QueryMs = queryMs
	result.Timestamp = start
	return result, nil
}

// parsePong decodes the advertise string go-raknet's PingContext returns:
// it has already stripped the unconnected-pong framing (id, timestamp,
// server GUID, magic), leaving the ";"-delimited advertise string itself.
//
// Fields map positionally: edition, motd_line1, protocol, version,
// online, max, server_id, submotd, game_mode, game_mode_numeric,
// port_ipv4, port_ipv6. Non-numeric numeric fields degrade to 0.
func parsePong(buf []byte) (Result, error) {
	if len(buf) == 0 {
		return Result{}, errors.Errorf("pong payload is empty")
	}

	advertise := decodeAdvertise(buf)
	parts := strings.Split(advertise, ";")
	get := func(i int) string {
		if i >= 0 && i < len(parts) {
			return parts[i]
		}
		return ""
	}
	toInt := func(s string) int {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return n
	}

	motdLine1 := get(1)
	submotd := get(7)

	return Result{
		Edition:     get(0),
		Version:     Version{Name: get(3), Protocol: toInt(get(2))},
		Players:     Players{Online: toInt(get(4)), Max: toInt(get(5))},
		ServerID:    get(6),
		Submotd:     submotd,
		GameMode:    get(8),
		GameModeNum: toInt(get(9)),
		PortIPv4:    toInt(get(10)),
		PortIPv6:    toInt(get(11)),
		Motd:        motdLine1 + "\n" + submotd,
	}, nil
}

func decodeAdvertise(b []byte) string {
	if s := string(b); isValidUTF8Printable(s) {
		return s
	}
	// Fallback: Latin-1, one byte per rune.
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

func isValidUTF8Printable(s string) bool {
	for _, r := range s {
		if r == 0xFFFD {
			return false
		}
	}
	return true
}
