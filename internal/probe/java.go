package probe

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"time"

	"emperror.dev/errors"

	"github.com/Jeffail/gabs/v2"

	"github.com/mcobservatory/observatory/internal/record"
	"github.com/mcobservatory/observatory/internal/wire"
)

// handshakeProtocolProbe is the protocol version sent during a status
// handshake; -1 tells the server "tell me your real version", matching
// real client behavior for the server list ping.
const handshakeProtocolProbe = -1

// JavaOptions configures a single Java status probe.
type JavaOptions struct {
	Timeout time.Duration
}

// PingJava performs the handshake→status exchange against addr
// (already SRV-resolved, if applicable), writing the Handshake packet
// with originalHost/originalPort as the protocol requires: the host
// carried in the Handshake is the pre-SRV host, matching real clients.
func PingJava(ctx context.Context, addr string, originalHost string, originalPort int, opts JavaOptions) (Result, error) {
	start := time.Now()

	dialer := &net.Dialer{}
	connectStart := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	connectMs := time.Since(connectStart).Milliseconds()
	if err != nil {
		return Result{}, errors.WithMessage(ErrConnectTimeout, err.Error())
	}
	defer conn.Close()

	deadline := time.Now().Add(opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if err := writeHandshake(conn, originalHost, originalPort, handshakeProtocolProbe, 1); err != nil {
		return Result{}, errors.WithMessage(ErrFramingError, err.Error())
	}
	if err := wire.WritePacket(conn, 0x00, nil); err != nil {
		return Result{}, errors.WithMessage(ErrFramingError, err.Error())
	}

	pid, payload, err := wire.ReadPacket(conn, opts.Timeout)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return Result{}, errors.WithMessage(ErrReadTimeout, err.Error())
		}
		return Result{}, errors.WithMessage(ErrFramingError, err.Error())
	}
	if pid != 0x00 {
		return Result{}, errors.WithMessagef(ErrFramingError, "unexpected status response id %d", pid)
	}

	statusJSON, err := wire.ReadString(bytes.NewReader(payload), 0)
	if err != nil {
		return Result{}, errors.WithMessage(ErrFramingError, err.Error())
	}

	result, err := parseJavaStatus([]byte(statusJSON))
	if err != nil {
		return Result{}, errors.WithMessage(ErrDecodeError, err.Error())
	}

	result.Kind = record.KindJava
	result.ConnectMs = connectMs
	result.QueryMs = time.Since(start).Milliseconds()
	result.Timestamp = start
	return result, nil
}

func writeHandshake(w io.Writer, host string, port int, protocolVersion int32, nextState int32) error {
	payload := &bytes.Buffer{}
	wire.WriteVarInt(payload, protocolVersion)
	wire.WriteString(payload, host)
	wire.PutUint16(payload, uint16(port))
	wire.WriteVarInt(payload, nextState)
	return wire.WritePacket(w, 0x00, payload.Bytes())
}

// parseJavaStatus parses the status response body into a Result. On a
// JSON decode failure it attempts one recovery: Forge servers
// occasionally append data after the JSON body, so the first "}{"
// boundary is treated as the end of the real document and retried once.
func parseJavaStatus(data []byte) (Result, error) {
	parsed, err := gabs.ParseJSON(data)
	if err != nil {
		if idx := bytes.Index(data, []byte("}{")); idx >= 0 {
			parsed, err = gabs.ParseJSON(data[:idx+1])
		}
		if err != nil {
			return Result{}, err
		}
	}

	var result Result
	result.Version.Name, _ = parsed.Path("version.name").Data().(string)
	if proto, ok := parsed.Path("version.protocol").Data().(float64); ok {
		result.Version.Protocol = int(proto)
	}

	if online, ok := parsed.Path("players.online").Data().(float64); ok {
		result.Players.Online = int(online)
	}
	if max, ok := parsed.Path("players.max").Data().(float64); ok {
		result.Players.Max = int(max)
	}
	if sampleArr, ok := parsed.Path("players.sample").Data().([]interface{}); ok {
		for i := range sampleArr {
			entry := parsed.Path("players.sample").Index(i)
			name, _ := entry.Path("name").Data().(string)
			id, _ := entry.Path("id").Data().(string)
			result.Players.Sample = append(result.Players.Sample, PlayerSample{Name: name, ID: id})
		}
	}

	result.Motd = parseDescription(parsed.Path("description"))

	modType, _ := parsed.Path("modinfo.type").Data().(string)
	_, hasFML := parsed.Path("fml").Data().([]interface{})
	result.Forge = strings.EqualFold(modType, "forge") || strings.EqualFold(modType, "fml") || hasFML || parsed.Exists("fml")

	if modListArr, ok := parsed.Path("modinfo.modList").Data().([]interface{}); ok {
		for i := range modListArr {
			entry := parsed.Path("modinfo.modList").Index(i)
			modid, _ := entry.Path("modid").Data().(string)
			version, _ := entry.Path("version").Data().(string)
			result.Mods = append(result.Mods, record.ModEntry{ModID: modid, Version: version})
		}
	}

	return result, nil
}
