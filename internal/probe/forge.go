package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"regexp"
	"strings"
	"time"

	"emperror.dev/errors"

	"github.com/mcobservatory/observatory/internal/record"
	"github.com/mcobservatory/observatory/internal/wire"
)

// ForgeOptions configures an optional login-phase mod discovery dialog.
type ForgeOptions struct {
	Timeout time.Duration
	// Username sent with LoginStart.
	Username string
	// ModHint, if non-empty, is sent verbatim as the mod-list reply
	// instead of heuristically-extracted tokens.
	ModHint []record.ModEntry
}

// heuristicTokenRE extracts modid/version-shaped ASCII substrings from a
// plugin-message payload, per SPEC_FULL §4.5 / forge_login_client.py.
var heuristicTokenRE = regexp.MustCompile(`[A-Za-z0-9_\-.]{3,}`)

var longNumericRE = regexp.MustCompile(`^\d{4,}$`)

// DiscoverMods performs the login-phase Forge/FML dialog: handshake with
// next_state=2, LoginStart, then a read loop over login packets. It
// returns the deduplicated mod list gathered from the server's own
// plugin-message payloads (or ModHint, if supplied) and stops cleanly on
// Disconnect, LoginSuccess, or an EncryptionRequest (ErrProtocolAbort —
// no credentials are available so the dialog cannot continue).
func DiscoverMods(ctx context.Context, addr string, originalHost string, originalPort int, opts ForgeOptions) ([]record.ModEntry, error) {
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.WithMessage(ErrConnectTimeout, err.Error())
	}
	defer conn.Close()

	deadline := time.Now().Add(opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if err := writeHandshake(conn, originalHost, originalPort, handshakeProtocolProbe, 2); err != nil {
		return nil, errors.WithMessage(ErrFramingError, err.Error())
	}
	username := opts.Username
	if username == "" {
		username = "ObservatoryBot"
	}
	loginPayload := &bytes.Buffer{}
	wire.WriteString(loginPayload, username)
	if err := wire.WritePacket(conn, 0x00, loginPayload.Bytes()); err != nil {
		return nil, errors.WithMessage(ErrFramingError, err.Error())
	}

	deadlineTotal := time.Now().Add(15 * time.Second)
	seen := map[string]record.ModEntry{}
	respondedChannel := ""

	for {
		select {
		case <-ctx.Done():
			return modEntries(seen), errors.WithMessage(ErrCanceled, ctx.Err().Error())
		default:
		}
		if time.Now().After(deadlineTotal) {
			break
		}

		pid, payload, err := wire.ReadPacket(conn, opts.Timeout)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			break
		}

		switch pid {
		case 0x00: // Disconnect
			return modEntries(seen), nil
		case 0x01: // Encryption Request
			return modEntries(seen), ErrProtocolAbort
		case 0x02: // Login Success
			return modEntries(seen), nil
		case 0x03: // Set Compression: keep reading. The threshold is not kept and later packets are not decompressed.
			continue
		default:
			channel, data, ok := parsePluginMessage(payload)
			if !ok {
				continue
			}
			for _, tok := range extractHeuristicTokens(data) {
				seen[tok] = tokenToModEntry(tok)
			}

			lower := strings.ToLower(channel)
			if respondedChannel == "" && (strings.Contains(lower, "fml") || strings.Contains(lower, "forge") || strings.Contains(lower, "mod")) {
				entries := opts.ModHint
				if len(entries) == 0 {
					entries = modEntries(seen)
				}
				if err := replyModList(conn, channel, entries); err == nil {
					respondedChannel = channel
				}
			}
		}
	}

	return modEntries(seen), nil
}

// parsePluginMessage interprets a login-phase packet payload as
// [channel_string][data], the shape used by custom-payload dialogs.
func parsePluginMessage(payload []byte) (channel string, data []byte, ok bool) {
	chLen, consumed, err := wire.ReadVarIntBytes(payload, 0)
	if err != nil || chLen < 0 || int(chLen)+consumed > len(payload) {
		return "", nil, false
	}
	channel = string(payload[consumed : consumed+int(chLen)])
	rest := payload[consumed+int(chLen):]
	return channel, rest, true
}

func extractHeuristicTokens(data []byte) []string {
	s := string(data)
	candidates := heuristicTokenRE.FindAllString(s, -1)
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if longNumericRE.MatchString(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func tokenToModEntry(tok string) record.ModEntry {
	if strings.Count(tok, ":") == 1 {
		parts := strings.SplitN(tok, ":", 2)
		return record.ModEntry{ModID: parts[0], Version: parts[1]}
	}
	return record.ModEntry{ModID: tok, Version: "unknown"}
}

func modEntries(seen map[string]record.ModEntry) []record.ModEntry {
	out := make([]record.ModEntry, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	return out
}

// replyModList sends a JSON-encoded [{id,version},...] mod list reply on
// the single channel the server actually used — the conservative variant
// of the Open Question in spec.md §9, rather than broadcasting across
// all known Forge/FML channel names.
func replyModList(conn net.Conn, channel string, mods []record.ModEntry) error {
	type modJSON struct {
		ID      string `json:"id"`
		Version string `json:"version"`
	}
	out := make([]modJSON, 0, len(mods))
	for _, m := range mods {
		out = append(out, modJSON{ID: m.ModID, Version: m.Version})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return err
	}

	payload := &bytes.Buffer{}
	wire.WriteString(payload, channel)
	wire.WriteVarInt(payload, int32(len(data)))
	payload.Write(data)
	return wire.WritePacket(conn, 0x17, payload.Bytes())
}
