package probe

import (
	"bytes"
	"testing"

	"github.com/mcobservatory/observatory/internal/wire"
)

func TestParsePluginMessage(t *testing.T) {
	payload := &bytes.Buffer{}
	wire.WriteString(payload, "fml:handshake")
	payload.WriteString("somemodid:1.2.3 extra")

	channel, data, ok := parsePluginMessage(payload.Bytes())
	if !ok {
		t.Fatal("expected ok")
	}
	if channel != "fml:handshake" {
		t.Fatalf("channel = %q", channel)
	}
	if string(data) != "somemodid:1.2.3 extra" {
		t.Fatalf("data = %q", data)
	}
}

func TestExtractHeuristicTokensExcludesLongNumerics(t *testing.T) {
	tokens := extractHeuristicTokens([]byte("jei-11.2.0 12345678 a1"))
	found := map[string]bool{}
	for _, tok := range tokens {
		found[tok] = true
	}
	if !found["jei-11.2.0"] {
		t.Fatalf("expected jei-11.2.0 in %v", tokens)
	}
	if found["12345678"] {
		t.Fatalf("did not expect long numeric run in %v", tokens)
	}
	if found["a1"] {
		t.Fatalf("token shorter than 3 chars should not be extracted: %v", tokens)
	}
}
