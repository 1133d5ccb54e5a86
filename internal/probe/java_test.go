package probe

import (
	"bytes"
	"testing"

	"github.com/mcobservatory/observatory/internal/wire"
)

func TestJavaHandshakeFixture(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := writeHandshake(buf, "example.com", 25565, -1, 1); err != nil {
		t.Fatalf("writeHandshake: %v", err)
	}

	// Strip the outer VarInt length prefix; compare everything after it.
	_, consumed, err := wire.ReadVarIntBytes(buf.Bytes(), 0)
	if err != nil {
		t.Fatalf("strip length prefix: %v", err)
	}
	got := buf.Bytes()[consumed:]

	want := []byte{
		0x00,                   // packet id: Handshake
		0xFF, 0xFF, 0xFF, 0xFF, 0x0F, // VarInt(-1)
		0x0B, // string length: 11
	}
	want = append(want, []byte("example.com")...)
	want = append(want, 0x63, 0xDD) // port 25565, big-endian
	want = append(want, 0x01)       // next_state = 1 (status)

	if !bytes.Equal(got, want) {
		t.Fatalf("handshake bytes = % x, want % x", got, want)
	}
}

func TestParseJavaStatusOnlineExample(t *testing.T) {
	body := []byte(`{"version":{"name":"1.20.1","protocol":763},"players":{"online":2,"max":20,"sample":[{"name":"Alice","id":"abc"}]},"description":"Hi"}`)
	result, err := parseJavaStatus(body)
	if err != nil {
		t.Fatalf("parseJavaStatus: %v", err)
	}
	if result.Version.Name != "1.20.1" {
		t.Fatalf("version name = %q", result.Version.Name)
	}
	if result.Players.Online != 2 {
		t.Fatalf("online = %d", result.Players.Online)
	}
	if result.Motd != "Hi" {
		t.Fatalf("motd = %q", result.Motd)
	}
	if result.Forge {
		t.Fatal("expected forge=false")
	}
}

func TestParseJavaStatusForgeExample(t *testing.T) {
	body := []byte(`{"version":{"name":"1.20.1","protocol":763},"players":{"online":2,"max":20},"description":"Hi","modinfo":{"type":"FML","modList":[{"modid":"jei","version":"11.2"}]}}`)
	result, err := parseJavaStatus(body)
	if err != nil {
		t.Fatalf("parseJavaStatus: %v", err)
	}
	if !result.Forge {
		t.Fatal("expected forge=true")
	}
	if len(result.Mods) != 1 || result.Mods[0].ModID != "jei" || result.Mods[0].Version != "11.2" {
		t.Fatalf("mods = %+v", result.Mods)
	}
}

func TestParseJavaStatusRecoversTruncatedForgeTrailer(t *testing.T) {
	body := []byte(`{"version":{"name":"1.20.1","protocol":763},"players":{"online":0,"max":20},"description":"Hi"}{"garbage":true}`)
	result, err := parseJavaStatus(body)
	if err != nil {
		t.Fatalf("expected recovery, got error: %v", err)
	}
	if result.Motd != "Hi" {
		t.Fatalf("motd = %q", result.Motd)
	}
}
