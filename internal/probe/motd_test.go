package probe

import "testing"

func TestStripColorIdempotent(t *testing.T) {
	inputs := []string{
		"§aHello§r World",
		"plain text",
		"§l§kbold-obfuscated§r",
		"",
	}
	for _, in := range inputs {
		once := StripColor(in)
		twice := StripColor(once)
		if once != twice {
			t.Fatalf("StripColor not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestStripColorExample(t *testing.T) {
	got := StripColor("§aHello§r World")
	want := "Hello World"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
