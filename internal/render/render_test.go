package render

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/mcobservatory/observatory/internal/probe"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestVersionLabelThresholds(t *testing.T) {
	cases := map[string]string{"1.21.0": "1.21.0", "1.20.4": "1.20.4", "1.19.2": "1.19.2", "1.8.9": "1.8.9"}
	for in, want := range cases {
		if got := VersionLabel(probe.Version{Name: in}); got != want {
			t.Errorf("VersionLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlayerCountLabelFormatsOnlineSlashMax(t *testing.T) {
	got := PlayerCountLabel(probe.Players{Online: 3, Max: 20})
	if !strings.Contains(got, "3/20") {
		t.Fatalf("PlayerCountLabel = %q", got)
	}
}

func TestLatencyLabelFormatsMilliseconds(t *testing.T) {
	got := LatencyLabel(120)
	if got != "120ms" {
		t.Fatalf("LatencyLabel = %q", got)
	}
}
