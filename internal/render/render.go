// Package render applies the single-server UI's color thresholds
// (spec.md §4.8) to a ProbeResult, using github.com/fatih/color
// (carried from officialpriyam-Propel-Wings' own terminal output
// styling) instead of hand-written ANSI escape sequences.
package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/mcobservatory/observatory/internal/probe"
)

// VersionLabel colors a Minecraft version string: 1.20/1.21 green, 1.19
// yellow, anything else red.
func VersionLabel(v probe.Version) string {
	switch {
	case strings.HasPrefix(v.Name, "1.20") || strings.HasPrefix(v.Name, "1.21"):
		return color.GreenString("%s", v.Name)
	case strings.HasPrefix(v.Name, "1.19"):
		return color.YellowString("%s", v.Name)
	default:
		return color.RedString("%s", v.Name)
	}
}

// PlayerCountLabel colors "online/max": red at 0 online, yellow below
// half capacity, green otherwise.
func PlayerCountLabel(p probe.Players) string {
	text := fmt.Sprintf("%d/%d", p.Online, p.Max)
	switch {
	case p.Online == 0:
		return color.RedString("%s", text)
	case p.Max > 0 && p.Online*2 < p.Max:
		return color.YellowString("%s", text)
	default:
		return color.GreenString("%s", text)
	}
}

// LatencyLabel colors a query latency in milliseconds: <=500ms green,
// <=1000ms yellow, else red.
func LatencyLabel(queryMs int64) string {
	text := fmt.Sprintf("%dms", queryMs)
	switch {
	case queryMs <= 500:
		return color.GreenString("%s", text)
	case queryMs <= 1000:
		return color.YellowString("%s", text)
	default:
		return color.RedString("%s", text)
	}
}
