package probe

import (
	"regexp"

	"github.com/Jeffail/gabs/v2"
)

// colorCodeRE matches a Minecraft formatting code: section sign followed
// by one hex digit or a style/reset letter.
var colorCodeRE = regexp.MustCompile(`§[0-9A-FK-ORa-fk-or]`)

// StripColor removes Minecraft formatting codes from s. Idempotent:
// StripColor(StripColor(s)) == StripColor(s).
func StripColor(s string) string {
	return colorCodeRE.ReplaceAllString(s, "")
}

// motd is the tagged variant from SPEC_FULL §3/§9: a description is
// either a plain string or a rich chat-component object with optional
// nested "extra" components. Unknown keys are ignored, not rejected,
// so forward-compatible additions never fail parsing.
type motd struct {
	text  string
	extra []motd
}

// parseDescription normalizes the "description" field of a status
// response (string or chat-component object) into a flattened MOTD
// string, colors intact. Colors are stripped only at render time, per
// SPEC_FULL §9.
func parseDescription(raw *gabs.Container) string {
	if raw == nil {
		return ""
	}
	if s, ok := raw.Data().(string); ok {
		return s
	}
	m := parseMotdContainer(raw)
	return flattenMotd(m)
}

func parseMotdContainer(c *gabs.Container) motd {
	var m motd
	if c == nil {
		return m
	}
	if text, ok := c.Path("text").Data().(string); ok {
		m.text = text
	}
	if extraArr, ok := c.Path("extra").Data().([]interface{}); ok {
		for i := range extraArr {
			child := c.Path("extra").Index(i)
			if s, ok := child.Data().(string); ok {
				m.extra = append(m.extra, motd{text: s})
				continue
			}
			m.extra = append(m.extra, parseMotdContainer(child))
		}
	}
	return m
}

func flattenMotd(m motd) string {
	out := m.text
	for _, e := range m.extra {
		out += flattenMotd(e)
	}
	return out
}
