package history

import "strings"

const delayPrefix = "DEMORA: "

// DelayText renders a delay annotation: "DEMORA: <code>" plus " - <note>" when
// the note is not blank.
func DelayText(code, note string) string {
	text := delayPrefix + code
	if note = strings.TrimSpace(note); note != "" {
		text += " - " + note
	}
	return text
}

// AppendObservation joins text onto an observation. An empty observation is
// replaced, one ending in "|" gets a space, anything else gets " | ".
func AppendObservation(current, text string) string {
	current = strings.TrimSpace(current)
	switch {
	case current == "":
		return text
	case strings.HasSuffix(current, "|"):
		return current + " " + text
	default:
		return current + " | " + text
	}
}
