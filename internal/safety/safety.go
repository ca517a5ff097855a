// Package safety implements the pattern-based content filter applied to both
// user input and model output.
package safety

import (
	"regexp"
	"strings"
)

// The character classes cover common leetspeak look-alikes so trivial
// substitutions do not slip past the filter. False positives are preferred
// over false negatives.
var blocklist = []string{
	// Hate speech & slurs (examples, not exhaustive)
	`n[i!1]gg[e3]r`, `k[i!1]k[e3]`, `sp[i!1]c`, `ch[i!1]nk`,
	// Explicit violence
	`kill\s(your|them)self`, `i want to kill`, `murder them`, `bomb the place`, `shoot up`,
	// Doxxing-related terms
	`doxx[i!1]ng`, `release personal info`, `address is`, `phone number is`, `social security number`,
	// Illegal instructions
	`how to make a bomb`, `how to cook meth`, `steal credit card`, `how to commit fraud`,
}

var blocklistRe = regexp.MustCompile(`(?i)` + strings.Join(blocklist, "|"))

// IsSafe reports whether text is free of blocklisted patterns. It is applied
// unchanged to inputs and outputs.
func IsSafe(text string) bool {
	return !blocklistRe.MatchString(text)
}
