package bot

import "strings"

// customIDSep separates the routing prefix and payload arguments inside a
// component custom id. Interaction handlers carry their full payload in the
// custom id so no mutable state lives on the handler between the prompt and
// the button press.
const customIDSep = ":"

// CustomID is a parsed component custom id: a routing prefix plus the
// payload arguments the confirming handler needs to act.
type CustomID struct {
	Prefix string
	Args   []string
}

// NewCustomID builds a custom id from a prefix and payload arguments.
func NewCustomID(prefix string, args ...string) CustomID {
	return CustomID{Prefix: prefix, Args: args}
}

// String encodes the custom id for the wire. Discord caps custom ids at 100
// characters; payloads here are currency codes, amounts and usernames, which
// stay well under that.
func (c CustomID) String() string {
	if len(c.Args) == 0 {
		return c.Prefix
	}
	return c.Prefix + customIDSep + strings.Join(c.Args, customIDSep)
}

// ParseCustomID splits a wire custom id back into prefix and arguments.
func ParseCustomID(raw string) CustomID {
	parts := strings.Split(raw, customIDSep)
	return CustomID{Prefix: parts[0], Args: parts[1:]}
}

// Arg returns the i-th payload argument, or an empty string when absent.
func (c CustomID) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}
