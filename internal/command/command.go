// Package command extracts deploy commands from mention text.
package command

import (
	"regexp"
	"strings"

	boterrors "github.com/edgard/gubot/internal/errors"
)

// Syntax is the message returned to users whose request does not match the pattern.
const Syntax = "ensure the command follows the correct syntax: deploy token 'NAME' with ticker 'SYMBOL' and description 'DESCRIPTION'"

// triggerPattern marks a mention as a deploy request. It accepts the same spacing
// as the opening of deployPattern.
var triggerPattern = regexp.MustCompile(`(?i)deploy\s+token`)

// Fields are single-quote delimited and may contain anything except a single quote.
var deployPattern = regexp.MustCompile(`(?i)deploy\s+token\s+'([^']*)'\s+with\s+ticker\s+'([^']*)'\s+and\s+description\s+'([^']*)'`)

// DeployCommand is the token described by a mention.
type DeployCommand struct {
	Name        string
	Symbol      string
	Description string
}

// HasTrigger reports whether text asks for a deployment at all.
func HasTrigger(text string) bool {
	return triggerPattern.MatchString(text)
}

// Parse extracts the first deploy command found anywhere in text. Field values are
// trimmed and otherwise passed through untouched.
func Parse(text string) (DeployCommand, error) {
	m := deployPattern.FindStringSubmatch(text)
	if m == nil {
		return DeployCommand{}, boterrors.NewCommandFormatError(Syntax)
	}

	return DeployCommand{
		Name:        strings.TrimSpace(m[1]),
		Symbol:      strings.TrimSpace(m[2]),
		Description: strings.TrimSpace(m[3]),
	}, nil
}
