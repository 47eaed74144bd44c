package handlers

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/edgard/gubot/internal/command"
)

// maxReplyLength is the X post limit in weighted characters.
const maxReplyLength = 280

const (
	suffixLayout   = "20060102150405"
	ellipsis       = "..."
	deployedFormat = "Your token '%s' with ticker '%s' has been deployed! Transaction hash: %s"
)

// DeployedReply is the reply text for a successful deployment. The transaction hash
// and suffix are always kept whole; an oversized name, then symbol, is shortened instead.
func DeployedReply(cmd command.DeployCommand, txHash, suffix string) string {
	budget := maxReplyLength - weightedLen(fmt.Sprintf(deployedFormat, "", "", txHash)) - 1 - weightedLen(suffix)

	name, symbol := cmd.Name, cmd.Symbol
	if over := weightedLen(name) + weightedLen(symbol) - budget; over > 0 {
		name = shorten(name, max(weightedLen(name)-over, len(ellipsis)))
	}
	if over := weightedLen(name) + weightedLen(symbol) - budget; over > 0 {
		symbol = shorten(symbol, max(weightedLen(symbol)-over, len(ellipsis)))
	}

	return fitReply(fmt.Sprintf(deployedFormat, name, symbol, txHash), suffix)
}

// FailedReply is the reply text for a command that could not be parsed or deployed.
func FailedReply(err error, suffix string) string {
	body := fmt.Sprintf("There was an error processing your request: %v", err)
	return fitReply(body, suffix)
}

// fitReply joins body and suffix, cutting body so the result stays within maxReplyLength.
// The suffix is never cut: it is what keeps the reply from being rejected as a duplicate.
func fitReply(body, suffix string) string {
	body = shorten(body, maxReplyLength-weightedLen(suffix)-1)
	if body == "" {
		return suffix
	}
	return body + " " + suffix
}

// xWeight is what r counts toward the post limit. X counts Latin, Greek, Cyrillic and
// most other scripts below U+1100, plus some general punctuation, as one; everything
// else, CJK and emoji included, as two.
func xWeight(r rune) int {
	switch {
	case r <= 0x10FF,
		r >= 0x2000 && r <= 0x200D,
		r >= 0x2010 && r <= 0x201F,
		r >= 0x2032 && r <= 0x2037:
		return 1
	default:
		return 2
	}
}

// weightedLen is the length of s as X counts it. Multi-rune emoji sequences are
// counted per rune, which overestimates them.
func weightedLen(s string) int {
	n := 0
	for _, r := range s {
		n += xWeight(r)
	}
	return n
}

// cutToWeight returns the longest prefix of s weighing at most limit.
func cutToWeight(s string, limit int) string {
	w := 0
	for i, r := range s {
		w += xWeight(r)
		if w > limit {
			return s[:i]
		}
	}
	return s
}

// shorten cuts s to weigh at most limit, marking the cut with an ellipsis when
// there is room for one.
func shorten(s string, limit int) string {
	if weightedLen(s) <= limit {
		return s
	}
	if limit <= len(ellipsis) {
		return cutToWeight(ellipsis, limit)
	}
	return strings.TrimRightFunc(cutToWeight(s, limit-len(ellipsis)), unicode.IsSpace) + ellipsis
}

// Suffixer issues reply suffixes of the form YYYYMMDDhhmmss_<random>. A suffix is never
// issued twice by the same Suffixer.
type Suffixer struct {
	now    func() time.Time
	random func() string

	mu     sync.Mutex
	second string
	issued map[string]struct{}
}

// NewSuffixer returns a Suffixer using the UTC wall clock and a short uuid fragment.
func NewSuffixer() *Suffixer {
	return newSuffixer(time.Now, func() string { return uuid.NewString()[:8] })
}

func newSuffixer(now func() time.Time, random func() string) *Suffixer {
	return &Suffixer{
		now:    now,
		random: random,
		issued: make(map[string]struct{}),
	}
}

// Next returns a fresh suffix.
func (s *Suffixer) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The layout is fixed width, so string order is time order. Stamps never go
	// backwards, which lets suffixes from earlier seconds be forgotten.
	stamp := s.now().UTC().Format(suffixLayout)
	if stamp < s.second {
		stamp = s.second
	}
	if stamp != s.second {
		s.second = stamp
		clear(s.issued)
	}

	for attempt := 0; ; attempt++ {
		candidate := stamp + "_" + s.random()
		if attempt > 0 {
			candidate = fmt.Sprintf("%s%d", candidate, attempt)
		}
		if _, dup := s.issued[candidate]; !dup {
			s.issued[candidate] = struct{}{}
			return candidate
		}
	}
}
