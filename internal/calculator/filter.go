package calculator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultPlaceholderTokens are aggregate rows that are not a real counterparty
var DefaultPlaceholderTokens = []string{"bookmaker"}

// DefaultInPlayPatterns match event-time descriptors of markets that have started or are about to
var DefaultInPlayPatterns = []string{
	`\bin[\s-]?play\b`,
	`\blive\b`,
	`\bstarted\b`,
	`\bunderway\b`,
	`\bsuspended\b`,
	`\bstarts?\s+in\b`,
	`<\s*\d+\s*m(in)?`,
	`^\s*\d+\s*m(ins?)?(\s+\d+\s*s(ecs?)?)?\s*$`,
}

var parenthetical = regexp.MustCompile(`\(.*?\)`)

// NormalizeBookmaker reduces a bookmaker label to a comparison key:
// "(...)" segments and anything after the first hyphen are dropped, accents are
// stripped, the name is case-folded and whitespace removed.
func NormalizeBookmaker(name string) string {
	name = parenthetical.ReplaceAllString(name, "")
	if i := strings.Index(name, "-"); i >= 0 {
		name = name[:i]
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	name, _, _ = transform.String(t, name)
	name = cases.Fold().String(name)

	return strings.Join(strings.Fields(name), "")
}

// FilterPolicy holds the tunable rules applied before pair selection
type FilterPolicy struct {
	PlaceholderTokens []string
	InPlayPatterns    []*regexp.Regexp
	Anomaly           AnomalyRule
}

// NewFilterPolicy compiles the in-play patterns (case-insensitive) into a policy
func NewFilterPolicy(placeholders, inPlayPatterns []string, anomaly AnomalyRule) (FilterPolicy, error) {
	compiled := make([]*regexp.Regexp, 0, len(inPlayPatterns))
	for _, p := range inPlayPatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return FilterPolicy{}, fmt.Errorf("in-play pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	tokens := make([]string, 0, len(placeholders))
	for _, p := range placeholders {
		if n := NormalizeBookmaker(p); n != "" {
			tokens = append(tokens, n)
		}
	}

	return FilterPolicy{
		PlaceholderTokens: tokens,
		InPlayPatterns:    compiled,
		Anomaly:           anomaly,
	}, nil
}

// DefaultFilterPolicy returns the built-in policy. The anomaly rule ships without flagged
// bookmakers and stays inert until configured.
func DefaultFilterPolicy() FilterPolicy {
	policy, err := NewFilterPolicy(DefaultPlaceholderTokens, DefaultInPlayPatterns, DefaultAnomalyRule())
	if err != nil {
		panic(err)
	}
	return policy
}

// InPlay reports whether the event-time descriptor says the market is live or about to start
func (p FilterPolicy) InPlay(start string) bool {
	for _, re := range p.InPlayPatterns {
		if re.MatchString(start) {
			return true
		}
	}
	return false
}

func (p FilterPolicy) isPlaceholder(normalized string) bool {
	for _, token := range p.PlaceholderTokens {
		if normalized == token {
			return true
		}
	}
	return false
}

// Filter returns the quotes of both sides that are safe to pair. Placeholder rows and
// malformed quotes are dropped, in-play markets yield nothing, and the anomaly rule may
// remove a single suspicious best price per side.
func Filter(market models.Market, policy FilterPolicy) ([]models.Quote, []models.Quote) {
	left := policy.clean(market.LeftQuotes, models.SideLeft)
	right := policy.clean(market.RightQuotes, models.SideRight)

	if policy.InPlay(market.Start) {
		return nil, nil
	}

	agencies := market.AgencyCount
	if agencies <= 0 {
		agencies = distinctBookmakers(left, right)
	}

	dropLeft, dropRight := policy.Anomaly.Excluded(left, right, agencies)
	return without(left, dropLeft), without(right, dropRight)
}

func (p FilterPolicy) clean(quotes []models.Quote, side models.Side) []models.Quote {
	out := make([]models.Quote, 0, len(quotes))
	for _, q := range quotes {
		name := NormalizeBookmaker(q.Bookmaker)
		if name == "" || p.isPlaceholder(name) {
			continue
		}

		odds := QuoteOdds(q)
		if !validOdds(odds) {
			continue
		}

		q.Odds = odds
		q.Side = side
		out = append(out, q)
	}
	return out
}

func distinctBookmakers(sides ...[]models.Quote) int {
	seen := make(map[string]struct{})
	for _, quotes := range sides {
		for _, q := range quotes {
			seen[NormalizeBookmaker(q.Bookmaker)] = struct{}{}
		}
	}
	return len(seen)
}

func without(quotes []models.Quote, idx int) []models.Quote {
	if idx < 0 || idx >= len(quotes) {
		return quotes
	}
	out := make([]models.Quote, 0, len(quotes)-1)
	out = append(out, quotes[:idx]...)
	return append(out, quotes[idx+1:]...)
}
