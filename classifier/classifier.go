package classifier

import (
	"sort"
	"strings"

	"incident-intel-service/models"
)

// Config holds classifier tuning. ScaleFactor converts a raw weighted
// keyword count into a 0-100 confidence; the result saturates at 100.
type Config struct {
	Lexicon      Lexicon
	TieBreak     []models.Category
	ScaleFactor  int
	MaxSuggested int
}

// DefaultConfig returns the built-in classifier configuration.
func DefaultConfig() Config {
	return Config{
		Lexicon:      DefaultLexicon(),
		TieBreak:     TieBreakOrder,
		ScaleFactor:  12,
		MaxSuggested: 3,
	}
}

// Classifier scores free-text reports against category keyword tables.
// It holds only immutable configuration and is safe for concurrent use.
type Classifier struct {
	cfg     Config
	tieRank map[models.Category]int
}

// New creates a classifier from the given configuration.
func New(cfg Config) *Classifier {
	rank := make(map[models.Category]int, len(cfg.TieBreak))
	for i, cat := range cfg.TieBreak {
		rank[cat] = i
	}
	return &Classifier{cfg: cfg, tieRank: rank}
}

// Classify scores title+description against every category lexicon and
// returns the best category with a 0-100 confidence plus up to
// MaxSuggested runner-up categories. When nothing matches, the result is
// category "other" with confidence 0 and no suggestions.
func (c *Classifier) Classify(title, description string) (models.ClassificationResult, error) {
	if strings.TrimSpace(title) == "" {
		return models.ClassificationResult{}, models.Validationf("title", "must not be empty")
	}
	if strings.TrimSpace(description) == "" {
		return models.ClassificationResult{}, models.Validationf("description", "must not be empty")
	}

	text := strings.ToLower(title + " " + description)
	tokens := tokenize(text)

	type catScore struct {
		cat models.Category
		raw int
	}
	scores := make([]catScore, 0, len(c.cfg.Lexicon))
	for cat, keywords := range c.cfg.Lexicon {
		raw := 0
		for _, kw := range keywords {
			raw += kw.Weight * countMatches(text, tokens, kw.Phrase)
		}
		if raw > 0 {
			scores = append(scores, catScore{cat: cat, raw: raw})
		}
	}

	if len(scores) == 0 {
		return models.ClassificationResult{
			Category:            models.CategoryOther,
			Confidence:          0,
			SuggestedCategories: []models.Category{},
		}, nil
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].raw != scores[j].raw {
			return scores[i].raw > scores[j].raw
		}
		return c.rank(scores[i].cat) < c.rank(scores[j].cat)
	})

	confidence := scores[0].raw * c.cfg.ScaleFactor
	if confidence > 100 {
		confidence = 100
	}

	suggested := []models.Category{}
	for _, s := range scores[1:] {
		if len(suggested) >= c.cfg.MaxSuggested {
			break
		}
		suggested = append(suggested, s.cat)
	}

	return models.ClassificationResult{
		Category:            scores[0].cat,
		Confidence:          confidence,
		SuggestedCategories: suggested,
	}, nil
}

func (c *Classifier) rank(cat models.Category) int {
	if r, ok := c.tieRank[cat]; ok {
		return r
	}
	return len(c.tieRank)
}

// countMatches counts occurrences of phrase in the text. Multi-word
// phrases use substring counting; single words must match whole tokens so
// "gun" does not fire on "Laguna".
func countMatches(text string, tokens []string, phrase string) int {
	if strings.Contains(phrase, " ") || strings.Contains(phrase, "-") {
		return strings.Count(text, phrase)
	}
	n := 0
	for _, tok := range tokens {
		if tok == phrase {
			n++
		}
	}
	return n
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= '0' && r <= '9' {
			return false
		}
		return true
	})
}
