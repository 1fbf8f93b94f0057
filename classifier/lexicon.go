package classifier

import "incident-intel-service/models"

// Keyword is a single lexicon entry. Multi-word phrases carry a higher
// weight than single words because they are more specific evidence.
type Keyword struct {
	Phrase string
	Weight int
}

// Lexicon maps each category to its keyword/phrase table.
type Lexicon map[models.Category][]Keyword

const (
	weightPhrase = 3
	weightStrong = 2
	weightWeak   = 1
)

// DefaultLexicon returns the built-in category keyword tables. The tables
// are plain data so alternative lexicons can be swapped in for testing or
// per-barangay tuning.
func DefaultLexicon() Lexicon {
	return Lexicon{
		models.CategoryCrime: {
			{Phrase: "breaking and entering", Weight: weightPhrase},
			{Phrase: "snatched my", Weight: weightPhrase},
			{Phrase: "holdup", Weight: weightStrong},
			{Phrase: "hold-up", Weight: weightStrong},
			{Phrase: "robbery", Weight: weightStrong},
			{Phrase: "robbed", Weight: weightStrong},
			{Phrase: "theft", Weight: weightStrong},
			{Phrase: "stolen", Weight: weightStrong},
			{Phrase: "stealing", Weight: weightStrong},
			{Phrase: "burglary", Weight: weightStrong},
			{Phrase: "snatching", Weight: weightStrong},
			{Phrase: "assault", Weight: weightStrong},
			{Phrase: "mugging", Weight: weightStrong},
			{Phrase: "vandalism", Weight: weightStrong},
			{Phrase: "trespassing", Weight: weightStrong},
			{Phrase: "weapon", Weight: weightStrong},
			{Phrase: "knife", Weight: weightWeak},
			{Phrase: "gun", Weight: weightWeak},
			{Phrase: "suspicious", Weight: weightWeak},
			{Phrase: "thief", Weight: weightStrong},
		},
		models.CategoryNoise: {
			{Phrase: "loud music", Weight: weightPhrase},
			{Phrase: "loud karaoke", Weight: weightPhrase},
			{Phrase: "noise complaint", Weight: weightPhrase},
			{Phrase: "past midnight", Weight: weightPhrase},
			{Phrase: "karaoke", Weight: weightStrong},
			{Phrase: "videoke", Weight: weightStrong},
			{Phrase: "noisy", Weight: weightStrong},
			{Phrase: "noise", Weight: weightStrong},
			{Phrase: "loud", Weight: weightWeak},
			{Phrase: "barking", Weight: weightWeak},
			{Phrase: "party", Weight: weightWeak},
			{Phrase: "shouting", Weight: weightWeak},
			{Phrase: "disturbance", Weight: weightWeak},
		},
		models.CategoryDispute: {
			{Phrase: "boundary dispute", Weight: weightPhrase},
			{Phrase: "family feud", Weight: weightPhrase},
			{Phrase: "neighbor dispute", Weight: weightPhrase},
			{Phrase: "land dispute", Weight: weightPhrase},
			{Phrase: "quarrel", Weight: weightStrong},
			{Phrase: "argument", Weight: weightStrong},
			{Phrase: "altercation", Weight: weightStrong},
			{Phrase: "dispute", Weight: weightStrong},
			{Phrase: "feud", Weight: weightStrong},
			{Phrase: "confrontation", Weight: weightStrong},
			{Phrase: "fight", Weight: weightWeak},
			{Phrase: "threatening", Weight: weightWeak},
		},
		models.CategoryHazard: {
			{Phrase: "fallen tree", Weight: weightPhrase},
			{Phrase: "open manhole", Weight: weightPhrase},
			{Phrase: "exposed wire", Weight: weightPhrase},
			{Phrase: "road damage", Weight: weightPhrase},
			{Phrase: "landslide", Weight: weightStrong},
			{Phrase: "flooding", Weight: weightStrong},
			{Phrase: "flood", Weight: weightStrong},
			{Phrase: "fire", Weight: weightStrong},
			{Phrase: "smoke", Weight: weightStrong},
			{Phrase: "collapsed", Weight: weightStrong},
			{Phrase: "debris", Weight: weightWeak},
			{Phrase: "slippery", Weight: weightWeak},
			{Phrase: "blocked", Weight: weightWeak},
			{Phrase: "hazard", Weight: weightStrong},
		},
		models.CategoryHealth: {
			{Phrase: "needs ambulance", Weight: weightPhrase},
			{Phrase: "heart attack", Weight: weightPhrase},
			{Phrase: "difficulty breathing", Weight: weightPhrase},
			{Phrase: "unconscious", Weight: weightStrong},
			{Phrase: "bleeding", Weight: weightStrong},
			{Phrase: "injured", Weight: weightStrong},
			{Phrase: "injury", Weight: weightStrong},
			{Phrase: "ambulance", Weight: weightStrong},
			{Phrase: "seizure", Weight: weightStrong},
			{Phrase: "overdose", Weight: weightStrong},
			{Phrase: "medical", Weight: weightStrong},
			{Phrase: "sick", Weight: weightWeak},
			{Phrase: "fever", Weight: weightWeak},
			{Phrase: "dizzy", Weight: weightWeak},
		},
		models.CategoryUtility: {
			{Phrase: "power outage", Weight: weightPhrase},
			{Phrase: "water leak", Weight: weightPhrase},
			{Phrase: "busted pipe", Weight: weightPhrase},
			{Phrase: "no water", Weight: weightPhrase},
			{Phrase: "street light", Weight: weightPhrase},
			{Phrase: "streetlight", Weight: weightStrong},
			{Phrase: "brownout", Weight: weightStrong},
			{Phrase: "blackout", Weight: weightStrong},
			{Phrase: "outage", Weight: weightStrong},
			{Phrase: "leaking", Weight: weightWeak},
			{Phrase: "electricity", Weight: weightWeak},
			{Phrase: "drainage", Weight: weightWeak},
		},
	}
}

// TieBreakOrder is the fixed category precedence used when two categories
// score identically. Safety-critical categories come first.
var TieBreakOrder = []models.Category{
	models.CategoryCrime,
	models.CategoryHealth,
	models.CategoryHazard,
	models.CategoryDispute,
	models.CategoryUtility,
	models.CategoryNoise,
	models.CategoryOther,
}
