package match

// Tier is a discrete classification of how likely two text records describe
// the same book.
type Tier string

// Confidence tiers, from strongest to weakest.
const (
	TierExact  Tier = "exact"
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
	TierNone   Tier = "none"
)

// Rank returns a comparable ordering for tiers (higher is stronger).
func (t Tier) Rank() int {
	switch t {
	case TierExact:
		return 4
	case TierHigh:
		return 3
	case TierMedium:
		return 2
	case TierLow:
		return 1
	default:
		return 0
	}
}

// Combined-score thresholds per tier. Monotonic by construction.
const (
	thresholdExact  = 0.97
	thresholdHigh   = 0.85
	thresholdMedium = 0.70
	thresholdLow    = 0.50
)

// Title and author weights when both scores are available.
const (
	weightTitle  = 0.70
	weightAuthor = 0.30
)

// Confidence is the classifier's verdict on a candidate pair.
type Confidence struct {
	Tier             Tier    `json:"tier"`
	Score            float64 `json:"score"`
	AutoLinkable     bool    `json:"auto_linkable"`
	SuggestionWorthy bool    `json:"suggestion_worthy"`
}

// Classify combines a title score and an optional author score into a
// confidence tier. Weights are 70% title / 30% author when an author is
// available; without author corroboration the title score stands alone but
// is capped below the exact tier.
//
// AutoLinkable pairs may be persisted without user confirmation.
// SuggestionWorthy pairs are surfaced to the user for manual review.
func Classify(titleScore float64, authorScore *float64) Confidence {
	combined := titleScore
	if authorScore != nil {
		combined = weightTitle*titleScore + weightAuthor*(*authorScore)
	}

	tier := tierFor(combined)
	if authorScore == nil && tier == TierExact {
		tier = TierHigh
	}

	return Confidence{
		Tier:             tier,
		Score:            combined,
		AutoLinkable:     tier == TierExact || tier == TierHigh,
		SuggestionWorthy: tier == TierMedium || tier == TierLow,
	}
}

// tierFor maps a combined score to its tier.
func tierFor(score float64) Tier {
	switch {
	case score >= thresholdExact:
		return TierExact
	case score >= thresholdHigh:
		return TierHigh
	case score >= thresholdMedium:
		return TierMedium
	case score >= thresholdLow:
		return TierLow
	default:
		return TierNone
	}
}
