package match

import "testing"

func floatPtr(f float64) *float64 { return &f }

func TestClassifyTiers(t *testing.T) {
	tests := []struct {
		name        string
		title       float64
		author      *float64
		tier        Tier
		autoLink    bool
		suggestible bool
	}{
		{"perfect pair", 1.0, floatPtr(1.0), TierExact, true, false},
		{"strong title weak author", 1.0, floatPtr(0.5), TierHigh, true, false},
		{"containment pair", 0.95, floatPtr(0.9), TierHigh, true, false},
		{"medium", 0.75, floatPtr(0.7), TierMedium, false, true},
		{"low", 0.6, floatPtr(0.4), TierLow, false, true},
		{"none", 0.3, floatPtr(0.2), TierNone, false, false},
		// Without an author, a perfect title is capped below exact.
		{"no author capped", 1.0, nil, TierHigh, true, false},
		{"no author medium", 0.75, nil, TierMedium, false, true},
		{"no author none", 0.2, nil, TierNone, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.title, tt.author)
			if c.Tier != tt.tier {
				t.Errorf("tier: got %s, want %s", c.Tier, tt.tier)
			}
			if c.AutoLinkable != tt.autoLink {
				t.Errorf("AutoLinkable: got %v, want %v", c.AutoLinkable, tt.autoLink)
			}
			if c.SuggestionWorthy != tt.suggestible {
				t.Errorf("SuggestionWorthy: got %v, want %v", c.SuggestionWorthy, tt.suggestible)
			}
		})
	}
}

func TestClassifyMonotonic(t *testing.T) {
	// For a fixed author score, increasing the title score must never
	// decrease the assigned tier.
	authorScores := []*float64{nil, floatPtr(0), floatPtr(0.5), floatPtr(0.9), floatPtr(1.0)}

	for _, author := range authorScores {
		prevRank := -1
		for titleScore := 0.0; titleScore <= 1.0; titleScore += 0.01 {
			c := Classify(titleScore, author)
			if c.Tier.Rank() < prevRank {
				t.Fatalf("tier rank decreased at title=%v: %d -> %d", titleScore, prevRank, c.Tier.Rank())
			}
			prevRank = c.Tier.Rank()
		}
	}
}

func TestClassifyFlagsDisjoint(t *testing.T) {
	for titleScore := 0.0; titleScore <= 1.0; titleScore += 0.05 {
		c := Classify(titleScore, floatPtr(titleScore))
		if c.AutoLinkable && c.SuggestionWorthy {
			t.Fatalf("AutoLinkable and SuggestionWorthy both set at score %v", c.Score)
		}
	}
}
