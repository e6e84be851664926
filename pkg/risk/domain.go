package risk

// Domain is one scored health-risk category.
type Domain string

const (
	DomainCardiovascular Domain = "cardiovascular"
	DomainMetabolic      Domain = "metabolic"
	DomainNeurological   Domain = "neurological"
	DomainCancer         Domain = "cancer"
)

// Domains lists the scored domains in their fixed reporting and
// tie-breaking priority order.
var Domains = []Domain{
	DomainCardiovascular,
	DomainMetabolic,
	DomainNeurological,
	DomainCancer,
}

// Band is the qualitative classification of a domain score.
type Band string

const (
	BandLow      Band = "low"
	BandModerate Band = "moderate"
	BandHigh     Band = "high"
)

// Banding thresholds. Both lower bounds are inclusive: a score of exactly
// ModerateThreshold classifies as moderate, exactly HighThreshold as high.
const (
	ModerateThreshold = 0.33
	HighThreshold     = 0.67
)

// BandFor classifies a score against the fixed thresholds.
func BandFor(score float64) Band {
	switch {
	case score >= HighThreshold:
		return BandHigh
	case score >= ModerateThreshold:
		return BandModerate
	default:
		return BandLow
	}
}

// PriorityRank returns the fixed tie-breaking rank of a domain, lower is
// more urgent. Domains beyond the documented set rank after it,
// alphabetically by name.
func PriorityRank(d Domain) int {
	for i, known := range Domains {
		if d == known {
			return i
		}
	}
	return len(Domains)
}
