package recommend

// DefaultLimit is the maximum number of recommendations returned.
const DefaultLimit = 6

// Option applies a configuration option to the HackathonRecommender.
type Option func(*HackathonRecommender)

// WithLimit caps the number of recommendations. Non-positive values are ignored.
func WithLimit(n int) Option {
	return func(r *HackathonRecommender) {
		if n > 0 {
			r.limit = n
		}
	}
}

// WithRankByMatchStrength orders eligible hackathons by the number of shared
// skills, descending, before truncation. Ties keep fetch order. Off by default,
// in which case the fetch order is preserved.
func WithRankByMatchStrength(enabled bool) Option {
	return func(r *HackathonRecommender) {
		r.rankByStrength = enabled
	}
}
