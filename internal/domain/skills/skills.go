// Package skills holds the set arithmetic shared by the recommender and the teammate matcher.
//
// Skill tags are opaque strings compared by exact value. Unknown tags are
// never an error; they simply fail to match.
package skills

// Set is an unordered collection of skill tags.
type Set map[string]struct{}

// NewSet builds a set from tags. Duplicates collapse.
func NewSet(tags []string) Set {
	s := make(Set, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether tag is in the set.
func (s Set) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Len returns the number of distinct tags.
func (s Set) Len() int { return len(s) }

// Unique returns tags with later duplicates removed, order preserved.
func Unique(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Intersect returns the tags of ordered that are also in set, keeping the
// order of ordered and dropping repeats. The result is never nil.
func Intersect(ordered []string, set Set) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, t := range ordered {
		if !set.Has(t) {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Percentage returns round(100*num/den) with halves rounded up, clamped to
// 0..100. A zero or negative denominator yields 0.
func Percentage(num, den int) int {
	if den <= 0 || num <= 0 {
		return 0
	}
	if num >= den {
		return 100
	}
	return (200*num + den) / (2 * den)
}
