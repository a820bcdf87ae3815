package model

// MatchResult pairs a scored candidate with its match percentage (0..100)
// and the skills it shares with the user. It is computed per request and never stored.
type MatchResult[T any] struct {
	Candidate       T        `json:"candidate"`
	MatchPercentage int      `json:"match_percentage"`
	MatchingSkills  []string `json:"matching_skills"`
}
