package models

const (
	RecommendationBasedOnHistory = "based_on_history"
	RecommendationTrending       = "trending"
)

// Recommendation is the tagged result of the recommendation engine
type Recommendation struct {
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Data     []Event `json:"data"`
}
