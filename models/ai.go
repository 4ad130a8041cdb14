package models

// ReviewAnalysisRequest is the payload for /api/ai/reviews/analyze.
type ReviewAnalysisRequest struct {
	Text string `json:"text" binding:"required"`
}

// ReviewAnalysis is the AI quality assessment of a review.
type ReviewAnalysis struct {
	Score   int      `json:"score"` // 0 (useless) .. 10 (excellent)
	Flags   []string `json:"flags,omitempty"`
	Summary string   `json:"summary"`
}
