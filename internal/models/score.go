package models

// ScoreResult is one reranked candidate: the original document index, the raw
// relevance logit (unbounded sign), and the document text itself.
type ScoreResult struct {
	Index    int     `json:"index"`
	Score    float32 `json:"score"`
	Document string  `json:"document"`
}

// BatchProgress reports completion of one pipeline batch. Current is 1-based;
// 1 <= Current <= Total always holds when a callback fires.
type BatchProgress struct {
	Current   int `json:"current"`
	Total     int `json:"total"`
	BatchSize int `json:"batch_size"`
}

// Percent returns completion as a fraction in [0, 1].
func (p BatchProgress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total)
}
