package models

// ScoreRequest asks for the FAD of an evaluation directory against the
// configured background set.
type ScoreRequest struct {
	EvalDir string `json:"eval_dir"`
}

// ScoreResponse is the outcome of a score request. When Empty is true the
// evaluation or background set had no items and FAD carries no meaning.
type ScoreResponse struct {
	ID        string  `json:"id"`
	FAD       float64 `json:"fad"`
	Empty     bool    `json:"empty"`
	EvalItems int     `json:"eval_items"`
	EvalRows  int     `json:"eval_rows"`
	QueryTime int64   `json:"query_time"` // milliseconds
}

// BackgroundResponse describes the cached background statistics.
type BackgroundResponse struct {
	CacheKey   string `json:"cache_key"`
	Dimensions int    `json:"dimensions"`
	Empty      bool   `json:"empty"`
}
