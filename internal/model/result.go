package model

// Result is the outcome of rating a single article URL.
//
// Score and WordsCount are set if and only if Status is StatusOK; for every
// other status both are nil and serialize as JSON null. A Result is a value
// type: each goroutine owns the Result it produced and hands over a copy.
type Result struct {
	// Status is the terminal processing status.
	Status ProcessingStatus `json:"status"`

	// URL is the article URL exactly as it was submitted.
	URL string `json:"url"`

	// Score is the jaundice rate in the range [0, 100], rounded to 2 decimals.
	Score *float64 `json:"score"`

	// WordsCount is the number of normalized words the score was computed over.
	WordsCount *int `json:"words_count"`
}

// NewOKResult builds a successful Result.
func NewOKResult(url string, score float64, wordsCount int) Result {
	return Result{
		Status:     StatusOK,
		URL:        url,
		Score:      &score,
		WordsCount: &wordsCount,
	}
}

// NewFailedResult builds a Result for a failed attempt.
// Passing StatusOK is a programming error and yields a result without score;
// use NewOKResult for successful ratings.
func NewFailedResult(url string, status ProcessingStatus) Result {
	return Result{
		Status: status,
		URL:    url,
	}
}

// OK reports whether the article was rated successfully.
func (r Result) OK() bool {
	return r.Status == StatusOK && r.Score != nil && r.WordsCount != nil
}

// ScoreValue returns the score, or 0 when the result carries none.
func (r Result) ScoreValue() float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// WordsCountValue returns the words count, or 0 when the result carries none.
func (r Result) WordsCountValue() int {
	if r.WordsCount == nil {
		return 0
	}
	return *r.WordsCount
}
