package report

import (
	"math"

	"github.com/nao1215/newsfilter/internal/model"
)

// Summary aggregates a batch of results.
type Summary struct {
	Total        int
	ByStatus     map[model.ProcessingStatus]int
	Rated        int
	AverageScore float64
	// MostCharged is the OK result with the highest score, if any.
	MostCharged *model.Result
}

// Summarize computes a Summary. The average covers OK results only and is
// rounded to two decimals.
func Summarize(results []model.Result) Summary {
	s := Summary{
		Total:    len(results),
		ByStatus: make(map[model.ProcessingStatus]int, len(model.AllStatuses())),
	}

	var sum float64
	for i := range results {
		r := results[i]
		s.ByStatus[r.Status]++
		if !r.OK() {
			continue
		}
		s.Rated++
		sum += r.ScoreValue()
		if s.MostCharged == nil || r.ScoreValue() > s.MostCharged.ScoreValue() {
			s.MostCharged = &results[i]
		}
	}

	if s.Rated > 0 {
		s.AverageScore = math.Round(sum/float64(s.Rated)*100) / 100
	}
	return s
}

// Failed returns the number of results that were not rated.
func (s Summary) Failed() int {
	return s.Total - s.Rated
}
