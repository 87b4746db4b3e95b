package scoring

import "math"

// JaundiceRate returns the percentage of words found in charged, rounded to
// two decimal places. An empty word sequence scores 0.
func JaundiceRate(words []string, charged *ChargedWords) float64 {
	if len(words) == 0 {
		return 0.0
	}

	matches := 0
	for _, w := range words {
		if charged.Contains(w) {
			matches++
		}
	}

	rate := float64(matches) / float64(len(words)) * 100
	return math.Round(rate*100) / 100
}
