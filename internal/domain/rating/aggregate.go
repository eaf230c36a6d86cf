package rating

// Aggregate is the incrementally maintained reputation for one user:
// the running sum and count over every rating naming them as the rated
// party. It must always equal the true mean of the stored rows.
type Aggregate struct {
	Sum   int64
	Count int64
}

// Add folds one more score into the aggregate.
func (agg *Aggregate) Add(score int) {
	agg.Sum += int64(score)
	agg.Count++
}

// Average returns the mean score, 0 when no ratings exist.
func (agg Aggregate) Average() float64 {
	if agg.Count == 0 {
		return 0
	}
	return float64(agg.Sum) / float64(agg.Count)
}
