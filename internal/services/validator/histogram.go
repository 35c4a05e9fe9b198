package validator

import "github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"

type bucket struct {
	value float64
	count int
}

// frequency is an ordered count of distinct values. Buckets appear in the
// order their value is first met, so ties on the mode are reproducible.
type frequency struct {
	buckets [entities.NumFields]bucket
	n       int // distinct values
	total   int
}

func countFrequencies(values *entities.Values) frequency {
	var f frequency
	for _, v := range values {
		f.total++
		found := false
		for i := 0; i < f.n; i++ {
			if f.buckets[i].value == v {
				f.buckets[i].count++
				found = true
				break
			}
		}
		if !found {
			f.buckets[f.n] = bucket{value: v, count: 1}
			f.n++
		}
	}
	return f
}

// mode returns the most frequent value; the first bucket wins on ties.
func (f *frequency) mode() (float64, int) {
	var best bucket
	for i := 0; i < f.n; i++ {
		if f.buckets[i].count > best.count {
			best = f.buckets[i]
		}
	}
	return best.value, best.count
}

func (f *frequency) distinct() int { return f.n }
