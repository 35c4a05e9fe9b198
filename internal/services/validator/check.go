package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
)

// dominantShare: a value present in at least 9 out of 10 fields means the
// sample is mostly a repeated entry.
const (
	dominantNum = 9
	dominantDen = 10
)

// Check is the pre-submit gate. It returns the numeric readings to send when
// the FieldSet is complete, has a valid age and shows enough variation.
// Unparsable values become 0 rather than failing.
func Check(fields entities.FieldSet) (entities.Values, error) {
	if missing := fields.Missing(); len(missing) > 0 {
		return entities.Values{}, fmt.Errorf("%w: %s", ErrIncompleteInput, strings.Join(missing, ", "))
	}

	rawAge, _ := fields.Get(entities.AgeVariable)
	age, err := strconv.ParseFloat(strings.TrimSpace(rawAge), 64)
	if err != nil {
		return entities.Values{}, fmt.Errorf("%w: %q is not a number", ErrInvalidAge, rawAge)
	}
	if age < entities.MinAgeDays {
		return entities.Values{}, fmt.Errorf("%w: %g < %g", ErrInvalidAge, age, entities.MinAgeDays)
	}

	values := fields.Values()
	if err := checkVariation(&values); err != nil {
		return entities.Values{}, err
	}
	return values, nil
}

func checkVariation(values *entities.Values) error {
	allZero := true
	for _, v := range values {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return fmt.Errorf("%w: all values are zero", ErrInsufficientVariation)
	}

	freq := countFrequencies(values)
	if freq.distinct() == 1 {
		return fmt.Errorf("%w: all values are equal", ErrInsufficientVariation)
	}
	if v, count := freq.mode(); count*dominantDen >= freq.total*dominantNum {
		return fmt.Errorf("%w: %g appears in %d of %d fields", ErrInsufficientVariation, v, count, freq.total)
	}
	return nil
}
