package validator

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
)

// fill sets every field to the matching value of vals (cycled) and the age to age.
func fill(t *testing.T, age string, vals ...string) entities.FieldSet {
	t.Helper()
	fs := entities.NewFieldSet()
	for i, name := range entities.FieldNames() {
		require.True(t, fs.Set(name, vals[i%len(vals)]))
	}
	require.True(t, fs.Set(entities.AgeVariable, age))
	return fs
}

func varied(t *testing.T, age string) entities.FieldSet {
	t.Helper()
	fs := entities.NewFieldSet()
	for i, name := range entities.FieldNames() {
		require.True(t, fs.Set(name, strconv.Itoa(i%4+1)))
	}
	require.True(t, fs.Set(entities.AgeVariable, age))
	return fs
}

func TestCheckIncomplete(t *testing.T) {
	fs := varied(t, "45")
	require.True(t, fs.Set("LIMO", ""))

	_, err := Check(fs)
	require.ErrorIs(t, err, ErrIncompleteInput)
	assert.Contains(t, err.Error(), "LIMO")
	assert.Equal(t, "Por favor complete todos los campos antes de procesar.", UserMessage(err))
}

func TestCheckAge(t *testing.T) {
	t.Run("below threshold", func(t *testing.T) {
		_, err := Check(varied(t, "29.9"))
		assert.ErrorIs(t, err, ErrInvalidAge)
	})

	t.Run("at threshold", func(t *testing.T) {
		_, err := Check(varied(t, "30.0"))
		assert.NoError(t, err)
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := Check(varied(t, "."))
		assert.ErrorIs(t, err, ErrInvalidAge)
	})
}

func TestCheckVariation(t *testing.T) {
	t.Run("all fields equal", func(t *testing.T) {
		_, err := Check(fill(t, "5", "5"))
		require.ErrorIs(t, err, ErrInvalidAge) // 5 days is too young
		_, err = Check(fill(t, "50", "50"))
		require.ErrorIs(t, err, ErrInsufficientVariation)
		assert.Contains(t, err.Error(), "all values are equal")
	})

	t.Run("23 of 25 share a value", func(t *testing.T) {
		fs := fill(t, "40", "40")
		require.True(t, fs.Set("PH", "6"))
		require.True(t, fs.Set("K", "0.7"))

		_, err := Check(fs)
		require.ErrorIs(t, err, ErrInsufficientVariation)
		assert.Contains(t, err.Error(), "23 of 25")
	})

	t.Run("22 of 25 is below the threshold", func(t *testing.T) {
		fs := fill(t, "40", "40")
		require.True(t, fs.Set("PH", "6"))
		require.True(t, fs.Set("K", "0.7"))
		require.True(t, fs.Set("B", "1.1"))

		_, err := Check(fs)
		assert.NoError(t, err)
	})

	t.Run("unparsable values count as zero", func(t *testing.T) {
		fs := fill(t, "40", ".")
		_, err := Check(fs)
		require.ErrorIs(t, err, ErrInsufficientVariation)
		assert.Contains(t, err.Error(), "0 appears in 24 of 25")
	})

	t.Run("four distinct values pass", func(t *testing.T) {
		values, err := Check(varied(t, "120"))
		require.NoError(t, err)
		assert.Equal(t, 120.0, values[0])
		assert.Equal(t, 2.0, values[1])
	})
}

func TestCheckAllZero(t *testing.T) {
	var v entities.Values
	err := checkVariation(&v)
	require.ErrorIs(t, err, ErrInsufficientVariation)
	assert.Contains(t, err.Error(), "all values are zero")
}

func TestFrequencyTieBreak(t *testing.T) {
	var v entities.Values
	for i := range v {
		switch {
		case i < 10:
			v[i] = 7
		case i < 20:
			v[i] = 3
		default:
			v[i] = float64(i)
		}
	}
	f := countFrequencies(&v)
	value, count := f.mode()
	assert.Equal(t, 7.0, value)
	assert.Equal(t, 10, count)
	assert.Equal(t, 7, f.distinct())
}
