package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
	sim "github.com/LeonardoBeccarini/coffee_forecast/internal/sensor-simulator"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/forecast"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/validator"
)

func TestParseInput(t *testing.T) {
	c, fs, err := parseInput([]byte(`
category: sarchimor
fields:
  EDAD_EN_DIAS: 120
  PH: 5.5
  CE: "0.8"
  LIMO:
`))
	require.NoError(t, err)
	assert.Equal(t, entities.CategorySarchimor, c)

	age, _ := fs.Get(entities.AgeVariable)
	assert.Equal(t, "120", age)
	ph, _ := fs.Get("PH")
	assert.Equal(t, "5.5", ph)
	ce, _ := fs.Get("CE")
	assert.Equal(t, "0.8", ce)
	assert.Contains(t, fs.Missing(), "LIMO")
}

func TestParseInputRejects(t *testing.T) {
	t.Run("negative value", func(t *testing.T) {
		_, _, err := parseInput([]byte("fields:\n  PH: -1\n"))
		assert.ErrorContains(t, err, "PH")
	})
	t.Run("unknown field", func(t *testing.T) {
		_, _, err := parseInput([]byte("fields:\n  COLOR: 3\n"))
		assert.ErrorContains(t, err, "COLOR")
	})
	t.Run("unknown category", func(t *testing.T) {
		_, _, err := parseInput([]byte("category: robusta\n"))
		assert.Error(t, err)
	})
	t.Run("default category", func(t *testing.T) {
		c, _, err := parseInput([]byte("fields: {}\n"))
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultCategory, c)
	})
}

func TestEncodeInputRoundTrip(t *testing.T) {
	fs, err := sim.NewDataGenerator(3).Next()
	require.NoError(t, err)

	doc, err := encodeInput(entities.CategorySarchimor, fs)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "category: Sarchimor")

	c, back, err := parseInput(doc)
	require.NoError(t, err)
	assert.Equal(t, entities.CategorySarchimor, c)
	for i, v := range entities.Variables {
		assert.InDelta(t, entities.ParseLenient(fs.At(i)), entities.ParseLenient(back.At(i)), 1e-9, v.Name)
	}
}

func TestValidate(t *testing.T) {
	fs, err := sim.NewDataGenerator(9).Next()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, validate(&out, entities.CategoryManabi01, fs))
	assert.Contains(t, out.String(), "ok: Manabi01")

	require.True(t, fs.Set(entities.AgeVariable, "12"))
	err = validate(&out, entities.CategoryManabi01, fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), validator.UserMessage(validator.ErrInvalidAge))
}

func TestFillSession(t *testing.T) {
	fs, err := sim.NewDataGenerator(5).Next()
	require.NoError(t, err)

	svc := forecast.NewService(forecast.Options{})
	sess := svc.NewSession()
	require.NoError(t, fillSession(sess, entities.CategorySarchimor, fs))

	snap := sess.Snapshot()
	assert.True(t, snap.Complete)
	assert.Equal(t, entities.CategorySarchimor, snap.Category)
	assert.Equal(t, fs, snap.Fields)
}
