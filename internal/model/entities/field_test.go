package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldSetSet(t *testing.T) {
	t.Run("accepts empty and numeric text", func(t *testing.T) {
		fs := NewFieldSet()
		for _, v := range []string{"", "0", "12", "12.", ".5", "3.14", "."} {
			assert.True(t, fs.Set("PH", v), "value %q", v)
			got, _ := fs.Get("PH")
			assert.Equal(t, v, got)
		}
	})

	t.Run("rejected text leaves the previous value", func(t *testing.T) {
		fs := NewFieldSet()
		require.True(t, fs.Set("PH", "6.5"))
		for _, v := range []string{"-1", "1e3", "1.2.3", "abc", " 5", "5,5", "+2"} {
			assert.False(t, fs.Set("PH", v), "value %q", v)
			got, _ := fs.Get("PH")
			assert.Equal(t, "6.5", got)
		}
	})

	t.Run("unknown variable is rejected", func(t *testing.T) {
		fs := NewFieldSet()
		assert.False(t, fs.Set("NOPE", "1"))
		_, ok := fs.Get("NOPE")
		assert.False(t, ok)
	})
}

func TestFieldSetComplete(t *testing.T) {
	fs := NewFieldSet()
	assert.False(t, fs.Complete())
	assert.Len(t, fs.Missing(), NumFields)

	for _, name := range FieldNames() {
		require.True(t, fs.Set(name, "1"))
	}
	assert.True(t, fs.Complete())
	assert.Empty(t, fs.Missing())

	require.True(t, fs.Set("ARCILLA", ""))
	assert.False(t, fs.Complete())
	assert.Equal(t, []string{"ARCILLA"}, fs.Missing())
}

func TestFieldSetValuesAreLenient(t *testing.T) {
	fs := NewFieldSet()
	require.True(t, fs.Set(AgeVariable, "45"))
	require.True(t, fs.Set("PH", "."))
	require.True(t, fs.Set("CE", ".25"))

	v := fs.Values()
	assert.Equal(t, 45.0, v[0])
	i, _ := IndexOf("PH")
	assert.Equal(t, 0.0, v[i])
	i, _ = IndexOf("CE")
	assert.Equal(t, 0.25, v[i])
}

func TestFieldSetFromMap(t *testing.T) {
	fs, err := FieldSetFromMap(map[string]string{"PH": "6.1", "K": "-3", "X": "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "K, X")
	got, _ := fs.Get("PH")
	assert.Equal(t, "6.1", got)
}

func TestFieldSetJSONKeepsCatalogueOrder(t *testing.T) {
	fs := NewFieldSet()
	require.True(t, fs.Set("ARCILLA", "20"))
	b, err := json.Marshal(fs)
	require.NoError(t, err)
	assert.Regexp(t, `^\{"EDAD_EN_DIAS":"","TEMPERATURA_AMBIENTAL":""`, string(b))
	assert.Contains(t, string(b), `"ARCILLA":"20"}`)

	var back FieldSet
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, fs, back)
}

func TestCatalogue(t *testing.T) {
	assert.Len(t, FieldNames(), NumFields)
	assert.Equal(t, AgeVariable, Variables[0].Name)
	seen := map[string]bool{}
	for _, v := range Variables {
		assert.False(t, seen[v.Name], "duplicate %s", v.Name)
		seen[v.Name] = true
		assert.Less(t, v.Min, v.Max, v.Name)
	}
}
