package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "Prediccion_42.xlsx", FileName(42))

	ms, ok := ParseFileName("Prediccion_1700000000123.xlsx")
	require.True(t, ok)
	assert.EqualValues(t, 1700000000123, ms)

	for _, bad := range []string{"Prediccion_.xlsx", "prediccion_1.xlsx", "Prediccion_1.csv", "../Prediccion_1.xlsx"} {
		_, ok := ParseFileName(bad)
		assert.False(t, ok, bad)
	}
}

func TestDirStorage(t *testing.T) {
	dir := t.TempDir()
	st, err := OpenDir(dir)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Create(FileName(100), []byte("a")))
	require.NoError(t, st.Create(FileName(300), []byte("ccc")))
	require.NoError(t, st.Create(FileName(200), []byte("bb")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	t.Run("create refuses to overwrite", func(t *testing.T) {
		err := st.Create(FileName(100), []byte("z"))
		assert.ErrorIs(t, err, ErrWriteFailure)
		data, err := st.Read(FileName(100))
		require.NoError(t, err)
		assert.Equal(t, "a", string(data))
	})

	t.Run("list newest first", func(t *testing.T) {
		entries, err := st.List()
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, FileName(300), entries[0].Name)
		assert.Equal(t, FileName(200), entries[1].Name)
		assert.Equal(t, FileName(100), entries[2].Name)
		assert.EqualValues(t, 3, entries[0].Size)
	})

	t.Run("read only exports", func(t *testing.T) {
		_, err := st.Read("notes.txt")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = st.Read(FileName(999))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestOpenDirMissing(t *testing.T) {
	_, err := OpenDir(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = OpenDir("")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
