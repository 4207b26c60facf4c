package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWorkbook(t *testing.T, path string, assetIds []string) {
	t.Helper()
	buf := buildWorkbook(t, assetIds)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func readJSON(t *testing.T, path string, out interface{}) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestGenerateManifest(t *testing.T) {
	publicDir := t.TempDir()
	grade6 := filepath.Join(publicDir, "azvasa", "grade-6")
	grade7 := filepath.Join(publicDir, "azvasa", "grade-7")

	writeWorkbook(t, filepath.Join(grade6, "Science+Grade+6-1699999999999.xlsx"), []string{"A100", "A200"})
	writeWorkbook(t, filepath.Join(grade6, "Maths.xls"), []string{"A300"})
	writeWorkbook(t, filepath.Join(grade7, "Empty+Book.xlsx"), nil)

	require.NoError(t, GenerateManifest(publicDir))

	var ids []string
	readJSON(t, filepath.Join(grade6, "Science+Grade+6-1699999999999.json"), &ids)
	assert.Equal(t, []string{"A100", "A200"}, ids)

	readJSON(t, filepath.Join(grade6, "Maths.json"), &ids)
	assert.Equal(t, []string{"A300"}, ids)

	// A workbook with no asset ids still gets a sidecar, an empty one.
	readJSON(t, filepath.Join(grade7, "Empty+Book.json"), &ids)
	assert.Equal(t, []string{}, ids)

	var manifest map[string][]ManifestEntry
	readJSON(t, filepath.Join(publicDir, "azvasa", "manifest.json"), &manifest)
	require.Len(t, manifest, 2)
	assert.ElementsMatch(t, []ManifestEntry{
		{Name: "Science Grade 6", Path: "/azvasa/grade-6/Science+Grade+6-1699999999999.json"},
		{Name: "Maths", Path: "/azvasa/grade-6/Maths.json"},
	}, manifest["grade-6"])
	assert.Equal(t, []ManifestEntry{
		{Name: "Empty Book", Path: "/azvasa/grade-7/Empty+Book.json"},
	}, manifest["grade-7"])
}

func TestGenerateManifest_KeepsExistingSidecars(t *testing.T) {
	publicDir := t.TempDir()
	gradeDir := filepath.Join(publicDir, "azvasa", "grade-6")
	writeWorkbook(t, filepath.Join(gradeDir, "Science.xlsx"), []string{"A100"})

	hand := []byte(`["HAND-EDITED"]`)
	require.NoError(t, os.WriteFile(filepath.Join(gradeDir, "Science.json"), hand, 0644))

	require.NoError(t, GenerateManifest(publicDir))

	var ids []string
	readJSON(t, filepath.Join(gradeDir, "Science.json"), &ids)
	assert.Equal(t, []string{"HAND-EDITED"}, ids)
}

func TestGenerateManifest_NoAzvasaDir(t *testing.T) {
	publicDir := t.TempDir()
	require.NoError(t, GenerateManifest(publicDir))
	assert.NoFileExists(t, filepath.Join(publicDir, "azvasa", "manifest.json"))
}
