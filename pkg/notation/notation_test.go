package notation

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/image-augmenter/pkg/types"
)

func TestRead(t *testing.T) {
	input := `{"img01.jpg": [[300, 100, 400, 200, "person"]]}

{"img02.jpg": [[1, 2, 3, 4, "car"], [5, 6, 7, 8, 2]]}
{"img03.jpg": []}
`
	entries, err := Read(strings.NewReader(input), "label.idl")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "img01.jpg", entries[0].ImageReference)
	assert.Equal(t, 1, entries[0].Line)
	assert.Equal(t, types.Annotation{{X1: 300, Y1: 100, X2: 400, Y2: 200, Category: types.Label("person")}}, entries[0].Annotation)

	assert.Equal(t, 3, entries[1].Line)
	require.Len(t, entries[1].Annotation, 2)
	assert.Equal(t, "2", entries[1].Annotation[1].Category.String())

	assert.Equal(t, 4, entries[2].Line)
	assert.NotNil(t, entries[2].Annotation)
	assert.Empty(t, entries[2].Annotation)
}

func TestReadParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"invalid json", "{\"a.jpg\": []}\n{not json}\n", 2},
		{"two keys", `{"a.jpg": [], "b.jpg": []}`, 1},
		{"no keys", `{}`, 1},
		{"empty name", `{"": []}`, 1},
		{"bad box", "{\"a.jpg\": []}\n{\"a.jpg\": []}\n{\"c.jpg\": [[1, 2, \"car\"]]}", 3},
		{"array line", `[1, 2]`, 1},
		{"null coordinate", `{"a.jpg": [[null, 10, 20, 30, "car"]]}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), "label.idl")
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Line)
			assert.Equal(t, "label.idl", perr.Source)
			assert.Contains(t, err.Error(), "label.idl:")
		})
	}
}

func TestWrite(t *testing.T) {
	records := []types.NotationRecord{
		{Filename: "img01-1.jpg", Annotation: types.Annotation{{X1: 300, Y1: 100, X2: 320, Y2: 200, Category: types.Label("person")}}},
		{Filename: "img01-2.jpg", Annotation: nil},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records))

	assert.Equal(t, "{\"img01-1.jpg\":[[300,100,320,200,\"person\"]]}\n{\"img01-2.jpg\":[]}\n", buf.String())
}

func TestRoundTrip(t *testing.T) {
	records := []types.NotationRecord{
		{Filename: "a-1.jpg", Annotation: types.Annotation{{X1: 0, Y1: 100, X2: 80, Y2: 200, Category: types.Label("person")}}},
		{Filename: "a-2.jpg", Annotation: types.Annotation{{X1: 10.5, Y1: 1, X2: 20.25, Y2: 2, Category: types.Category("3")}}},
		{Filename: "a-3.jpg", Annotation: types.Annotation{}},
	}
	path := filepath.Join(t.TempDir(), "nlabel.idl")
	require.NoError(t, WriteFile(path, records))

	entries, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, entries, len(records))
	for i, rec := range records {
		assert.Equal(t, rec.Filename, entries[i].ImageReference)
		assert.Equal(t, rec.Annotation, entries[i].Annotation)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.idl"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWriteFileBadDir(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "no", "such", "dir", "nlabel.idl"), nil)
	assert.Error(t, err)
}
