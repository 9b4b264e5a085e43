package datagen

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dummy-data-api/internal/domain/entity"
)

func TestDownload(t *testing.T) {
	cases := []struct {
		format   entity.OutputFormat
		fileName string
		mime     string
	}{
		{entity.FormatJSON, "dummy-data.json", "application/json"},
		{entity.FormatCSV, "dummy-data.csv", "text/csv"},
		{entity.FormatXML, "dummy-data.xml", "application/xml"},
		{entity.FormatTXT, "dummy-data.txt", "text/plain"},
		{entity.OutputFormat("YAML"), "dummy-data.yaml", "text/plain"},
		{"", "dummy-data.txt", "text/plain"},
	}
	for _, tc := range cases {
		art, ok := Download("content", tc.format)
		require.True(t, ok)
		assert.Equal(t, tc.fileName, art.FileName)
		assert.Equal(t, tc.mime, art.MIMEType)
		assert.Equal(t, []byte("content"), art.Content)
	}
}

func TestDownload_EmptyIsNoop(t *testing.T) {
	art, ok := Download("", entity.FormatJSON)
	assert.False(t, ok)
	assert.Nil(t, art)
}

func TestCopyToClipboard(t *testing.T) {
	clip := &fakeClipboard{}

	ok, err := CopyToClipboard(clip, "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, clip.writes)

	ok, err = CopyToClipboard(clip, "a,b\n1,2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a,b\n1,2", clip.text)

	clip.err = errors.New("no display")
	ok, err = CopyToClipboard(clip, "x")
	assert.Error(t, err)
	assert.False(t, ok)

	_, err = CopyToClipboard(nil, "x")
	assert.Error(t, err)
}

func TestSaveFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	art, ok := Download("<root/>", entity.FormatXML)
	require.True(t, ok)

	path, err := SaveFile(dir, art)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dummy-data.xml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<root/>", string(data))

	_, err = SaveFile(dir, nil)
	assert.Error(t, err)
}

func TestExamples(t *testing.T) {
	list := Examples()
	require.NotEmpty(t, list)
	for _, ex := range list {
		assert.NotEmpty(t, ex.Label)
		assert.NotEmpty(t, ex.Prompt)
		assert.True(t, ex.Format.IsValid())
	}

	list[0].Label = "changed"
	assert.NotEqual(t, "changed", Examples()[0].Label)
}
