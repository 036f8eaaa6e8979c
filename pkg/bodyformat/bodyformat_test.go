package bodyformat

import (
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		want     Format
		apiValue string
		file     string
	}{
		{in: "markdown", want: Markdown, apiValue: "view", file: "page.md"},
		{in: "MD", want: Markdown, apiValue: "view", file: "page.md"},
		{in: "view", want: View, apiValue: "view", file: "page.view.html"},
		{in: "storage", want: Storage, apiValue: "storage", file: "page.storage.html"},
		{in: "adf", want: ADF, apiValue: "atlas_doc_format", file: "page.adf.json"},
		{in: " atlas_doc_format ", want: ADF, apiValue: "atlas_doc_format", file: "page.adf.json"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.apiValue, got.APIValue())
			assert.Equal(t, tt.file, got.FileName())
		})
	}
}

func TestParseUnsupported(t *testing.T) {
	_, err := Parse("pdf")
	var unsupported *UnsupportedError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "pdf", unsupported.Name)
}

func TestFormatFlag(t *testing.T) {
	f := Markdown
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&f, "format", "")
	require.NoError(t, fs.Parse([]string{"-format=storage"}))
	assert.Equal(t, Storage, f)
	assert.Equal(t, "storage", f.String())
}

func TestParseWritable(t *testing.T) {
	f, err := ParseWritable("adf")
	require.NoError(t, err)
	assert.Equal(t, ADF, f)

	for _, name := range []string{"markdown", "view", "bogus"} {
		_, err := ParseWritable(name)
		var unsupported *UnsupportedError
		require.True(t, errors.As(err, &unsupported), name)
		assert.Equal(t, name, unsupported.Name)
	}

	_, err = ParseWritable("markdown")
	assert.EqualError(t, err, `unsupported body format "markdown" for writing (expected one of: storage, adf)`)
}
