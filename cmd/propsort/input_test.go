package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleJSON = `[
  {"id": 1, "name": "John"},
  {"id": 2, "alias": "Delta"},
  {"id": 3, "profile": {"name": "Anna"}},
  {"id": 4, "name": "#Provider"}
]`

type closingWriter interface {
	Write(p []byte) (int, error)
	Close() error
}

func compressWith(t *testing.T, data []byte, newWriter func(*bytes.Buffer) closingWriter) []byte {
	t.Helper()

	var buf bytes.Buffer

	writer := newWriter(&buf)

	_, err := writer.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return buf.Bytes()
}

func compressors() map[string]func(*bytes.Buffer) closingWriter {
	return map[string]func(*bytes.Buffer) closingWriter{
		".gz":  func(b *bytes.Buffer) closingWriter { return gzip.NewWriter(b) },
		".lz4": func(b *bytes.Buffer) closingWriter { return lz4.NewWriter(b) },
		".br":  func(b *bytes.Buffer) closingWriter { return brotli.NewWriter(b) },
		".sz":  func(b *bytes.Buffer) closingWriter { return snappy.NewBufferedWriter(b) },
		".zst": func(b *bytes.Buffer) closingWriter {
			enc, err := zstd.NewWriter(b)
			if err != nil {
				panic(err)
			}

			return enc
		},
	}
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestReadDocument_Compressed(t *testing.T) {
	t.Parallel()

	for ext, newWriter := range compressors() {
		t.Run(ext, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, t.TempDir(), "people.json"+ext, compressWith(t, []byte(peopleJSON), newWriter))

			doc, err := readDocument(t.Context(), path, nil, "")
			require.NoError(t, err)
			assert.Equal(t, formatJSON, doc.format)
			assert.Len(t, doc.records, 4)
		})
	}
}

func TestReadDocument_Stdin(t *testing.T) {
	t.Parallel()

	doc, err := readDocument(t.Context(), stdinName, strings.NewReader("- name: b\n- name: a\n"), "")
	require.NoError(t, err)
	assert.Equal(t, formatYAML, doc.format)
	assert.Equal(t, "utf-8", doc.charset)
	require.Len(t, doc.records, 2)
}

func TestReadDocument_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := readDocument(t.Context(), filepath.Join(dir, "missing.json"), nil, "")
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = readDocument(t.Context(), writeFile(t, dir, "object.json", []byte(`{"name":"x"}`)), nil, "")
	require.ErrorIs(t, err, ErrNotCollection)

	_, err = readDocument(t.Context(), writeFile(t, dir, "blank.yaml", []byte("  \n")), nil, "")
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = readDocument(t.Context(), writeFile(t, dir, "broken.json", []byte(`[{"name":`)), nil, "")
	require.Error(t, err)

	_, err = readDocument(t.Context(), writeFile(t, dir, "fake.json.gz", []byte(peopleJSON)), nil, "")
	require.Error(t, err)

	_, err = readDocument(t.Context(), writeFile(t, dir, "ok.json", []byte(peopleJSON)), nil, "no-such-charset")
	require.ErrorIs(t, err, ErrUnknownCharset)
}

func TestReadDocument_ByteOrderMark(t *testing.T) {
	t.Parallel()

	data := append([]byte("\xef\xbb\xbf"), peopleJSON...)

	doc, err := readDocument(t.Context(), writeFile(t, t.TempDir(), "bom.json", data), nil, "")
	require.NoError(t, err)
	assert.Len(t, doc.records, 4)
}

func TestDecodeRecords_JSONNumbers(t *testing.T) {
	t.Parallel()

	records, err := decodeRecords(formatJSON, []byte(`[{"n": 12345678901234567890}, {"n": 0}]`))
	require.NoError(t, err)

	first, ok := records[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("12345678901234567890"), first["n"])
}

func TestToUTF8(t *testing.T) {
	t.Parallel()

	latin1 := []byte("[{\"name\": \"M\xfcller\"}]")

	t.Run("explicit label", func(t *testing.T) {
		t.Parallel()

		decoded, used, err := toUTF8(latin1, "iso-8859-1")
		require.NoError(t, err)
		assert.Equal(t, "iso-8859-1", used)
		assert.Contains(t, string(decoded), "Müller")
	})

	t.Run("valid utf-8 passes through", func(t *testing.T) {
		t.Parallel()

		decoded, used, err := toUTF8([]byte(`["Müller"]`), "")
		require.NoError(t, err)
		assert.Equal(t, "utf-8", used)
		assert.Equal(t, `["Müller"]`, string(decoded))
	})

	t.Run("detected", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("Grüße aus Köln, die Straße ist schön und der Käse schmeckt. Müller. ", 8)
		encoded := make([]byte, 0, len(text))

		for _, r := range text {
			encoded = append(encoded, byte(r))
		}

		decoded, used, err := toUTF8(encoded, "")
		require.NoError(t, err)
		assert.NotEmpty(t, used)
		assert.Contains(t, string(decoded), "Müller")
	})
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		expected inputFormat
	}{
		{"people.json", "- a", formatJSON},
		{"people.yaml", "[]", formatYAML},
		{"people.YML", "[]", formatYAML},
		{"people.json.zst", "", formatJSON},
		{"people.yml.br", "", formatYAML},
		{"people.txt", "  [1]", formatJSON},
		{"people.txt", "- a", formatYAML},
		{stdinName, "{\"a\":1}", formatJSON},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, detectFormat(tt.name, []byte(tt.data)), tt.name)
	}
}
