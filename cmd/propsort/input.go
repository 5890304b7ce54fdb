package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/amp-labs/propsort/logger"
	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"gopkg.in/yaml.v3"
)

const stdinName = "-"

var (
	ErrNotCollection  = errors.New("input is not a list of records")
	ErrUnknownCharset = errors.New("unknown charset")
	ErrEmptyInput     = errors.New("input is empty")
)

type inputFormat string

const (
	formatJSON inputFormat = "json"
	formatYAML inputFormat = "yaml"
)

var utf8BOM = []byte("\xef\xbb\xbf") //nolint:gochecknoglobals

// document is one decoded input.
type document struct {
	name    string
	format  inputFormat
	charset string
	records []any
}

// readDocument opens, decompresses, transcodes and decodes a single input.
func readDocument(ctx context.Context, name string, stdin io.Reader, charsetLabel string) (*document, error) {
	data, err := readInput(name, stdin)
	if err != nil {
		return nil, err
	}

	data, used, err := toUTF8(data, charsetLabel)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}

	format := detectFormat(name, data)

	logger.Get(ctx).Debug("decoding input", "format", format, "charset", used, "bytes", len(data))

	records, err := decodeRecords(format, data)
	if err != nil {
		return nil, err
	}

	return &document{
		name:    name,
		format:  format,
		charset: used,
		records: records,
	}, nil
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == stdinName {
		return io.ReadAll(stdin)
	}

	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	defer file.Close()

	reader, closer, err := decompress(name, file)
	if err != nil {
		return nil, fmt.Errorf("opening compressed stream: %w", err)
	}

	data, err := io.ReadAll(reader)

	return data, errors.Join(err, closer())
}

// decompress wraps r in a decoder chosen by the file extension. Unknown
// extensions are read as is.
func decompress(name string, r io.Reader) (io.Reader, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}

		return zr, zr.Close, nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}

		return zr, func() error {
			zr.Close()

			return nil
		}, nil
	case ".lz4":
		return lz4.NewReader(r), noop, nil
	case ".br":
		return brotli.NewReader(r), noop, nil
	case ".sz":
		return snappy.NewReader(r), noop, nil
	default:
		return r, noop, nil
	}
}

// toUTF8 transcodes data to UTF-8. An explicit label wins. Otherwise valid
// UTF-8 is returned untouched and anything else goes through charset detection.
func toUTF8(data []byte, label string) ([]byte, string, error) {
	if label != "" {
		decoded, err := transcode(data, label)
		if err != nil {
			return nil, "", err
		}

		return decoded, label, nil
	}

	if utf8.Valid(data) {
		return data, "utf-8", nil
	}

	detector := chardet.NewTextDetector()

	best, err := detector.DetectBest(data)
	if err != nil {
		return nil, "", fmt.Errorf("detecting charset: %w", err)
	}

	decoded, err := transcode(data, best.Charset)
	if err != nil {
		return nil, "", err
	}

	return decoded, best.Charset, nil
}

func transcode(data []byte, label string) ([]byte, error) {
	reader, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownCharset, label, err)
	}

	return io.ReadAll(reader)
}

// detectFormat picks the decoder from the file extension (ignoring any
// compression suffix) and falls back to sniffing the first byte.
func detectFormat(name string, data []byte) inputFormat {
	if name != stdinName {
		switch strings.ToLower(filepath.Ext(stripCompression(name))) {
		case ".json":
			return formatJSON
		case ".yaml", ".yml":
			return formatYAML
		}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return formatJSON
	}

	return formatYAML
}

func stripCompression(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".zst", ".lz4", ".br", ".sz":
		return strings.TrimSuffix(name, filepath.Ext(name))
	default:
		return name
	}
}

func decodeRecords(format inputFormat, data []byte) ([]any, error) {
	var doc any

	switch format {
	case formatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()

		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	}

	records, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotCollection, doc)
	}

	return records, nil
}
