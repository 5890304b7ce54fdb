package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/amp-labs/propsort/jsonpath"
	"github.com/amp-labs/propsort/pathsort"
	"gopkg.in/yaml.v3"
)

// output writes processed documents in argument order.
type output struct {
	w      io.Writer
	cfg    *config
	sorter *pathsort.Sorter
	yaml   *yaml.Encoder
}

func newOutput(w io.Writer, cfg *config, sorter *pathsort.Sorter) *output {
	return &output{
		w:      w,
		cfg:    cfg,
		sorter: sorter,
	}
}

func (o *output) write(doc *document) error {
	switch {
	case o.cfg.ListPaths:
		return o.writeLines(jsonpath.Leaves(doc.records...))
	case o.cfg.Extract:
		return o.writeExtracted(doc.records)
	case o.cfg.Format == formatYAML:
		return o.writeYAML(doc.records)
	default:
		return o.writeJSON(doc.records)
	}
}

// close flushes any pending YAML stream.
func (o *output) close() error {
	if o.yaml == nil {
		return nil
	}

	return o.yaml.Close()
}

func (o *output) writeLines(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(o.w, line); err != nil {
			return err
		}
	}

	return nil
}

func (o *output) writeExtracted(records []any) error {
	for _, record := range records {
		value := o.sorter.Extract(record)

		if _, err := fmt.Fprintf(o.w, "%s\t%s\n", pathsort.Classify(value), value); err != nil {
			return err
		}
	}

	return nil
}

func (o *output) writeJSON(records []any) error {
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	return encoder.Encode(portable(records, false))
}

func (o *output) writeYAML(records []any) error {
	if o.yaml == nil {
		o.yaml = yaml.NewEncoder(o.w)
		o.yaml.SetIndent(2)
	}

	return o.yaml.Encode(portable(records, true))
}

// portable rewrites decoded values so either encoder accepts them: YAML maps
// with non-string keys get string keys, and for YAML output json.Number
// becomes a plain number instead of a quoted string.
func portable(value any, forYAML bool) any {
	switch val := value.(type) {
	case []any:
		out := make([]any, len(val))
		for idx, item := range val {
			out[idx] = portable(item, forYAML)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, item := range val {
			out[key] = portable(item, forYAML)
		}

		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for key, item := range val {
			out[fmt.Sprint(key)] = portable(item, forYAML)
		}

		return out
	case json.Number:
		if !forYAML {
			return val
		}

		if n, err := val.Int64(); err == nil {
			return n
		}

		if f, err := val.Float64(); err == nil {
			return f
		}

		return val.String()
	default:
		return value
	}
}
