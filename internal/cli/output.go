package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/calvinalkan/xmlrec/internal/config"
	"github.com/calvinalkan/xmlrec/pkg/xmlrec"
)

// printResult writes an extraction result in the configured format.
func printResult(o *IO, format string, r xmlrec.Result) error {
	if format == config.FormatYAML {
		return printYAML(o, resultYAML(r))
	}

	return printJSON(o, r)
}

// printValues writes a projected value list in the configured format.
func printValues(o *IO, format string, values []string) error {
	if format == config.FormatYAML {
		return printYAML(o, values)
	}

	return printJSON(o, values)
}

func printJSON(o *IO, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	o.Println(string(data))

	return nil
}

func printYAML(o *IO, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	o.Println(strings.TrimRight(string(data), "\n"))

	return nil
}

// resultYAML converts r into values that keep field order when encoded.
func resultYAML(r xmlrec.Result) any {
	switch r.Kind() {
	case xmlrec.One:
		rec, _ := r.Record()

		return recordYAML(rec)
	case xmlrec.Many:
		records := r.Records()

		out := make([]yaml.MapSlice, 0, len(records))
		for _, rec := range records {
			out = append(out, recordYAML(rec))
		}

		return out
	}

	return false
}

func recordYAML(rec xmlrec.Record) yaml.MapSlice {
	out := make(yaml.MapSlice, 0, len(rec))
	for _, e := range rec {
		out = append(out, yaml.MapItem{Key: e.Name, Value: e.Value})
	}

	return out
}
