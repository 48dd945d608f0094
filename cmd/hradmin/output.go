package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTable = "table"
)

func validOutput(format string) bool {
	switch format {
	case outputJSON, outputYAML, outputTable:
		return true
	}
	return false
}

// table is the tabular rendering of a value: a header row, data rows and optional footer.
type table struct {
	header []string
	rows   [][]string
	footer string
}

// render writes v in format. Values without a tabular form fall back to JSON.
func render(w io.Writer, format string, v any, tbl func() table) error {
	switch {
	case format == outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "yaml encode")
		}
		return enc.Close()
	case format == outputTable && tbl != nil:
		return writeTable(w, tbl())
	default:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "json encode")
		}
		return nil
	}
}

func writeTable(w io.Writer, t table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(t.header) > 0 {
		fmt.Fprintln(tw, strings.Join(t.header, "\t"))
	}
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "table flush")
	}
	if t.footer != "" {
		if _, err := fmt.Fprintln(w, t.footer); err != nil {
			return err
		}
	}
	return nil
}
