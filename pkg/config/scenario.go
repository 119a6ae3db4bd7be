package config

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ScenarioRow is one override set, ready to be applied over a base Config.
type ScenarioRow struct {
	Overrides map[string]interface{} // path ("a/b/c") -> parsed value
}

// LoadScenarioTable reads a tabular override sheet (§6): each column header
// is a slash-joined key path into the configuration tree, and each row's
// cells override or insert at that path over a base configuration. Uses the
// standard library's encoding/csv, since no third-party CSV parser exists
// anywhere in this module's dependency corpus.
func LoadScenarioTable(r io.Reader) ([]ScenarioRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("config: scenario table: read header: %w", err)
	}

	var rows []ScenarioRow
	lineNum := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("config: scenario table: row %d: %w", lineNum, err)
		}
		lineNum++

		row := ScenarioRow{Overrides: make(map[string]interface{}, len(header))}
		for i, col := range header {
			if i >= len(record) {
				continue
			}
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				continue
			}
			row.Overrides[col] = parseCell(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseCell recognizes integers, floats, booleans, ISO-8601 dates, and
// JSON-encoded nested literals (objects/arrays), falling back to a bare
// string (§6).
func parseCell(cell string) interface{} {
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(cell); err == nil {
		return b
	}
	if _, err := time.Parse("2006-01-02", cell); err == nil {
		return cell // dates remain strings; the YAML/struct layer parses them
	}
	if strings.HasPrefix(cell, "{") || strings.HasPrefix(cell, "[") {
		var nested interface{}
		if err := json.Unmarshal([]byte(cell), &nested); err == nil {
			return nested
		}
	}
	return cell
}

// ApplyOverrides merges row's path/value pairs into a generic tree produced
// from base (see ConfigToTree), splitting each column path on "/".
func ApplyOverrides(tree map[string]interface{}, row ScenarioRow) {
	for path, value := range row.Overrides {
		setPath(tree, strings.Split(path, "/"), value)
	}
}

func setPath(tree map[string]interface{}, segments []string, value interface{}) {
	if len(segments) == 0 {
		return
	}
	if len(segments) == 1 {
		tree[segments[0]] = value
		return
	}
	head := segments[0]
	child, ok := tree[head].(map[string]interface{})
	if !ok {
		child = make(map[string]interface{})
		tree[head] = child
	}
	setPath(child, segments[1:], value)
}
