// Package catalog loads the expert validation set: a comma-delimited text
// file with a header row of image_id, question_type, question, answer,
// image_path.
package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pverdant/leafval/internal/domain"
)

// ParseLine splits one delimited line into fields. A double quote toggles
// "inside quoted field" state, so a quoted field may contain commas; the
// quote characters themselves are not part of the field. Fields are trimmed
// of surrounding whitespace.
func ParseLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// Load parses catalog text into items. The first line is a header and is
// discarded. Rows that come out with an empty image id or image path are
// dropped silently; malformed rows are a fact of life in exported validation
// sets and are not worth failing the whole load over.
func Load(r io.Reader) ([]domain.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 {
		lines = lines[1:] // header
	}

	var items []domain.Item
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := ParseLine(line)
		item := domain.Item{
			ImageID:      field(fields, 0),
			QuestionType: field(fields, 1),
			Question:     field(fields, 2),
			Answer:       field(fields, 3),
			ImagePath:    field(fields, 4),
		}

		if item.ImageID == "" || item.ImagePath == "" {
			continue
		}

		items = append(items, item)
	}

	return items, nil
}

// LoadFile loads a catalog from disk.
func LoadFile(path string) ([]domain.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
