package catalog

import (
	"strings"
	"testing"
)

const sampleCatalog = `image_id,question_type,question,answer,image_path
image_000001.JPG,Counterfactual Reasoning,"If this plant were healthy, what would change?","The yellowing, curling, and stunting would be absent.",image_000001.JPG
image_000002.JPG,Symptom Description,What symptoms are visible?,Uniform chlorosis on the lower leaves.,image_000002.JPG
,Symptom Description,Row without an id,Should be dropped,image_000003.JPG
image_000004.JPG,Symptom Description,Row without an image path,Should be dropped,
`

func TestLoadSkipsHeaderAndMalformedRows(t *testing.T) {
	items, err := Load(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	if items[0].ImageID != "image_000001.JPG" {
		t.Errorf("unexpected first item id: %q", items[0].ImageID)
	}
	if items[1].Answer != "Uniform chlorosis on the lower leaves." {
		t.Errorf("unexpected answer: %q", items[1].Answer)
	}
}

func TestLoadHonorsQuotedDelimiters(t *testing.T) {
	items, err := Load(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := "If this plant were healthy, what would change?"
	if items[0].Question != want {
		t.Errorf("quoted field mangled: got %q, want %q", items[0].Question, want)
	}

	want = "The yellowing, curling, and stunting would be absent."
	if items[0].Answer != want {
		t.Errorf("quoted field mangled: got %q, want %q", items[0].Answer, want)
	}
}

func TestLoadTolerantOfCRLF(t *testing.T) {
	crlf := strings.ReplaceAll(sampleCatalog, "\n", "\r\n")
	items, err := Load(strings.NewReader(crlf))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[1].ImagePath != "image_000002.JPG" {
		t.Errorf("trailing CR not trimmed: %q", items[1].ImagePath)
	}
}

func TestParseLine(t *testing.T) {
	fields := ParseLine(`a,"b, with comma",c`)
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d: %v", len(fields), fields)
	}
	if fields[1] != "b, with comma" {
		t.Errorf("unexpected field: %q", fields[1])
	}
}
