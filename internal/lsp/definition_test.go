package lsp

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestDefinition(t *testing.T) {
	result := Analyze("theme.json", sampleTheme)
	uri := "file:///theme.json"

	loc := definition(result, uri, protocol.Position{Line: 4, Character: 15})
	if loc == nil {
		t.Fatal("definition() = nil")
	}
	if loc.URI != protocol.DocumentUri(uri) {
		t.Errorf("URI = %q, want %q", loc.URI, uri)
	}
	if loc.Range != result.Symbols["text"] {
		t.Errorf("Range = %+v, want %+v", loc.Range, result.Symbols["text"])
	}
	if loc.Range.Start.Line != 3 {
		t.Errorf("definition line = %d, want 3", loc.Range.Start.Line)
	}
}

func TestDefinition_NotOnReference(t *testing.T) {
	result := Analyze("theme.json", sampleTheme)
	if loc := definition(result, "file:///theme.json", protocol.Position{Line: 3, Character: 12}); loc != nil {
		t.Errorf("definition() on literal = %+v, want nil", loc)
	}
}

func TestDefinition_Undefined(t *testing.T) {
	result := Analyze("theme.json", `{"link": "var(--missing)"}`)
	if loc := definition(result, "file:///theme.json", protocol.Position{Line: 0, Character: 14}); loc != nil {
		t.Errorf("definition() of undefined key = %+v, want nil", loc)
	}
	if loc := definition(nil, "file:///theme.json", protocol.Position{}); loc != nil {
		t.Errorf("definition(nil) = %+v, want nil", loc)
	}
}
