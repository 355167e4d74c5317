package lsp

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestPosInRange(t *testing.T) {
	r := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 4},
		End:   protocol.Position{Line: 1, Character: 8},
	}
	tests := []struct {
		pos  protocol.Position
		want bool
	}{
		{protocol.Position{Line: 1, Character: 4}, true},
		{protocol.Position{Line: 1, Character: 7}, true},
		{protocol.Position{Line: 1, Character: 8}, false},
		{protocol.Position{Line: 1, Character: 3}, false},
		{protocol.Position{Line: 0, Character: 5}, false},
		{protocol.Position{Line: 2, Character: 5}, false},
	}
	for _, tt := range tests {
		if got := posInRange(tt.pos, r); got != tt.want {
			t.Errorf("posInRange(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestHover(t *testing.T) {
	result := Analyze("theme.json", sampleTheme)

	tests := []struct {
		name string
		pos  protocol.Position
		want string
	}{
		{
			name: "literal color",
			pos:  protocol.Position{Line: 3, Character: 12},
			want: "`#ffffff` · `rgb(255, 255, 255)` · `oklch(1 0 0)`",
		},
		{
			name: "reference",
			pos:  protocol.Position{Line: 4, Character: 15},
			want: "**--text**\n\n`#ffffff` · `rgb(255, 255, 255)` · `oklch(1 0 0)`",
		},
		{
			name: "dropped color",
			pos:  protocol.Position{Line: 5, Character: 4},
			want: "**--primary** · color (string)\n\nDropped on import: got number.",
		},
		{
			name: "metadata",
			pos:  protocol.Position{Line: 1, Character: 4},
			want: "**name** · metadata (string or number)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := hover(result, tt.pos)
			if h == nil {
				t.Fatal("hover() = nil")
			}
			content, ok := h.Contents.(protocol.MarkupContent)
			if !ok {
				t.Fatalf("Contents is %T, want MarkupContent", h.Contents)
			}
			if content.Value != tt.want {
				t.Errorf("hover() = %q, want %q", content.Value, tt.want)
			}
		})
	}
}

func TestHover_Alpha(t *testing.T) {
	result := Analyze("theme.json", `{"overlay": "rgba(0, 0, 0, 0.5)"}`)
	h := hover(result, protocol.Position{Line: 0, Character: 15})
	if h == nil {
		t.Fatal("hover() = nil")
	}
	if value := h.Contents.(protocol.MarkupContent).Value; !strings.HasSuffix(value, "alpha `0.5`") {
		t.Errorf("hover() = %q, want alpha suffix", value)
	}
}

func TestHover_Outside(t *testing.T) {
	result := Analyze("theme.json", sampleTheme)
	if h := hover(result, protocol.Position{Line: 0, Character: 0}); h != nil {
		t.Errorf("hover() on brace = %+v, want nil", h)
	}
	if h := hover(nil, protocol.Position{}); h != nil {
		t.Errorf("hover(nil) = %+v, want nil", h)
	}
}
