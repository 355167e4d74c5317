package lsp

import (
	"fmt"
	"strings"

	"github.com/jsvensson/customtheme/internal/theme"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// posInRange returns true if pos is within the range [r.Start, r.End).
// The end position is exclusive.
func posInRange(pos protocol.Position, r protocol.Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// hover produces a Hover response for the given cursor position.
// Colors and references show their notations; any other entry shows how it
// is classified. Returns nil if the cursor is not on an entry.
func hover(result *AnalysisResult, pos protocol.Position) *protocol.Hover {
	if result == nil {
		return nil
	}

	for _, cl := range result.Colors {
		if !posInRange(pos, cl.Range) {
			continue
		}

		c := cl.Color.Color
		md := fmt.Sprintf("`%s` · `%s` · `%s`", c.Hex(), c.RGB(), c.OKLCH())
		if cl.Color.Alpha < 1 {
			md += fmt.Sprintf(" · alpha `%g`", cl.Color.Alpha)
		}
		if cl.IsRef {
			md = fmt.Sprintf("**--%s**\n\n%s", cl.Key, md)
		}

		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: md,
			},
			Range: &cl.Range,
		}
	}

	e, ok := result.Entry(pos)
	if !ok {
		return nil
	}

	var md strings.Builder
	_, want := theme.Expected(e.Key)
	switch e.Bucket {
	case theme.BucketMetadata:
		fmt.Fprintf(&md, "**%s** · metadata (%s)", e.Key, want)
	default:
		fmt.Fprintf(&md, "**--%s** · color (%s)", e.Key, want)
	}
	if !e.Accepted {
		fmt.Fprintf(&md, "\n\nDropped on import: got %s.", e.Kind)
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: md.String(),
		},
		Range: &e.KeyRange,
	}
}

// textDocumentHover handles textDocument/hover requests.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := string(params.TextDocument.URI)
	return hover(s.getResult(uri), params.Position), nil
}
