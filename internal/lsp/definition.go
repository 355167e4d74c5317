package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// definition returns the location of the entry a var(--key) reference at pos
// points to. Returns nil if the cursor is not on a reference or the key is not
// defined in the document.
func definition(result *AnalysisResult, uri string, pos protocol.Position) *protocol.Location {
	if result == nil {
		return nil
	}

	for _, ref := range result.References {
		if !posInRange(pos, ref.Range) {
			continue
		}
		symRange, ok := result.Symbols[ref.Key]
		if !ok {
			return nil
		}
		return &protocol.Location{
			URI:   protocol.DocumentUri(uri),
			Range: symRange,
		}
	}

	return nil
}

// textDocumentDefinition handles textDocument/definition requests.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	uri := string(params.TextDocument.URI)
	loc := definition(s.getResult(uri), uri, params.Position)
	if loc == nil {
		return nil, nil
	}
	return loc, nil
}
