package lsp

import (
	"sort"

	"github.com/jsvensson/customtheme/internal/theme"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Semantic token types we'll use (indices 0-2)
var semanticTokenTypes = []string{
	"property", // 0: metadata keys
	"variable", // 1: color keys and var(--key) references
	"number",   // 2: numeric metadata values
}

// Semantic token modifiers (bit flags)
var semanticTokenModifiers = []string{
	"declaration", // bit 0: a document key
	"deprecated",  // bit 1: an entry dropped on import
}

const (
	modDeclaration uint32 = 1 << iota
	modDeprecated
)

// tokenTypeIndices maps type names to their indices for fast lookup
var tokenTypeIndices map[string]uint32

func init() {
	tokenTypeIndices = make(map[string]uint32, len(semanticTokenTypes))
	for i, t := range semanticTokenTypes {
		tokenTypeIndices[t] = uint32(i)
	}
}

// SemanticToken represents a single token with its metadata
type SemanticToken struct {
	Line      uint32 // 0-based line number
	StartChar uint32 // 0-based character offset
	Length    uint32
	Type      uint32 // index into semanticTokenTypes
	Modifiers uint32 // bit flags
}

// encodeTokens converts tokens to LSP format (5 integers per token)
// Uses delta encoding for line numbers and character positions
func encodeTokens(tokens []SemanticToken) []uint32 {
	if len(tokens) == 0 {
		return []uint32{}
	}

	// Sort tokens by position
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})

	data := make([]uint32, 0, len(tokens)*5)

	var prevLine uint32
	var prevChar uint32

	for _, tok := range tokens {
		deltaLine := tok.Line - prevLine
		deltaStart := tok.StartChar
		if deltaLine == 0 {
			deltaStart = tok.StartChar - prevChar
		}

		data = append(data, deltaLine, deltaStart, tok.Length, tok.Type, tok.Modifiers)

		prevLine = tok.Line
		prevChar = tok.StartChar
	}

	return data
}

// semanticTokensFull generates semantic tokens for an analyzed document.
// Keys are typed by bucket, dropped entries are marked deprecated.
func semanticTokensFull(result *AnalysisResult) []uint32 {
	if result == nil {
		return []uint32{}
	}

	var tokens []SemanticToken
	for _, e := range result.Entries {
		mods := modDeclaration
		if !e.Accepted {
			mods |= modDeprecated
		}
		typ := tokenTypeIndices["variable"]
		if e.Bucket == theme.BucketMetadata {
			typ = tokenTypeIndices["property"]
		}
		if tok, ok := rangeToken(e.KeyRange, 1, typ, mods); ok {
			tokens = append(tokens, tok)
		}
		if e.Accepted && e.Kind == theme.KindNumber {
			if tok, ok := rangeToken(e.ValueRange, 0, tokenTypeIndices["number"], 0); ok {
				tokens = append(tokens, tok)
			}
		}
	}

	for _, ref := range result.References {
		if tok, ok := rangeToken(ref.Range, 0, tokenTypeIndices["variable"], 0); ok {
			tokens = append(tokens, tok)
		}
	}

	return encodeTokens(tokens)
}

// rangeToken builds a token for a single-line range, trimming pad characters
// from both ends.
func rangeToken(r protocol.Range, pad uint32, typ, mods uint32) (SemanticToken, bool) {
	if r.Start.Line != r.End.Line || r.End.Character < r.Start.Character+2*pad {
		return SemanticToken{}, false
	}
	return SemanticToken{
		Line:      r.Start.Line,
		StartChar: r.Start.Character + pad,
		Length:    r.End.Character - r.Start.Character - 2*pad,
		Type:      typ,
		Modifiers: mods,
	}, true
}

// textDocumentSemanticTokensFull handles textDocument/semanticTokens/full requests.
func (s *Server) textDocumentSemanticTokensFull(_ *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	uri := string(params.TextDocument.URI)
	return &protocol.SemanticTokens{Data: semanticTokensFull(s.getResult(uri))}, nil
}
