package lsp

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/jsvensson/customtheme/internal/palette"
	"github.com/jsvensson/customtheme/internal/theme"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// splitLines splits content into lines, preserving empty trailing lines.
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

var (
	// keyPosition matches an unterminated key string at the cursor.
	keyPosition = regexp.MustCompile(`(?:^|[{,])\s*"([^"]*)$`)
	// refPosition matches an unterminated var(--key) at the cursor.
	refPosition = regexp.MustCompile(`var\(\s*--([A-Za-z0-9_-]*)$`)
	// enumPosition matches an unterminated value for a field with known values.
	enumPosition = regexp.MustCompile(`"(backgroundPosition|backgroundSize)"\s*:\s*"([^"]*)$`)
)

// enumValues are the usual values of background fields.
var enumValues = map[string][]string{
	"backgroundPosition": {"center", "top", "bottom", "left", "right"},
	"backgroundSize":     {"cover", "contain", "auto"},
}

// metadataDetail documents each metadata key in completion items.
var metadataDetail = map[string]string{
	"name":               "Theme name, also used as the export file name",
	"author":             "Theme author",
	"description":        "Short description",
	"version":            "Theme version",
	"backgroundImage":    "Background image URL",
	"backgroundOpacity":  "Background opacity (number)",
	"backgroundBlur":     "Background blur radius in px (number)",
	"backgroundPosition": "CSS background-position, default center",
	"backgroundSize":     "CSS background-size, default cover",
}

// paletteKey is a built-in color key with its value in every variant.
type paletteKey struct {
	Name   string
	Values map[string]string
}

// builtinKeys loads the built-in palettes once.
var builtinKeys = sync.OnceValue(func() []paletteKey {
	values := make(map[string]map[string]string)
	for _, variant := range palette.Variants() {
		p, err := palette.Load(variant)
		if err != nil {
			log.Errorf("loading %s palette: %s", variant, err.Error())
			continue
		}
		for k, v := range p.Colors {
			if values[k] == nil {
				values[k] = make(map[string]string)
			}
			values[k][variant] = v
		}
		for k, v := range p.Shadows {
			if values[k] == nil {
				values[k] = make(map[string]string)
			}
			values[k][variant] = strings.Join(strings.Fields(v), " ")
		}
	}

	keys := make([]paletteKey, 0, len(values))
	for name, vals := range values {
		keys = append(keys, paletteKey{Name: name, Values: vals})
	}
	slices.SortFunc(keys, func(a, b paletteKey) int { return strings.Compare(a.Name, b.Name) })
	return keys
})

// complete produces completion items given an analysis result, document content,
// and cursor position. This is the core logic, decoupled from the LSP protocol
// handler for testability.
func complete(result *AnalysisResult, content string, pos protocol.Position) []protocol.CompletionItem {
	lines := splitLines(content)
	if int(pos.Line) >= len(lines) {
		return nil
	}

	line := lines[pos.Line]
	charPos := min(int(pos.Character), len(line))
	textBeforeCursor := line[:charPos]

	if m := refPosition.FindStringSubmatch(textBeforeCursor); m != nil {
		return referenceCompletions(result, m[1])
	}
	if m := enumPosition.FindStringSubmatch(textBeforeCursor); m != nil {
		return enumCompletions(m[1], m[2])
	}
	if m := keyPosition.FindStringSubmatch(textBeforeCursor); m != nil {
		return keyCompletions(result, m[1])
	}

	return nil
}

// keyCompletions offers metadata keys and built-in color keys that the
// document does not define yet.
func keyCompletions(result *AnalysisResult, prefix string) []protocol.CompletionItem {
	defined := func(key string) bool {
		if result == nil || key == prefix {
			return false
		}
		_, ok := result.Symbols[key]
		return ok
	}

	var items []protocol.CompletionItem
	for _, key := range theme.MetadataKeys {
		if defined(key) || !strings.HasPrefix(key, prefix) {
			continue
		}
		detail := metadataDetail[key]
		items = append(items, protocol.CompletionItem{
			Label:    key,
			Kind:     completionKindPtr(protocol.CompletionItemKindProperty),
			Detail:   &detail,
			SortText: strPtr("0" + key),
		})
	}

	for _, pk := range builtinKeys() {
		if defined(pk.Name) || !strings.HasPrefix(pk.Name, prefix) {
			continue
		}
		detail := paletteDetail(pk)
		items = append(items, protocol.CompletionItem{
			Label:    pk.Name,
			Kind:     completionKindPtr(protocol.CompletionItemKindColor),
			Detail:   &detail,
			SortText: strPtr("1" + pk.Name),
		})
	}

	return items
}

// referenceCompletions offers color keys for var(--key), document keys first.
func referenceCompletions(result *AnalysisResult, prefix string) []protocol.CompletionItem {
	seen := make(map[string]bool)
	var items []protocol.CompletionItem

	if result != nil {
		for _, e := range result.Entries {
			if !e.Accepted || e.Bucket != theme.BucketColor || seen[e.Key] || !strings.HasPrefix(e.Key, prefix) {
				continue
			}
			seen[e.Key] = true
			detail := "defined in this theme"
			if s, ok := e.Value.(string); ok {
				detail = s
			}
			items = append(items, protocol.CompletionItem{
				Label:    e.Key,
				Kind:     completionKindPtr(protocol.CompletionItemKindVariable),
				Detail:   &detail,
				SortText: strPtr("0" + e.Key),
			})
		}
	}

	for _, pk := range builtinKeys() {
		if seen[pk.Name] || !strings.HasPrefix(pk.Name, prefix) {
			continue
		}
		detail := paletteDetail(pk)
		items = append(items, protocol.CompletionItem{
			Label:    pk.Name,
			Kind:     completionKindPtr(protocol.CompletionItemKindColor),
			Detail:   &detail,
			SortText: strPtr("1" + pk.Name),
		})
	}

	return items
}

func enumCompletions(key, prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	for _, v := range enumValues[key] {
		if !strings.HasPrefix(v, prefix) {
			continue
		}
		items = append(items, protocol.CompletionItem{
			Label: v,
			Kind:  completionKindPtr(protocol.CompletionItemKindEnumMember),
		})
	}
	return items
}

func paletteDetail(pk paletteKey) string {
	var parts []string
	for _, variant := range palette.Variants() {
		if v, ok := pk.Values[variant]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", variant, v))
		}
	}
	return strings.Join(parts, " · ")
}

// completionKindPtr returns a pointer to a CompletionItemKind.
func completionKindPtr(k protocol.CompletionItemKind) *protocol.CompletionItemKind {
	return &k
}

// textDocumentCompletion is the LSP handler for textDocument/completion requests.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	items := complete(s.getResult(uri), content, params.Position)
	return items, nil
}
