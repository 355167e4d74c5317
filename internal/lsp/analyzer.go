package lsp

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	hcljson "github.com/hashicorp/hcl/v2/json"
	"github.com/jsvensson/customtheme/internal/color"
	"github.com/jsvensson/customtheme/internal/theme"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const diagSource = "customtheme"

var (
	DiagError   = protocol.DiagnosticSeverityError
	DiagWarning = protocol.DiagnosticSeverityWarning
	DiagInfo    = protocol.DiagnosticSeverityInformation
)

// AnalysisResult holds all information produced by analyzing a theme document.
type AnalysisResult struct {
	Diagnostics []protocol.Diagnostic
	Entries     []EntryInfo
	Symbols     map[string]protocol.Range // document key -> key range
	Colors      []ColorLocation
	References  []Reference
}

// EntryInfo is a classified top-level entry with its source ranges.
type EntryInfo struct {
	theme.Entry
	Accepted   bool
	KeyRange   protocol.Range
	ValueRange protocol.Range
}

// ColorLocation records a resolved color at a specific source position.
type ColorLocation struct {
	Range protocol.Range
	Color color.CSS
	Key   string
	IsRef bool // true if the value is a var(--key) reference
}

// Reference is a var(--key) occurrence inside a value.
type Reference struct {
	Range protocol.Range
	Key   string
}

// varRef matches a custom property reference. The first group is the key.
var varRef = regexp.MustCompile(`var\(\s*--([A-Za-z0-9_-]+)\s*(?:,[^)]*)?\)`)

// hclPosToLSP converts an HCL position to an LSP position.
// HCL positions are 1-based; LSP positions are 0-based.
func hclPosToLSP(pos hcl.Pos) protocol.Position {
	return protocol.Position{
		Line:      uint32(pos.Line - 1),
		Character: uint32(pos.Column - 1),
	}
}

// hclRangeToLSP converts an HCL range to an LSP range.
func hclRangeToLSP(r hcl.Range) protocol.Range {
	return protocol.Range{
		Start: hclPosToLSP(r.Start),
		End:   hclPosToLSP(r.End),
	}
}

// Analyze parses a theme document and classifies every top-level entry the
// same way an import would. It collects all problems rather than stopping at
// the first.
func Analyze(filename, content string) *AnalysisResult {
	result := &AnalysisResult{
		Symbols: make(map[string]protocol.Range),
	}

	// A well-formed non-object root is reported the way an import sees it.
	doc, err := theme.Decode([]byte(content))
	if errors.Is(err, theme.ErrNotObject) {
		result.addError(documentStart(filename), err.Error()+"; this file cannot be imported")
		return result
	}

	file, diags := hcljson.Parse([]byte(content), filename)
	if diags.HasErrors() {
		for _, d := range diags {
			result.Diagnostics = append(result.Diagnostics, hclDiagToLSP(d))
		}
		// Cannot classify entries if syntax is broken
		return result
	}
	if err != nil {
		result.addError(documentStart(filename), err.Error()+"; this file cannot be imported")
		return result
	}

	attrs, diags := file.Body.JustAttributes()
	for _, d := range diags {
		diag := hclDiagToLSP(d)
		// Duplicate keys are legal JSON; the last one wins on import.
		if strings.HasPrefix(d.Summary, "Duplicate") {
			diag.Severity = &DiagWarning
		}
		result.Diagnostics = append(result.Diagnostics, diag)
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return attrs[names[i]].Range.Start.Byte < attrs[names[j]].Range.Start.Byte
	})

	for _, name := range names {
		result.analyzeEntry(attrs[name], doc[name])
	}
	result.resolveReferences()

	return result
}

func (r *AnalysisResult) analyzeEntry(attr *hcl.Attribute, value any) {
	entry, ok := theme.Classify(attr.Name, value)
	valueRange := attr.Expr.Range()
	info := EntryInfo{
		Entry:      entry,
		Accepted:   ok,
		KeyRange:   hclRangeToLSP(attr.NameRange),
		ValueRange: hclRangeToLSP(valueRange),
	}
	r.Entries = append(r.Entries, info)
	r.Symbols[attr.Name] = info.KeyRange

	if !ok {
		_, want := theme.Expected(attr.Name)
		what := fmt.Sprintf("color %q", attr.Name)
		if entry.Bucket == theme.BucketMetadata {
			what = fmt.Sprintf("metadata field %q", attr.Name)
		}
		msg := fmt.Sprintf("%s must be a %s, got %s; it will be dropped on import", what, want, entry.Kind)
		if entry.Kind == theme.KindNumber && want&theme.KindNumber != 0 {
			msg = fmt.Sprintf("%s is out of range; it will be dropped on import", what)
		}
		r.addWarning(valueRange, msg)
		return
	}

	s, isString := value.(string)
	if !isString {
		return
	}
	inner := stringContentRange(valueRange)

	if entry.Bucket == theme.BucketMetadata {
		if _, err := color.ParseCSS(s); err == nil {
			r.addInfo(attr.NameRange, fmt.Sprintf("%q is a reserved metadata key; its value is not applied as a color", attr.Name))
		}
		return
	}

	if c, err := color.ParseCSS(s); err == nil {
		r.Colors = append(r.Colors, ColorLocation{Range: hclRangeToLSP(inner), Color: c, Key: attr.Name})
	}

	for _, m := range varRef.FindAllStringSubmatchIndex(s, -1) {
		// Offsets are only exact for values without escapes on a single line.
		if inner.Start.Line != inner.End.Line || inner.End.Byte-inner.Start.Byte != len(s) {
			break
		}
		start := inner.Start
		r.References = append(r.References, Reference{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(start.Line - 1), Character: uint32(start.Column - 1 + m[0])},
				End:   protocol.Position{Line: uint32(start.Line - 1), Character: uint32(start.Column - 1 + m[1])},
			},
			Key: s[m[2]:m[3]],
		})
	}
}

// resolveReferences adds a color location for every whole-value reference to
// a color defined in the same document, and flags references to keys the
// document does not define.
func (r *AnalysisResult) resolveReferences() {
	colors := make(map[string]color.CSS)
	for _, cl := range r.Colors {
		colors[cl.Key] = cl.Color
	}
	defined := make(map[string]bool)
	for _, e := range r.Entries {
		if e.Accepted && e.Bucket == theme.BucketColor {
			defined[e.Key] = true
		}
	}

	for _, ref := range r.References {
		if !defined[ref.Key] {
			r.Diagnostics = append(r.Diagnostics, protocol.Diagnostic{
				Range:    ref.Range,
				Severity: &DiagInfo,
				Source:   strPtr(diagSource),
				Message:  fmt.Sprintf("--%s is not defined in this theme; it falls back to the base theme", ref.Key),
			})
			continue
		}
		if c, ok := colors[ref.Key]; ok {
			r.Colors = append(r.Colors, ColorLocation{Range: ref.Range, Color: c, Key: ref.Key, IsRef: true})
		}
	}
}

// Entry returns the entry whose key or value contains pos.
func (r *AnalysisResult) Entry(pos protocol.Position) (EntryInfo, bool) {
	for _, e := range r.Entries {
		if posInRange(pos, e.KeyRange) || posInRange(pos, e.ValueRange) {
			return e, true
		}
	}
	return EntryInfo{}, false
}

// stringContentRange shrinks the range of a quoted JSON string to its content.
func stringContentRange(rng hcl.Range) hcl.Range {
	if rng.End.Byte-rng.Start.Byte < 2 {
		return rng
	}
	rng.Start.Column++
	rng.Start.Byte++
	rng.End.Column--
	rng.End.Byte--
	return rng
}

func documentStart(filename string) hcl.Range {
	return hcl.Range{
		Filename: filename,
		Start:    hcl.Pos{Line: 1, Column: 1},
		End:      hcl.Pos{Line: 1, Column: 1},
	}
}

// hclDiagToLSP converts an HCL diagnostic to an LSP diagnostic.
func hclDiagToLSP(d *hcl.Diagnostic) protocol.Diagnostic {
	sev := DiagError
	if d.Severity == hcl.DiagWarning {
		sev = DiagWarning
	}

	diag := protocol.Diagnostic{
		Severity: &sev,
		Message:  d.Summary,
		Source:   strPtr(diagSource),
	}

	if d.Detail != "" {
		diag.Message = d.Summary + ": " + d.Detail
	}

	if d.Subject != nil {
		diag.Range = hclRangeToLSP(*d.Subject)
	}

	return diag
}

// addError adds an error-level diagnostic at the given range.
func (r *AnalysisResult) addError(rng hcl.Range, msg string) {
	r.add(rng, DiagError, msg)
}

// addWarning adds a warning-level diagnostic at the given range.
func (r *AnalysisResult) addWarning(rng hcl.Range, msg string) {
	r.add(rng, DiagWarning, msg)
}

func (r *AnalysisResult) addInfo(rng hcl.Range, msg string) {
	r.add(rng, DiagInfo, msg)
}

func (r *AnalysisResult) add(rng hcl.Range, sev protocol.DiagnosticSeverity, msg string) {
	r.Diagnostics = append(r.Diagnostics, protocol.Diagnostic{
		Range:    hclRangeToLSP(rng),
		Severity: &sev,
		Source:   strPtr(diagSource),
		Message:  msg,
	})
}

func strPtr(s string) *string {
	return &s
}
