package lsp

import (
	"math"

	"github.com/jsvensson/customtheme/internal/color"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// colorToLSP converts a parsed CSS color to a protocol.Color (float32 0.0-1.0).
func colorToLSP(c color.CSS) protocol.Color {
	return protocol.Color{
		Red:   float32(c.Color.R) / 255.0,
		Green: float32(c.Color.G) / 255.0,
		Blue:  float32(c.Color.B) / 255.0,
		Alpha: float32(c.Alpha),
	}
}

// colorFromLSP converts a protocol.Color back to a color that keeps format.
func colorFromLSP(c protocol.Color, format color.Format) color.CSS {
	channel := func(v float32) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, float64(v))) * 255))
	}
	return color.CSS{
		Color:  color.Color{R: channel(c.Red), G: channel(c.Green), B: channel(c.Blue)},
		Alpha:  float64(c.Alpha),
		Format: format,
	}
}

// documentColors converts the analysis result's color locations into LSP ColorInformation items.
func documentColors(result *AnalysisResult) []protocol.ColorInformation {
	if result == nil {
		return []protocol.ColorInformation{}
	}

	infos := make([]protocol.ColorInformation, 0, len(result.Colors))
	for _, cl := range result.Colors {
		infos = append(infos, protocol.ColorInformation{
			Range: cl.Range,
			Color: colorToLSP(cl.Color),
		})
	}
	return infos
}

// colorPresentation produces color presentation options for a given color and range.
// Literal values get one edit per notation, the original notation first.
// References (var(--key)) get none so they are never replaced by literals.
func colorPresentation(result *AnalysisResult, params *protocol.ColorPresentationParams) []protocol.ColorPresentation {
	if result == nil {
		return []protocol.ColorPresentation{}
	}

	for _, cl := range result.Colors {
		if cl.Range != params.Range {
			continue
		}
		if cl.IsRef {
			return []protocol.ColorPresentation{}
		}

		formats := []color.Format{cl.Color.Format}
		for _, f := range []color.Format{color.FormatHex, color.FormatRGB, color.FormatOKLCH} {
			if f != cl.Color.Format {
				formats = append(formats, f)
			}
		}

		presentations := make([]protocol.ColorPresentation, 0, len(formats))
		for _, f := range formats {
			text := colorFromLSP(params.Color, f).String()
			presentations = append(presentations, protocol.ColorPresentation{
				Label: text,
				TextEdit: &protocol.TextEdit{
					Range:   params.Range,
					NewText: text,
				},
			})
		}
		return presentations
	}

	return []protocol.ColorPresentation{}
}

// textDocumentColor handles textDocument/documentColor requests.
func (s *Server) textDocumentColor(_ *glsp.Context, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	uri := string(params.TextDocument.URI)
	return documentColors(s.getResult(uri)), nil
}

// textDocumentColorPresentation handles textDocument/colorPresentation requests.
func (s *Server) textDocumentColorPresentation(_ *glsp.Context, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	uri := string(params.TextDocument.URI)
	return colorPresentation(s.getResult(uri), params), nil
}
