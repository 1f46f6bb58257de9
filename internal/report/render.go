package report

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/weighbuddy/weighbuddy-backend/internal/domain/weigh"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
)

// Page geometry, A4 at 150dpi.
const (
	pageW = 1240
	pageH = 1754

	marginX  = 80.0
	lineH    = 34.0
	headingH = 52.0
)

var (
	colorInk     = color.NRGBA{R: 0x1f, G: 0x26, B: 0x2e, A: 0xff}
	colorMuted   = color.NRGBA{R: 0x6b, G: 0x74, B: 0x7d, A: 0xff}
	colorRule    = color.NRGBA{R: 0xd5, G: 0xda, B: 0xdf, A: 0xff}
	colorOK      = color.NRGBA{R: 0x1e, G: 0x8e, B: 0x3e, A: 0xff}
	colorOver    = color.NRGBA{R: 0xc6, G: 0x2a, B: 0x2a, A: 0xff}
	colorUnknown = color.NRGBA{R: 0x8a, G: 0x6d, B: 0x1a, A: 0xff}
)

// Renderer draws a finalized report model onto a single PNG page. The
// layout is fixed; the model is never recomputed here.
type Renderer struct {
	log   *logger.Logger
	title font.Face
	body  font.Face
}

// NewRenderer loads the report typeface from REPORT_FONT. Without one
// it falls back to a built-in bitmap face, which keeps dev and test
// environments working with no assets on disk.
func NewRenderer(log *logger.Logger) (*Renderer, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	rendererLog := log.With("service", "ReportRenderer")

	fontPath := strings.TrimSpace(os.Getenv("REPORT_FONT"))
	if fontPath == "" {
		rendererLog.Warn("REPORT_FONT not set, using built-in bitmap face")
		return &Renderer{log: rendererLog, title: basicfont.Face7x13, body: basicfont.Face7x13}, nil
	}

	title, err := loadFontFace(fontPath, 40)
	if err != nil {
		return nil, fmt.Errorf("could not load report font: %w", err)
	}
	body, err := loadFontFace(fontPath, 22)
	if err != nil {
		return nil, fmt.Errorf("could not load report font: %w", err)
	}
	return &Renderer{log: rendererLog, title: title, body: body}, nil
}

func (r *Renderer) Render(m weigh.ReportModel) ([]byte, error) {
	dc := gg.NewContext(pageW, pageH)
	dc.SetColor(color.White)
	dc.Clear()

	y := 110.0

	dc.SetFontFace(r.title)
	dc.SetColor(colorInk)
	dc.DrawString("Weigh Report", marginX, y)

	dc.SetFontFace(r.body)
	dc.SetColor(colorMuted)
	y += headingH
	dc.DrawString(fmt.Sprintf("Session %s", m.SessionID), marginX, y)
	y += lineH
	dc.DrawString(fmt.Sprintf("Generated %s", m.GeneratedAt.Format("2 Jan 2006 15:04 MST")), marginX, y)
	y += lineH
	dc.DrawString(fmt.Sprintf("Target: %s", targetLabel(m.TargetType)), marginX, y)
	if m.VehicleMethod != "" {
		y += lineH
		dc.DrawString(fmt.Sprintf("Method: %s", methodLabel(m.VehicleMethod)), marginX, y)
	}

	y = r.rule(dc, y+lineH)

	if m.Vehicle != nil {
		y = r.entityBlock(dc, y, "Tow vehicle", m.Vehicle)
	}
	if m.Caravan != nil {
		y = r.entityBlock(dc, y, "Caravan", m.Caravan)
	}
	if m.PreWeigh != nil && m.PreWeigh.Notes != "" {
		dc.SetColor(colorMuted)
		dc.DrawString(fmt.Sprintf("Load notes: %s", m.PreWeigh.Notes), marginX, y)
		y += lineH
	}

	y = r.rule(dc, y)
	y = r.resultsTable(dc, y, m.Results)

	if len(m.Incomplete) > 0 {
		y += lineH / 2
		dc.SetColor(colorUnknown)
		dc.DrawString("Some readings were left blank and counted as 0 kg:", marginX, y)
		y += lineH
		dc.DrawString("  "+strings.Join(m.Incomplete, ", "), marginX, y)
		y += lineH
	}

	if m.WDHShift != nil {
		y += lineH / 2
		dc.SetColor(colorInk)
		dc.DrawString(fmt.Sprintf("WDH released: front axle %+.0f kg, rear axle %+.0f kg",
			m.WDHShift.FrontAxleDelta, m.WDHShift.RearAxleDelta), marginX, y)
		y += lineH
	}

	dc.SetColor(colorMuted)
	dc.DrawString("Margins are rated capacity minus measured mass. Manual entries are advisory only.",
		marginX, pageH-70)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) rule(dc *gg.Context, y float64) float64 {
	dc.SetColor(colorRule)
	dc.SetLineWidth(1.5)
	dc.DrawLine(marginX, y, pageW-marginX, y)
	dc.Stroke()
	return y + lineH
}

func (r *Renderer) entityBlock(dc *gg.Context, y float64, label string, e *weigh.EntitySummary) float64 {
	dc.SetColor(colorInk)
	desc := strings.TrimSpace(fmt.Sprintf("%s %s %s", yearStr(e.Year), e.Make, e.Model))
	dc.DrawString(fmt.Sprintf("%s: %s", label, desc), marginX, y)
	y += lineH
	dc.SetColor(colorMuted)
	id := fmt.Sprintf("%s %s", e.State, e.Plate)
	if e.VIN != "" {
		id += "  VIN " + e.VIN
	}
	dc.DrawString(fmt.Sprintf("  %s  (ratings: %s)", id, sourceLabel(e.Source)), marginX, y)
	return y + lineH
}

func (r *Renderer) resultsTable(dc *gg.Context, y float64, results []weigh.ComplianceResult) float64 {
	colMetric := marginX
	colMeasured := marginX + 280
	colRated := marginX + 500
	colMargin := marginX + 720
	colStatus := marginX + 920

	dc.SetColor(colorMuted)
	dc.DrawString("Check", colMetric, y)
	dc.DrawString("Measured", colMeasured, y)
	dc.DrawString("Rated", colRated, y)
	dc.DrawString("Margin", colMargin, y)
	dc.DrawString("Status", colStatus, y)
	y += lineH + 6

	for _, res := range results {
		dc.SetColor(colorInk)
		dc.DrawString(res.Metric, colMetric, y)
		dc.DrawString(fmt.Sprintf("%.0f kg", res.Measured), colMeasured, y)
		if res.Rated != nil {
			dc.DrawString(fmt.Sprintf("%.0f kg", *res.Rated), colRated, y)
		} else {
			dc.SetColor(colorMuted)
			dc.DrawString("not rated", colRated, y)
			dc.SetColor(colorInk)
		}
		if res.Margin != nil {
			dc.DrawString(fmt.Sprintf("%+.0f kg", *res.Margin), colMargin, y)
		} else {
			dc.SetColor(colorMuted)
			dc.DrawString("-", colMargin, y)
		}

		switch res.Status {
		case weigh.StatusOK:
			dc.SetColor(colorOK)
			dc.DrawString("OK", colStatus, y)
		case weigh.StatusOverloaded:
			dc.SetColor(colorOver)
			dc.DrawString("OVERLOADED", colStatus, y)
		default:
			dc.SetColor(colorUnknown)
			dc.DrawString("UNKNOWN", colStatus, y)
		}
		y += lineH
	}
	return y
}

func targetLabel(t weigh.TargetType) string {
	switch t {
	case weigh.TargetVehicleOnly:
		return "Vehicle only"
	case weigh.TargetTowVehicleAndCaravan:
		return "Tow vehicle and caravan"
	case weigh.TargetCaravanOnlyRegistered:
		return "Caravan only"
	}
	return string(t)
}

func methodLabel(m weigh.Method) string {
	switch m {
	case weigh.MethodPortableTyres:
		return "Portable scales (per tyre)"
	case weigh.MethodWeighbridgeInGround:
		return "In-ground weighbridge"
	case weigh.MethodWeighbridgeGoWeigh:
		return "Go-weigh weighbridge"
	case weigh.MethodWeighbridgeAboveGround:
		return "Above-ground weighbridge"
	}
	return string(m)
}

func sourceLabel(s weigh.CapacitySource) string {
	switch s {
	case weigh.SourceInternalRegistry:
		return "registry"
	case weigh.SourceExternalLookup:
		return "registration feed"
	case weigh.SourceManualEntry:
		return "manual entry"
	}
	return string(s)
}

func yearStr(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprintf("%d", year)
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
