package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/hashicorp/go-hclog"
)

// Page geometry in millimetres (A4 portrait).
const (
	pageMargin  = 15.0
	usableWidth = 210 - 2*pageMargin
	breakAtY    = 265.0

	cardWidth   = 87.0
	cardHeight  = 20.0
	cardGap     = 6.0
	chartHeight = 50.0
	barWidth    = 14.0
	barGap      = 8.0
	rowHeight   = 9.0
)

// PDFRenderer lays a Model out on A4 pages. It is the only part of the
// reporting path that knows about physical pages.
type PDFRenderer struct {
	logger hclog.Logger
}

func NewPDFRenderer(logger hclog.Logger) *PDFRenderer {
	return &PDFRenderer{logger: logger}
}

// Render writes the report as a PDF document to w.
func (r *PDFRenderer) Render(m Model, w io.Writer) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(false, pageMargin)
	doc.AddPage()

	r.header(doc, m.Header)

	if len(m.Cards) > 0 {
		r.summaryCards(doc, m.Cards)
	}

	if m.TopCategory != "" {
		doc.SetFont("Helvetica", "", 11)
		doc.SetTextColor(17, 24, 39)
		doc.CellFormat(usableWidth, 8,
			fmt.Sprintf("Top category: %s", m.TopCategory), "", 1, "L", false, 0, "")
		doc.Ln(2)
	}

	if len(m.Histogram) > 0 {
		r.histogram(doc, m.Histogram)
	}

	r.table(doc, m.Table)
	r.footer(doc, m)

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("unable to render PDF: %w", err)
	}
	return nil
}

func (r *PDFRenderer) header(doc *fpdf.Fpdf, h Header) {
	doc.SetFont("Helvetica", "B", 24)
	doc.SetTextColor(37, 99, 235)
	doc.CellFormat(usableWidth, 12, h.Title, "", 1, "C", false, 0, "")

	if h.Subtitle != "" {
		doc.SetFont("Helvetica", "", 11)
		doc.SetTextColor(75, 85, 99)
		doc.CellFormat(usableWidth, 7, h.Subtitle, "", 1, "C", false, 0, "")
	}

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(107, 114, 128)
	doc.CellFormat(usableWidth, 6,
		"Generated on: "+h.GeneratedAt.Format("2006-01-02"), "", 1, "R", false, 0, "")
	doc.Ln(4)
}

func (r *PDFRenderer) summaryCards(doc *fpdf.Fpdf, cards []SummaryCard) {
	startY := doc.GetY()
	rows := 0
	for i, card := range cards {
		x := pageMargin + float64(i%2)*(cardWidth+cardGap)
		y := startY + float64(i/2)*(cardHeight+cardGap)
		rows = i/2 + 1

		doc.SetDrawColor(229, 231, 235)
		doc.SetFillColor(239, 246, 255)
		doc.Rect(x, y, cardWidth, cardHeight, "FD")

		doc.SetXY(x+4, y+3)
		doc.SetFont("Helvetica", "", 9)
		doc.SetTextColor(107, 114, 128)
		doc.CellFormat(cardWidth-8, 5, card.Label, "", 0, "L", false, 0, "")

		doc.SetXY(x+4, y+9)
		doc.SetFont("Helvetica", "B", 14)
		doc.SetTextColor(29, 78, 216)
		doc.CellFormat(cardWidth-8, 8, card.Value, "", 0, "L", false, 0, "")
	}
	doc.SetXY(pageMargin, startY+float64(rows)*(cardHeight+cardGap)+2)
}

func (r *PDFRenderer) histogram(doc *fpdf.Fpdf, buckets []CategoryBucket) {
	doc.SetFont("Helvetica", "B", 13)
	doc.SetTextColor(17, 24, 39)
	doc.CellFormat(usableWidth, 9, "Category Distribution", "", 1, "L", false, 0, "")

	palette := [][3]int{
		{59, 130, 246}, {34, 197, 94}, {249, 115, 22},
		{168, 85, 247}, {14, 165, 233}, {249, 115, 161},
	}

	chartTop := doc.GetY() + 2
	// Keep the chart on one page; bars past the right margin are dropped
	// rather than wrapped.
	barPitch := float64(barWidth + barGap)
	maxBars := int(usableWidth / barPitch)
	for i, bucket := range buckets {
		if i >= maxBars {
			r.logger.Warn("Histogram truncated to fit page", "buckets", len(buckets), "drawn", maxBars)
			break
		}

		barHeight := bucket.Scale * chartHeight
		x := pageMargin + float64(i)*barPitch
		y := chartTop + chartHeight - barHeight

		color := palette[i%len(palette)]
		doc.SetFillColor(color[0], color[1], color[2])
		doc.Rect(x, y, barWidth, barHeight, "F")

		doc.SetFont("Helvetica", "", 7)
		doc.SetTextColor(55, 65, 81)
		doc.SetXY(x, y-4)
		doc.CellFormat(barWidth, 4, strconv.Itoa(bucket.Count), "", 0, "C", false, 0, "")

		doc.SetXY(x-barGap/2, chartTop+chartHeight+1)
		doc.CellFormat(barWidth+barGap, 4, bucket.Category, "", 0, "C", false, 0, "")
	}

	doc.SetXY(pageMargin, chartTop+chartHeight+8)
}

func (r *PDFRenderer) table(doc *fpdf.Fpdf, t Table) {
	doc.SetFont("Helvetica", "B", 13)
	doc.SetTextColor(17, 24, 39)
	doc.CellFormat(usableWidth, 9, "Details", "", 1, "L", false, 0, "")

	if len(t.Rows) == 0 {
		doc.SetFont("Helvetica", "", 10)
		doc.SetTextColor(107, 114, 128)
		doc.CellFormat(usableWidth, 8, t.Placeholder, "", 1, "L", false, 0, "")
		return
	}

	colWidth := usableWidth / float64(len(t.Columns))

	drawHeader := func() {
		doc.SetFont("Helvetica", "B", 10)
		doc.SetFillColor(239, 246, 255)
		doc.SetTextColor(31, 41, 55)
		doc.SetDrawColor(191, 219, 254)
		for _, col := range t.Columns {
			doc.CellFormat(colWidth, rowHeight, col, "1", 0, "L", true, 0, "")
		}
		doc.Ln(-1)
	}

	drawHeader()
	doc.SetFont("Helvetica", "", 9)
	doc.SetDrawColor(229, 231, 235)
	for i, row := range t.Rows {
		if doc.GetY()+rowHeight > breakAtY {
			doc.AddPage()
			drawHeader()
			doc.SetFont("Helvetica", "", 9)
			doc.SetDrawColor(229, 231, 235)
		}

		if i%2 == 0 {
			doc.SetFillColor(255, 255, 255)
		} else {
			doc.SetFillColor(249, 250, 251)
		}
		doc.SetTextColor(17, 24, 39)
		for _, cell := range row {
			doc.CellFormat(colWidth, rowHeight, cell, "1", 0, "L", true, 0, "")
		}
		doc.Ln(-1)
	}
}

func (r *PDFRenderer) footer(doc *fpdf.Fpdf, m Model) {
	doc.Ln(6)
	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(107, 114, 128)
	doc.CellFormat(usableWidth, 5,
		fmt.Sprintf("(c) %d %s", m.Header.GeneratedAt.Year(), m.Footer), "", 1, "C", false, 0, "")
	doc.CellFormat(usableWidth, 5,
		"Report generated on "+m.Header.GeneratedAt.Format("2006-01-02"), "", 1, "C", false, 0, "")
}
