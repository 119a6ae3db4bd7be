package report

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/inspectsim/inspectsim/pkg/consignment"
)

// SVGOptions configures the consignment grid visualization, mirroring the
// teacher's SVGOptions for dungeon-graph export.
type SVGOptions struct {
	Width      int
	Height     int
	CellSize   int
	Margin     int
	ShowLegend bool
	Title      string
}

// DefaultSVGOptions returns sensible default SVG export options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 1000, Height: 700, CellSize: 14, Margin: 40, ShowLegend: true, Title: "Consignment"}
}

// ExportSVG renders a consignment as a grid of boxes × items, one cell per
// item, colored by contamination/inspection status.
func ExportSVG(c *consignment.Consignment, opts SVGOptions) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("report: consignment cannot be nil")
	}
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 700
	}
	if opts.CellSize <= 0 {
		opts.CellSize = 14
	}
	if opts.Margin <= 0 {
		opts.Margin = 40
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#ffffff")

	drawGrid(canvas, c, opts)
	if opts.ShowLegend {
		drawSVGLegend(canvas, opts)
	}
	if opts.Title != "" {
		canvas.Text(opts.Margin, opts.Margin/2, fmt.Sprintf("%s (%d boxes × %d items)", opts.Title, c.Boxes, c.ItemsPerBox), "font-size:16px;font-family:sans-serif")
	}

	canvas.End()
	return buf.Bytes(), nil
}

func drawGrid(canvas *svg.SVG, c *consignment.Consignment, opts SVGOptions) {
	x, y := opts.Margin, opts.Margin
	cols := (opts.Width - 2*opts.Margin) / opts.CellSize
	if cols <= 0 {
		cols = 1
	}

	col := 0
	for box := 0; box < c.Boxes; box++ {
		start, end := c.BoxRange(box)
		for i := start; i < end; i++ {
			style := "fill:#7ec850;stroke:#ffffff;stroke-width:1"
			if c.ItemContaminated.Test(uint(i)) {
				style = "fill:#d94f4f;stroke:#ffffff;stroke-width:1"
			}
			if c.ItemInspected.Test(uint(i)) {
				style += ";stroke:#222222;stroke-width:2"
			}
			canvas.Rect(x+col*opts.CellSize, y, opts.CellSize-2, opts.CellSize-2, style)
			col++
			if col >= cols {
				col = 0
				y += opts.CellSize
			}
		}
		// box delimiter: small gap
		col++
		if col >= cols {
			col = 0
			y += opts.CellSize
		}
	}
}

func drawSVGLegend(canvas *svg.SVG, opts SVGOptions) {
	ly := opts.Height - opts.Margin
	canvas.Rect(opts.Margin, ly, 12, 12, "fill:#7ec850")
	canvas.Text(opts.Margin+18, ly+10, "clean", "font-size:12px;font-family:sans-serif")
	canvas.Rect(opts.Margin+90, ly, 12, 12, "fill:#d94f4f")
	canvas.Text(opts.Margin+108, ly+10, "contaminated", "font-size:12px;font-family:sans-serif")
	canvas.Rect(opts.Margin+220, ly, 12, 12, "fill:#7ec850;stroke:#222222;stroke-width:2")
	canvas.Text(opts.Margin+238, ly+10, "inspected", "font-size:12px;font-family:sans-serif")
}
