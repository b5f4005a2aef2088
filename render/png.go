package render

import (
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/wricardo/mars-rovers/game/simulation"
)

var (
	pathColor     = color.Black
	wrapColor     = color.RGBA{0, 0, 255, 255}
	obstacleColor = color.RGBA{0, 128, 0, 255}
	gridColor     = color.RGBA{200, 200, 200, 255}
	roverColor    = color.RGBA{220, 40, 40, 255}
)

var font *truetype.Font

func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// Options controls the PNG layout
type Options struct {
	CellSize int
	Margin   int
}

// MaxCanvasPixels caps the image area; larger grids get smaller cells
const MaxCanvasPixels = 4096 * 4096

// DefaultOptions returns 48px cells with room for the title and legend
func DefaultOptions() Options {
	return Options{CellSize: 48, Margin: 40}
}

// PNG encodes an image of the report to w
func PNG(w io.Writer, report *simulation.Report, opts Options) error {
	dc, err := Draw(report, opts)
	if err != nil {
		return err
	}
	return errors.Wrap(dc.EncodePNG(w), "failed to encode png")
}

// SavePNG writes an image of the report to path
func SavePNG(path string, report *simulation.Report, opts Options) error {
	dc, err := Draw(report, opts)
	if err != nil {
		return err
	}
	return errors.Wrapf(dc.SavePNG(path), "failed to save %s", path)
}

// Draw renders the report into a new drawing context
func Draw(report *simulation.Report, opts Options) (*gg.Context, error) {
	if report == nil {
		return nil, errors.New("nothing to draw")
	}
	if opts.CellSize <= 0 {
		opts = DefaultOptions()
	}
	opts.CellSize = fitCellSize(report.Width, report.Height, opts)

	cell := float64(opts.CellSize)
	margin := float64(opts.Margin)
	width := report.Width*opts.CellSize + 2*opts.Margin
	height := report.Height*opts.CellSize + 3*opts.Margin

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	// cell (x, y) has its lower-left corner at origin(x, y); y grows upwards
	origin := func(x, y int) (float64, float64) {
		return margin + float64(x)*cell, margin + float64(report.Height-y)*cell
	}
	center := func(x, y int) (float64, float64) {
		ox, oy := origin(x, y)
		return ox + cell/2, oy - cell/2
	}

	for _, p := range report.Obstacles {
		ox, oy := origin(p.X, p.Y)
		dc.DrawRectangle(ox, oy-cell, cell, cell)
		dc.SetColor(obstacleColor)
		dc.Fill()
	}

	dc.SetColor(gridColor)
	dc.SetLineWidth(1)
	for x := 0; x <= report.Width; x++ {
		ox, _ := origin(x, 0)
		dc.DrawLine(ox, margin, ox, margin+float64(report.Height)*cell)
		dc.Stroke()
	}
	for y := 0; y <= report.Height; y++ {
		_, oy := origin(0, y)
		dc.DrawLine(margin, oy, margin+float64(report.Width)*cell, oy)
		dc.Stroke()
	}

	for _, seg := range report.Segments {
		x1, y1 := center(seg.From.X, seg.From.Y)
		x2, y2 := center(seg.To.X, seg.To.Y)
		var c color.Color = pathColor
		if seg.Wrap {
			c = wrapColor
		}
		drawArrow(dc, x1, y1, x2, y2, c, cell/6)
	}

	rx, ry := center(report.Position.X, report.Position.Y)
	dc.SetColor(roverColor)
	dc.DrawCircle(rx, ry, cell/6)
	dc.Fill()

	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: 16}))
	dc.SetColor(color.Black)
	dc.DrawStringAnchored("Final position: "+report.Status, float64(width)/2, margin/2, 0.5, 0.5)

	drawLegend(dc, margin, float64(height)-margin)
	return dc, nil
}

func drawArrow(dc *gg.Context, x1, y1, x2, y2 float64, c color.Color, head float64) {
	dc.SetColor(c)
	dc.SetLineWidth(2)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()

	angle := math.Atan2(y2-y1, x2-x1)
	for _, side := range []float64{math.Pi * 5 / 6, -math.Pi * 5 / 6} {
		dc.DrawLine(x2, y2, x2+head*math.Cos(angle+side), y2+head*math.Sin(angle+side))
		dc.Stroke()
	}
}

func drawLegend(dc *gg.Context, x, y float64) {
	entries := []struct {
		label string
		c     color.Color
	}{
		{"Obstacles", obstacleColor},
		{"Wrap around", wrapColor},
		{"Rovers path", pathColor},
	}

	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: 12}))
	for _, e := range entries {
		dc.SetColor(e.c)
		dc.DrawRectangle(x, y, 12, 12)
		dc.Fill()
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(e.label, x+18, y+6, 0, 0.5)
		x += 120
	}
}

// fitCellSize shrinks the cell size until the canvas fits MaxCanvasPixels.
// Cells never go below one pixel.
func fitCellSize(cols, rows int, opts Options) int {
	canvas := func(cell int) int {
		return (cols*cell + 2*opts.Margin) * (rows*cell + 3*opts.Margin)
	}

	cell := opts.CellSize
	if cell <= 1 || canvas(cell) <= MaxCanvasPixels {
		return cell
	}

	// start near the largest fitting size, then step down past the margins
	if guess := int(math.Sqrt(float64(MaxCanvasPixels)/float64(cols*rows))) + 1; guess < cell {
		cell = guess
	}
	for cell > 1 && canvas(cell) > MaxCanvasPixels {
		cell--
	}
	return cell
}
