package scope

import (
	"fmt"
	"image/color"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/itohio/govm/pkg/meter"
	"github.com/itohio/govm/pkg/sample"
)

var (
	gridColor  = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	traceColor = color.RGBA{R: 255, G: 165, B: 0, A: 255}   // Orange
	meanColor  = color.RGBA{R: 100, G: 200, B: 255, A: 255} // Light blue
	statsColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	grid    *canvas.Rectangle
	objects []fyne.CanvasObject

	lastSize fyne.Size
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	r.grid.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh rebuilds the plot from the current snapshot.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	samples := r.scope.displaySamples
	stats := r.scope.stats
	yMin, yMax := r.scope.yMin, r.scope.yMax
	xMin, xMax := r.scope.xMin, r.scope.xMax
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.objects = []fyne.CanvasObject{r.grid}

	const (
		marginLeft   = float32(60)
		marginRight  = float32(20)
		marginTop    = float32(20)
		marginBottom = float32(40)
	)
	p := plot{
		x:    marginLeft,
		y:    marginTop,
		w:    size.Width - marginLeft - marginRight,
		h:    size.Height - marginTop - marginBottom,
		yMin: yMin,
		yMax: yMax,
		xMin: xMin,
		xMax: xMax,
	}

	r.drawGrid(p)
	if stats.Count > 0 {
		r.drawHLine(p, float64(stats.Mean), meanColor)
	}
	r.drawTrace(p, samples)
	r.drawStats(p, stats)

	canvas.Refresh(r.scope)
}

// plot maps data coordinates onto the plot area.
type plot struct {
	x, y, w, h float32
	yMin, yMax float64
	xMin, xMax time.Time
}

func (p plot) pos(t time.Time, v float64) fyne.Position {
	fx := float32(t.Sub(p.xMin).Seconds() / p.xMax.Sub(p.xMin).Seconds())
	fy := float32((v - p.yMin) / (p.yMax - p.yMin))
	return fyne.NewPos(p.x+fx*p.w, p.y+p.h-fy*p.h)
}

// drawGrid draws the oscilloscope-style grid with axis labels.
func (r *scopeRenderer) drawGrid(p plot) {
	const numHLines = 8
	for i := range numHLines + 1 {
		y := p.y + float32(i)*p.h/numHLines
		r.addLine(fyne.NewPos(p.x, y), fyne.NewPos(p.x+p.w, y), gridColor, 1)

		value := p.yMax - float64(i)*(p.yMax-p.yMin)/numHLines
		text := canvas.NewText(formatVoltage(value), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(p.x-5, y-6))
		r.objects = append(r.objects, text)
	}

	const numVLines = 10
	span := p.xMax.Sub(p.xMin)
	for i := range numVLines + 1 {
		x := p.x + float32(i)*p.w/numVLines
		r.addLine(fyne.NewPos(x, p.y), fyne.NewPos(x, p.y+p.h), gridColor, 1)

		text := canvas.NewText(formatTime(span*time.Duration(i)/numVLines), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, p.y+p.h+5))
		r.objects = append(r.objects, text)
	}
}

// drawTrace draws the voltage curve.
func (r *scopeRenderer) drawTrace(p plot, samples []sample.Sample) {
	for i := 1; i < len(samples); i++ {
		r.addLine(
			p.pos(samples[i-1].Timestamp, samples[i-1].Voltage),
			p.pos(samples[i].Timestamp, samples[i].Voltage),
			traceColor, 1.5)
	}
}

// drawHLine draws a horizontal marker at v.
func (r *scopeRenderer) drawHLine(p plot, v float64, c color.Color) {
	if v < p.yMin || v > p.yMax {
		return
	}
	left := p.pos(p.xMin, v)
	r.addLine(left, fyne.NewPos(p.x+p.w, left.Y), c, 1)
}

// drawStats draws the latest reading and window statistics.
func (r *scopeRenderer) drawStats(p plot, st meter.Stats) {
	text := canvas.NewText(formatStats(st), statsColor)
	text.TextSize = 11
	text.Alignment = fyne.TextAlignLeading
	text.Move(fyne.NewPos(p.x+10, p.y+10))
	r.objects = append(r.objects, text)
}

func (r *scopeRenderer) addLine(a, b fyne.Position, c color.Color, width float32) {
	line := canvas.NewLine(c)
	line.Position1 = a
	line.Position2 = b
	line.StrokeWidth = width
	r.objects = append(r.objects, line)
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {}

func formatVoltage(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64) + "V"
}

func formatTime(d time.Duration) string {
	if d < time.Second {
		return strconv.FormatFloat(d.Seconds(), 'f', 2, 64) + "s"
	}
	return strconv.FormatFloat(d.Seconds(), 'f', 0, 64) + "s"
}

func formatStats(st meter.Stats) string {
	if st.Count == 0 {
		return "no readings"
	}
	return fmt.Sprintf("%.3fV  mean %.3fV  min %.3fV  max %.3fV  noise %.1fmV  (%d)",
		st.Last, st.Mean, st.Min, st.Max, st.Noise*1000, st.Count)
}
