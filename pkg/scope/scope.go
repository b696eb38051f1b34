package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/govm/pkg/adc"
	"github.com/itohio/govm/pkg/config"
	"github.com/itohio/govm/pkg/meter"
	"github.com/itohio/govm/pkg/sample"
)

// fullScale is the largest voltage the firmware can report.
const fullScale = float64(adc.MaxDisplay) / 1000.0

// ScopeWidget is a custom Fyne widget that displays an oscilloscope-style
// plot of the reported voltage with the window statistics.
type ScopeWidget struct {
	widget.BaseWidget

	cfg *config.Config

	// Data (protected by mu)
	mu             sync.RWMutex
	displaySamples []sample.Sample // Downsampled, reused between updates
	stats          meter.Stats

	// Auto-scaling
	yMin, yMax float64
	xMin, xMax time.Time

	maxDisplayPoints int
}

// New creates a new ScopeWidget instance.
func New(cfg *config.Config) *ScopeWidget {
	s := &ScopeWidget{
		cfg:              cfg,
		displaySamples:   make([]sample.Sample, 0, 1000),
		maxDisplayPoints: 1000, // Limit points for efficient rendering
	}
	s.yMin, s.yMax, s.xMin, s.xMax = autoScale(nil, s.window(), time.Now())
	s.ExtendBaseWidget(s)
	s.Refresh()
	return s
}

// UpdateData updates the widget with new measurement data.
// This should be called from the meter callback using fyne.Do().
func (s *ScopeWidget) UpdateData(samples []sample.Sample, stats meter.Stats) {
	s.mu.Lock()
	s.displaySamples = sample.DownsampleSamples(s.displaySamples, samples, s.maxDisplayPoints)
	s.stats = stats
	s.yMin, s.yMax, s.xMin, s.xMax = autoScale(s.displaySamples, s.window(), time.Now())
	s.mu.Unlock()

	// Refresh outside the lock to avoid deadlocking with the renderer
	s.Refresh()
}

func (s *ScopeWidget) window() time.Duration {
	return time.Duration(s.cfg.Display.WindowSeconds * float64(time.Second))
}

// autoScale calculates the plot ranges. The Y range covers the data plus a
// 10% margin, clamped to the reportable 0-5 V span; the X range is at least
// one window wide.
func autoScale(samples []sample.Sample, window time.Duration, now time.Time) (yMin, yMax float64, xMin, xMax time.Time) {
	if len(samples) == 0 {
		return 0, fullScale, now, now.Add(window)
	}

	yMin, yMax = samples[0].Voltage, samples[0].Voltage
	for _, s := range samples {
		yMin = min(yMin, s.Voltage)
		yMax = max(yMax, s.Voltage)
	}

	span := yMax - yMin
	if span < 0.01 {
		span = 0.01
	}
	margin := span * 0.1
	yMin = max(0, yMin-margin)
	yMax = min(fullScale, yMax+margin)
	if yMax <= yMin {
		yMin, yMax = 0, fullScale
	}

	xMin = samples[0].Timestamp
	xMax = samples[len(samples)-1].Timestamp
	if xMax.Sub(xMin) < window {
		xMax = xMin.Add(window)
	}
	return yMin, yMax, xMin, xMax
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	return &scopeRenderer{
		scope:   s,
		grid:    grid,
		objects: []fyne.CanvasObject{grid},
	}
}
