package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/govm/pkg/config"
	"github.com/itohio/govm/pkg/device"
	"github.com/itohio/govm/pkg/meter"
	"github.com/itohio/govm/pkg/sample"
	"github.com/itohio/govm/pkg/scope"
)

func main() {
	var (
		portFlag           = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag         = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag           = flag.Bool("mock", false, "Use emulated firmware instead of serial port")
		averageSamplesFlag = flag.Int("average-samples", -1, "Number of readings to average (0 = disabled, overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *averageSamplesFlag >= 0 {
		cfg.Display.AverageSamples = *averageSamplesFlag
	}

	application := app.NewWithID("com.itohio.govm")

	window := application.NewWindow("Voltage Monitor")
	window.Resize(fyne.NewSize(1000, 600))
	window.CenterOnScreen()

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		voltMeter:  meter.New(cfg),
		window:     window,
		useMock:    *mockFlag,
	}

	toolbar := createToolbar(state)

	state.scopeWidget = scope.New(cfg)
	watchMeter(state)

	window.SetContent(container.NewBorder(toolbar, nil, nil, nil, state.scopeWidget))
	window.SetOnClosed(func() {
		closeMeasurementChain(state.chain)
	})
	window.ShowAndRun()
}

// measurementChain tracks the components of the measurement chain for graceful shutdown.
type measurementChain struct {
	device         device.Device
	meterGoroutine chan struct{} // Closed when meter goroutine exits
}

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	configPath  string
	device      device.Device
	voltMeter   *meter.Meter
	scopeWidget *scope.ScopeWidget
	window      fyne.Window
	readout     *widget.Label
	useMock     bool
	chain       *measurementChain // Current measurement chain (nil if not connected)

	// Throttling for scope updates
	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

// createToolbar creates the application toolbar with Connect and Settings buttons
// and the live readout.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	state.readout = widget.NewLabelWithStyle("-- mV", fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true, Bold: true})

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(connectBtn, settingsBtn),
		state.readout,
		nil,
	)
}

// closeMeasurementChain gracefully closes the measurement chain.
// Closing the device closes its readings channel, which drains the
// converter stages and ends the meter goroutine.
func closeMeasurementChain(chain *measurementChain) {
	if chain == nil {
		return
	}

	if chain.device != nil {
		chain.device.Close()
	}

	if chain.meterGoroutine != nil {
		<-chain.meterGoroutine
	}
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		closeMeasurementChain(state.chain)
		state.chain = nil
		state.device = nil
		state.readout.SetText("-- mV")
		if state.useMock {
			fmt.Println("Disconnected from emulated device")
		} else {
			fmt.Println("Disconnected from serial port")
		}
		return
	}

	var dev device.Device
	if state.useMock {
		dev = device.NewMock(state.cfg)
	} else {
		dev = device.New(state.cfg.Serial.Port, state.cfg.Serial.BaudRate, device.DefaultBufferSize)
	}

	if err := dev.Connect(); err != nil {
		if state.useMock {
			dialog.ShowError(fmt.Errorf("failed to start emulated device: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	state.device = dev
	if state.useMock {
		fmt.Println("Connected to emulated device")
	} else {
		fmt.Printf("Connected to serial port: %s\n", state.cfg.Serial.Port)
	}

	state.voltMeter.ResetShutdown()

	samplesStream := sample.NewConverter(500)(dev.Readings())
	if state.cfg.Display.AverageSamples > 0 {
		samplesStream = sample.NewAveragingConverter(state.cfg.Display.AverageSamples, 500)(samplesStream)
	}

	meterDone := make(chan struct{})
	go func() {
		defer close(meterDone)
		state.voltMeter.ProcessSamples(samplesStream)
	}()

	state.chain = &measurementChain{
		device:         dev,
		meterGoroutine: meterDone,
	}
}

// watchMeter forwards meter updates to the readout and scope on the UI thread.
func watchMeter(state *appState) {
	// Throttle updates to ~30 FPS; readings arrive about once per second
	// but a burst can follow a reconnect.
	const updateInterval = 33 * time.Millisecond
	state.voltMeter.OnUpdate(func(samples []sample.Sample, stats meter.Stats) {
		state.updateMu.Lock()
		now := time.Now()
		if now.Sub(state.lastUpdateTime) < updateInterval {
			state.updateMu.Unlock()
			return
		}
		state.lastUpdateTime = now
		state.updateMu.Unlock()

		fyne.Do(func() {
			state.readout.SetText(fmt.Sprintf("%4.0f mV", stats.Last*1000))
			state.scopeWidget.UpdateData(samples, stats)
		})
	})
}
