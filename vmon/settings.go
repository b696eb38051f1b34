package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/govm/pkg/device"
	"github.com/itohio/govm/pkg/meter"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createDisplayTab(state),
		createEmulatorTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(500, 400))
	d.Show()
}

func saveConfig(state *appState) {
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
	}
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := device.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
	}

	portSelect := widget.NewSelect(portOptions, nil)
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			if portSelect.Selected == "" {
				return
			}
			selectedPort := portMap[portSelect.Selected]
			if selectedPort == "" {
				selectedPort = portSelect.Selected
			}
			if baud, err := strconv.Atoi(baudEntry.Text); err == nil && baud > 0 {
				state.cfg.Serial.BaudRate = baud
			}

			portChanged := state.cfg.Serial.Port != selectedPort
			wasConnected := state.device != nil && state.device.IsConnected()

			state.cfg.Serial.Port = selectedPort
			saveConfig(state)

			// Reconnect on the new port
			if portChanged && wasConnected && !state.useMock {
				handleConnect(state)
				handleConnect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createDisplayTab creates the Display configuration tab.
func createDisplayTab(state *appState) *container.TabItem {
	windowSecondsEntry := widget.NewEntry()
	windowSecondsEntry.SetText(fmt.Sprintf("%.0f", state.cfg.Display.WindowSeconds))

	averageSamplesEntry := widget.NewEntry()
	averageSamplesEntry.SetText(strconv.Itoa(state.cfg.Display.AverageSamples))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Window (seconds)", Widget: windowSecondsEntry},
			{Text: "Average Samples (0=disabled)", Widget: averageSamplesEntry},
		},
		OnSubmit: func() {
			if ws, err := strconv.ParseFloat(windowSecondsEntry.Text, 64); err == nil && ws > 0 {
				state.cfg.Display.WindowSeconds = ws
			}
			if avg, err := strconv.Atoi(averageSamplesEntry.Text); err == nil && avg >= 0 {
				state.cfg.Display.AverageSamples = avg
			}
			saveConfig(state)

			// The running chain keeps its meter; new settings apply on the next connect.
			if state.chain == nil {
				state.voltMeter = meter.New(state.cfg)
				watchMeter(state)
			}
		},
	}

	return container.NewTabItem("Display", form)
}

// createEmulatorTab creates the emulated firmware configuration tab.
func createEmulatorTab(state *appState) *container.TabItem {
	settleEntry := widget.NewEntry()
	settleEntry.SetText(state.cfg.Converter.SettleDelay.String())

	pollsEntry := widget.NewEntry()
	pollsEntry.SetText(strconv.Itoa(state.cfg.Emulator.ConversionPolls))

	biasEntry := widget.NewEntry()
	biasEntry.SetText(fmt.Sprintf("%.0f", state.cfg.Emulator.BiasMV))

	amplitudeEntry := widget.NewEntry()
	amplitudeEntry.SetText(fmt.Sprintf("%.0f", state.cfg.Emulator.AmplitudeMV))

	periodEntry := widget.NewEntry()
	periodEntry.SetText(state.cfg.Emulator.Period.String())

	noiseEntry := widget.NewEntry()
	noiseEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Emulator.NoiseMV))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Settle Delay", Widget: settleEntry},
			{Text: "Conversion Polls", Widget: pollsEntry},
			{Text: "Bias (mV)", Widget: biasEntry},
			{Text: "Amplitude (mV)", Widget: amplitudeEntry},
			{Text: "Period", Widget: periodEntry},
			{Text: "Noise (mV)", Widget: noiseEntry},
		},
		OnSubmit: func() {
			if d, err := time.ParseDuration(settleEntry.Text); err == nil && d >= 0 {
				state.cfg.Converter.SettleDelay = d
			}
			if n, err := strconv.Atoi(pollsEntry.Text); err == nil && n >= 0 {
				state.cfg.Emulator.ConversionPolls = n
			}
			if v, err := strconv.ParseFloat(biasEntry.Text, 64); err == nil {
				state.cfg.Emulator.BiasMV = v
			}
			if v, err := strconv.ParseFloat(amplitudeEntry.Text, 64); err == nil {
				state.cfg.Emulator.AmplitudeMV = v
			}
			if d, err := time.ParseDuration(periodEntry.Text); err == nil && d > 0 {
				state.cfg.Emulator.Period = d
			}
			if v, err := strconv.ParseFloat(noiseEntry.Text, 64); err == nil && v >= 0 {
				state.cfg.Emulator.NoiseMV = v
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Emulator", form)
}
