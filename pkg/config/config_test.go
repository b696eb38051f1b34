package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.BaudRate)
	assert.Equal(t, time.Second, cfg.Converter.SettleDelay)
	assert.Equal(t, 100000, cfg.Converter.MaxPolls)
	assert.Equal(t, float64(120), cfg.Display.WindowSeconds)
	assert.Equal(t, 0, cfg.Display.AverageSamples)
	assert.Equal(t, 13, cfg.Emulator.ConversionPolls)
	assert.Equal(t, 60*time.Second, cfg.Emulator.Period)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "COM7"
  baud_rate: 115200

converter:
  settle_delay: 250ms
  max_polls: 500

display:
  window_seconds: 30
  average_samples: 4

emulator:
  conversion_polls: 25
  bias_mv: 1000
  amplitude_mv: 200
  period: 10s
  noise_mv: 0
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, "COM7", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, 250*time.Millisecond, cfg.Converter.SettleDelay)
	assert.Equal(t, 500, cfg.Converter.MaxPolls)
	assert.Equal(t, float64(30), cfg.Display.WindowSeconds)
	assert.Equal(t, 4, cfg.Display.AverageSamples)
	assert.Equal(t, 25, cfg.Emulator.ConversionPolls)
	assert.Equal(t, float64(1000), cfg.Emulator.BiasMV)
	assert.Equal(t, float64(200), cfg.Emulator.AmplitudeMV)
	assert.Equal(t, 10*time.Second, cfg.Emulator.Period)
	assert.Equal(t, float64(0), cfg.Emulator.NoiseMV)
}

func TestLoad_PartialYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("serial:\n  port: \"/dev/ttyUSB1\"\n")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	// Should use defaults for missing fields
	assert.Equal(t, 9600, cfg.Serial.BaudRate)
	assert.Equal(t, time.Second, cfg.Converter.SettleDelay)
	assert.Equal(t, float64(120), cfg.Display.WindowSeconds)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("serial: [unclosed\n")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	_, err = Load(tmpfile.Name())
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("display:\n  average_samples: -3\n")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	_, err = Load(tmpfile.Name())
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Serial.Port = "COM9"
	cfg.Emulator.BiasMV = 1234
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSave_ZeroSettleDelay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Converter.SettleDelay = 0
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), loaded.Converter.SettleDelay)
	assert.Equal(t, cfg, loaded)
}
