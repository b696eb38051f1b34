package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itohio/govm/pkg/adc"
	"github.com/itohio/govm/pkg/config"
	"github.com/itohio/govm/pkg/cycle"
	"github.com/itohio/govm/pkg/device"
	"github.com/itohio/govm/pkg/report"
	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

func init() {
	emulateCmd.Flags().StringP("port", "p", "", "write to this serial port instead of stdout")
	emulateCmd.Flags().IntP("baud", "b", 0, "baud rate (overrides config)")
	emulateCmd.Flags().IntVarP(&emulateOpts.Count, "count", "n", 0, "stop after n lines (0 = forever)")
	emulateCmd.Flags().DurationVarP(&emulateOpts.Settle, "settle", "s", -1, "settle delay before each conversion (overrides config)")
	emulateCmd.Flags().BoolVarP(&emulateOpts.Verbose, "verbose", "v", false, "log raw samples to stderr")
	rootCmd.AddCommand(emulateCmd)
}

var (
	emulateCmd = &cobra.Command{
		Use:   "emulate [flags]",
		Short: "Run the firmware cycle against a simulated converter",
		Long: `Run the sample-and-report cycle on the host. The converter is the
register-level HAL driving a simulated ADC; the report lines go to stdout or,
with --port, to a serial port so a host reader can be tested without hardware.`,
		Args: cobra.NoArgs,
		RunE: logged(emulate),
	}
	emulateOpts = struct {
		Count   int
		Settle  time.Duration
		Verbose bool
	}{}
)

func emulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if emulateOpts.Settle >= 0 {
		cfg.Converter.SettleDelay = emulateOpts.Settle
	}

	var out io.Writer = os.Stdout
	if cmd.Flags().Changed("port") {
		port, err := serial.Open(cfg.Serial.Port, &serial.Mode{BaudRate: cfg.Serial.BaudRate})
		if err != nil {
			return err
		}
		defer port.Close()
		out = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = runEmulator(ctx, cfg, out, emulateOpts.Count, emulateOpts.Verbose)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runEmulator runs the cycle until count lines were written or ctx is done.
func runEmulator(ctx context.Context, cfg *config.Config, w io.Writer, count int, verbose bool) error {
	conv, _ := device.NewEmulator(cfg)
	if err := conv.Configure(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var c *cycle.Cycle
	c = cycle.New(conv, report.NewChannel(report.NewStreamLink(w)),
		cycle.OnLine(func(raw adc.RawSample, v adc.DisplayValue) {
			if verbose {
				log.Printf("raw=%d mv=%d", raw, v)
			}
			if count > 0 && c.Lines() >= uint64(count) {
				cancel()
			}
		}))

	return c.Run(ctx)
}
