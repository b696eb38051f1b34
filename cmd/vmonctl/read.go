package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itohio/govm/pkg/device"
	"github.com/spf13/cobra"
)

func init() {
	readCmd.Flags().StringP("port", "p", "", "serial port (overrides config)")
	readCmd.Flags().IntP("baud", "b", 0, "baud rate (overrides config)")
	readCmd.Flags().BoolVarP(&readOpts.Mock, "mock", "m", false, "read from the emulated firmware")
	readCmd.Flags().IntVarP(&readOpts.Count, "count", "n", 0, "exit after n readings (0 = forever)")
	readCmd.Flags().BoolVarP(&readOpts.Quiet, "quiet", "q", false, "print only the millivolt value")
	rootCmd.AddCommand(readCmd)
}

var (
	readCmd = &cobra.Command{
		Use:   "read [flags]",
		Short: "Print readings reported by the firmware",
		Long:  `Read report lines from the firmware, validate them and print one reading per line.`,
		Args:  cobra.NoArgs,
		RunE:  logged(read),
	}
	readOpts = struct {
		Mock  bool
		Count int
		Quiet bool
	}{}
)

func read(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var dev device.Device
	if readOpts.Mock {
		dev = device.NewMock(cfg)
	} else {
		dev = device.New(cfg.Serial.Port, cfg.Serial.BaudRate, device.DefaultBufferSize)
	}
	if err := dev.Connect(); err != nil {
		return err
	}
	defer dev.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return printReadings(ctx, os.Stdout, dev.Readings(), readOpts.Count, readOpts.Quiet)
}

// printReadings writes readings until count is reached, the channel closes
// or ctx is done.
func printReadings(ctx context.Context, w io.Writer, readings <-chan device.Reading, count int, quiet bool) error {
	for n := 0; count == 0 || n < count; n++ {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-readings:
			if !ok {
				return nil
			}
			if quiet {
				fmt.Fprintln(w, r.Millivolts)
			} else {
				fmt.Fprintf(w, "%s %4d mV\n", r.Timestamp.Format(time.RFC3339), r.Millivolts)
			}
		}
	}
	return nil
}
