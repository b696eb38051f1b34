// A utility to read and emulate the voltage reporter firmware.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/itohio/govm/pkg/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vmonctl",
	Short: "vmonctl reads and emulates the voltage reporter",
	Long:  "vmonctl reads millivolt report lines from the voltage reporter firmware over serial, or emulates the firmware on the host",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	SilenceErrors: true,
	SilenceUsage:  true,
}

// errReported marks an error that has already been printed by logErr.
var errReported = errors.New("reported")

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "configuration file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("port") {
		cfg.Serial.Port, _ = cmd.Flags().GetString("port")
	}
	if cmd.Flags().Changed("baud") {
		cfg.Serial.BaudRate, _ = cmd.Flags().GetInt("baud")
	}
	return cfg, nil
}

func logErr(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "vmonctl %s: %s\n", cmd.Name(), err)
}

// logged adapts a command body to RunE, printing its error with logErr.
func logged(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			logErr(cmd, err)
			return errReported
		}
		return nil
	}
}
