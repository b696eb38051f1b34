package main

import (
	"fmt"

	"github.com/itohio/govm/pkg/device"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ports, err := device.Ports()
		if err != nil {
			logErr(cmd, err)
			return
		}
		for _, p := range ports {
			if p.Description != "" && p.Description != p.Name {
				fmt.Printf("%s\t%s\n", p.Name, p.Description)
			} else {
				fmt.Println(p.Name)
			}
		}
	},
}
