//go:build tinygo

//go:generate tinygo flash -target=arduino-leonardo

package main

import (
	"context"
	"machine"
	"time"

	"github.com/itohio/govm/pkg/adc"
	"github.com/itohio/govm/pkg/cycle"
	"github.com/itohio/govm/pkg/report"
)

func main() {
	machine.Serial.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	link := report.NewPortLink(machine.Serial)

	// Wait for the host to open the port (DTR) before the first line.
	// Hardware UARTs have no DTR and pass straight through.
	for !link.IsReady() {
		time.Sleep(READY_POLL_DELAY)
	}

	conv := adc.New(newHAL(),
		adc.WithSettleDelay(SETTLE_DELAY),
		adc.WithMaxPolls(MAX_POLLS),
	)
	for err := conv.Configure(); err != nil; err = conv.Configure() {
		println("adc:", err.Error())
		time.Sleep(RETRY_DELAY)
	}

	c := cycle.New(conv, report.NewChannel(link))
	ctx := context.Background()
	for {
		// A failed step keeps its phase, so the next Run retries it
		err := c.Run(ctx)
		println("cycle:", err.Error())
		time.Sleep(RETRY_DELAY)
	}
}
