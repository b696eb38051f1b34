package device

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/itohio/govm/pkg/report"
)

// readLines scans report lines from r and sends parsed readings to out
// until r is exhausted or ctx is done. Malformed lines are logged and skipped.
func readLines(ctx context.Context, r io.Reader, out chan<- Reading, now func() time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readLines: %v", r)
		}
	}()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		mv, err := report.ParseLine(line)
		if err != nil {
			log.Printf("Failed to parse line '%s': %v", line, err)
			continue
		}

		// Send reading to channel (non-blocking)
		select {
		case out <- Reading{Timestamp: now(), Millivolts: mv}:
		case <-ctx.Done():
			return
		default:
			log.Printf("Readings channel full, dropping reading")
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.ErrClosedPipe) && ctx.Err() == nil {
		log.Printf("Error reading report stream: %v", err)
	}
}
