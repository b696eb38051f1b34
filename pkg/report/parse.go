package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/itohio/govm/pkg/adc"
)

// ErrMalformedLine is returned for lines not matching the report template.
var ErrMalformedLine = errors.New("malformed report line")

// ParseLine parses one report line back into its display value.
// The trailing newline is optional; anything else must match the template
// byte for byte.
func ParseLine(line string) (adc.DisplayValue, error) {
	line = strings.TrimSuffix(line, "\n")

	rest, ok := strings.CutPrefix(line, linePrefix)
	if !ok {
		return 0, fmt.Errorf("%w: missing prefix in %q", ErrMalformedLine, line)
	}
	digits, ok := strings.CutSuffix(rest, strings.TrimSuffix(lineSuffix, "\n"))
	if !ok {
		return 0, fmt.Errorf("%w: missing suffix in %q", ErrMalformedLine, line)
	}
	if digits == "" || (len(digits) > 1 && digits[0] == '0') {
		return 0, fmt.Errorf("%w: bad value %q", ErrMalformedLine, digits)
	}

	v, err := strconv.ParseUint(digits, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedLine, err)
	}
	if v > uint64(adc.MaxDisplay) {
		return 0, fmt.Errorf("%w: value out of range: %d (max %d)", ErrMalformedLine, v, adc.MaxDisplay)
	}
	return adc.DisplayValue(v), nil
}
