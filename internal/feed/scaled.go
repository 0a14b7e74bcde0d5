package feed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yanun0323/decimal"

	"marketmaker/internal/schema"
)

// scaledInt converts a decimal value into an integer scaled by 10^scale.
// A value with more fractional digits than the scale allows is rejected
// rather than silently rounded.
func scaledInt(d decimal.Decimal, scale schema.Scale) (int64, error) {
	s := d.String()
	if s == "" {
		return 0, nil
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx+1:]
	}
	fracPart = strings.TrimRight(fracPart, "0")
	if len(fracPart) > int(scale) {
		return 0, fmt.Errorf("value %s not representable at scale %d", d.String(), scale)
	}
	for len(fracPart) < int(scale) {
		fracPart += "0"
	}

	digits := strings.TrimLeft(intPart+fracPart, "0")
	if digits == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", d.String(), err)
	}
	if neg {
		v = -v
	}
	return v, nil
}

// FormatScaled renders a scaled integer as a plain decimal string.
func FormatScaled(value int64, scale schema.Scale) string {
	return string(appendScaled(nil, value, int(scale)))
}

func appendScaled(buf []byte, value int64, scale int) []byte {
	if scale <= 0 {
		return strconv.AppendInt(buf, value, 10)
	}

	neg := value < 0
	u := uint64(value)
	if neg {
		u = uint64(^value) + 1
	}

	var tmp [32]byte
	digits := strconv.AppendUint(tmp[:0], u, 10)

	if neg {
		buf = append(buf, '-')
	}

	if len(digits) <= scale {
		buf = append(buf, '0', '.')
		for i := 0; i < scale-len(digits); i++ {
			buf = append(buf, '0')
		}
		buf = append(buf, digits...)
		return buf
	}

	idx := len(digits) - scale
	buf = append(buf, digits[:idx]...)
	buf = append(buf, '.')
	buf = append(buf, digits[idx:]...)
	return buf
}
