package sourcemap

import (
	"fmt"
	"strings"
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var base64Values = func() [128]int {
	var table [128]int
	for i := range table {
		table[i] = -1
	}
	for i := 0; i < len(base64Chars); i++ {
		table[base64Chars[i]] = i
	}
	return table
}()

func writeVLQ(b *strings.Builder, value int) {
	vlq := value << 1
	if value < 0 {
		vlq = (-value << 1) | 1
	}
	for {
		digit := vlq & 31
		vlq >>= 5
		if vlq > 0 {
			digit |= 32
		}
		b.WriteByte(base64Chars[digit])
		if vlq == 0 {
			return
		}
	}
}

// readVLQ decodes one value starting at s[pos] and returns it with the
// position after its last digit.
func readVLQ(s string, pos int) (int, int, error) {
	result, shift := 0, 0
	for {
		if pos >= len(s) {
			return 0, pos, fmt.Errorf("truncated VLQ value")
		}
		c := s[pos]
		if c >= 128 || base64Values[c] < 0 {
			return 0, pos, fmt.Errorf("invalid VLQ digit %q at %d", c, pos)
		}
		digit := base64Values[c]
		pos++
		result += (digit & 31) << shift
		shift += 5
		if digit&32 == 0 {
			break
		}
	}

	if result&1 != 0 {
		return -(result >> 1), pos, nil
	}
	return result >> 1, pos, nil
}
