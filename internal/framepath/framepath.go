// Package framepath converts and expands frame placeholders in image sequence
// paths.
package framepath

import (
	"strconv"
	"strings"
)

// HashesToPrintf rewrites every run of '#' into a zero padded printf token, so
// "plate.####.exr" becomes "plate.%04d.exr".
func HashesToPrintf(pattern string) string {
	if !strings.Contains(pattern, "#") {
		return pattern
	}
	var b strings.Builder
	b.Grow(len(pattern) + 4)
	for i := 0; i < len(pattern); {
		if pattern[i] != '#' {
			b.WriteByte(pattern[i])
			i++
			continue
		}
		j := i
		for j < len(pattern) && pattern[j] == '#' {
			j++
		}
		b.WriteString("%0")
		b.WriteString(strconv.Itoa(j - i))
		b.WriteByte('d')
		i = j
	}
	return b.String()
}

// HasFrameToken reports whether pattern contains a frame placeholder in either
// hash or printf form.
func HasFrameToken(pattern string) bool {
	if strings.Contains(pattern, "#") {
		return true
	}
	found := false
	scan(pattern, func(string) { found = true }, func(string) {})
	return found
}

// Format substitutes frame into every %d and %0Nd token of pattern in one pass.
// "%%" yields a literal percent sign and any other '%' sequence is copied
// through unchanged.
func Format(pattern string, frame int) string {
	var b strings.Builder
	b.Grow(len(pattern) + 8)
	scan(pattern, func(token string) {
		b.WriteString(pad(frame, width(token)))
	}, func(text string) {
		b.WriteString(text)
	})
	return b.String()
}

// scan walks pattern once, calling onToken for each frame token and onText for
// everything else.
func scan(pattern string, onToken func(string), onText func(string)) {
	for i := 0; i < len(pattern); {
		if pattern[i] != '%' {
			j := strings.IndexByte(pattern[i:], '%')
			if j < 0 {
				onText(pattern[i:])
				return
			}
			onText(pattern[i : i+j])
			i += j
			continue
		}
		if i+1 < len(pattern) && pattern[i+1] == '%' {
			onText("%")
			i += 2
			continue
		}
		j := i + 1
		for j < len(pattern) && pattern[j] >= '0' && pattern[j] <= '9' {
			j++
		}
		digits := pattern[i+1 : j]
		if j < len(pattern) && pattern[j] == 'd' && (digits == "" || digits[0] == '0') {
			onToken(pattern[i : j+1])
			i = j + 1
			continue
		}
		onText("%")
		i++
	}
}

func width(token string) int {
	digits := strings.TrimSuffix(strings.TrimPrefix(token, "%"), "d")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

func pad(frame, width int) string {
	digits := strconv.Itoa(frame)
	sign := ""
	if frame < 0 {
		sign = "-"
		digits = digits[1:]
		width--
	}
	if len(digits) < width {
		digits = strings.Repeat("0", width-len(digits)) + digits
	}
	return sign + digits
}
