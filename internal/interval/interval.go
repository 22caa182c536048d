// Package interval parses compact age strings like "1M3W4h2s" into seconds.
package interval

import (
	"fmt"
	"regexp"
	"strconv"
)

// Unit values in seconds. Months are 30 days, years 365 days.
var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"D": 86400,
	"W": 7 * 86400,
	"M": 30 * 86400,
	"Y": 365 * 86400,
}

var tokenRe = regexp.MustCompile(`^([0-9]+)([smhDWMY])`)

// Seconds converts an interval string to a total number of seconds.
// Tokens are consumed left to right; any remainder that is not a valid
// <count><unit> token fails the whole parse, as does a zero count.
// The empty string is 0.
func Seconds(s string) (int64, error) {
	var total int64
	rest := s
	for rest != "" {
		m := tokenRe.FindStringSubmatch(rest)
		if m == nil {
			return 0, fmt.Errorf("bad interval format for %q", s)
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("bad interval format for %q", s)
		}
		total += n * unitSeconds[m[2]]
		rest = rest[len(m[0]):]
	}
	return total, nil
}
