package store

import "strconv"

// parseStrictInt64 parses b as a signed, base-10 integer with no
// surrounding whitespace, no leading '+', and no leading zeros on a
// multi-digit magnitude — the strict grammar INCRBY's source requires
// before it will treat a ByteString as a counter.
func parseStrictInt64(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	s := string(b)
	start := 0
	if s[0] == '-' {
		start = 1
		if len(s) == 1 {
			return 0, false
		}
	}
	if s[start] == '0' && len(s) > start+1 {
		return 0, false
	}
	for i := start; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func formatInt64(n int64) string {
	return strconv.FormatInt(n, 10)
}

// addInt64WithOverflowCheck returns a+b and ok=false if the sum overflows
// the signed 64-bit range.
func addInt64WithOverflowCheck(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}
