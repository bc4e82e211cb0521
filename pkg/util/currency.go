package util

import "strconv"

// FormatKRW renders an amount with thousands separators and the given
// currency suffix, e.g. FormatKRW(130000, "원") == "130,000원".
func FormatKRW(amount int64, suffix string) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}

	if negative {
		out = append([]byte{'-'}, out...)
	}
	return string(out) + suffix
}
