package manifest

import (
	"strconv"
	"strings"
)

var sizeUnits = []struct {
	suffix string
	factor float64
}{
	// longest suffixes first so "GB" is not read as "B"
	{"TB", 1024 * 1024 * 1024 * 1024},
	{"GB", 1024 * 1024 * 1024},
	{"MB", 1024 * 1024},
	{"KB", 1024},
	{"B", 1},
}

// ParseSize converts a human-readable size such as "92 GB" or "1.5MB" into
// bytes using binary multiples. A bare number is taken as bytes. Text that
// cannot be parsed yields 0.
func ParseSize(s string) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0
	}

	factor := 1.0
	for _, u := range sizeUnits {
		if strings.HasSuffix(s, u.suffix) {
			factor = u.factor
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}

	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return int64(v * factor)
}

// EstimateTotal sums the parsed sizes of files.
func EstimateTotal(files []FileInfo) int64 {
	var total int64
	for _, f := range files {
		total += ParseSize(f.Size)
	}
	return total
}

// FormatBytes renders n with a binary unit, two decimals above bytes.
func FormatBytes(n int64) string {
	v := float64(n)
	for _, u := range sizeUnits {
		if u.factor > 1 && v >= u.factor {
			return strconv.FormatFloat(v/u.factor, 'f', 2, 64) + " " + u.suffix
		}
	}
	return strconv.FormatInt(n, 10) + " B"
}
