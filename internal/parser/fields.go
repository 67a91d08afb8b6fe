package parser

import (
	"math"
	"time"
	"unicode/utf8"
)

// RecordLength is the width of every ABA line, excluding the line terminator.
const RecordLength = 120

func ExactLength(s string, n int) bool {
	return utf8.RuneCountInString(s) == n
}

// IsBlank reports whether s holds nothing but the space character.
func IsBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ValidDate checks a DDMMYY calendar date. The century is taken to be 2000.
func ValidDate(s string) bool {
	if len(s) != 6 || !isDigits(s) {
		return false
	}
	day := int(s[0]-'0')*10 + int(s[1]-'0')
	month := int(s[2]-'0')*10 + int(s[3]-'0')
	year := 2000 + int(s[4]-'0')*10 + int(s[5]-'0')
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= daysIn(time.Month(month), year)
}

func daysIn(month time.Month, year int) int {
	// day 0 of the following month normalises to the last day of month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ValidBSB accepts NNN-NNN and NNN NNN.
func ValidBSB(s string) bool {
	if len(s) != 7 {
		return false
	}
	if s[3] != '-' && s[3] != ' ' {
		return false
	}
	return isDigits(s[0:3]) && isDigits(s[4:7])
}

// ParseNonNegInt parses a string made only of digits. Signs, spaces and
// values that overflow int64 are rejected.
func ParseNonNegInt(s string) (int64, bool) {
	if !isDigits(s) {
		return 0, false
	}
	var n int64
	for i := 0; i < len(s); i++ {
		d := int64(s[i] - '0')
		if n > (math.MaxInt64-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}
