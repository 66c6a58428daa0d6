package utils

import (
	"regexp"
	"strconv"
)

// Student IDs encode class level in several conventions seen in real
// exports: STU_1001_Class6, STU1001C6, STU_1001_Grade-8, STU_1001_09.
// Patterns are tried in order; the first hit wins.
var classPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)class\s*[_-]?\s*(\d{1,2})`),
	regexp.MustCompile(`(?i)(?:grade|gr|c)[_-]?(\d{1,2})$`),
	regexp.MustCompile(`[_-](\d{1,2})$`),
}

// ExtractClassLevel parses a class level (1-12) out of a student ID.
// Returns false when no pattern matches or the number is out of range.
func ExtractClassLevel(studentID string) (int, bool) {
	for _, pattern := range classPatterns {
		m := pattern.FindStringSubmatch(studentID)
		if m == nil {
			continue
		}
		level, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if level >= 1 && level <= 12 {
			return level, true
		}
	}
	return 0, false
}
