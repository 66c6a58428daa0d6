package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractClassLevel(t *testing.T) {
	tests := []struct {
		id    string
		level int
		found bool
	}{
		{"STU_1001_Class6", 6, true},
		{"STU_1001_class 12", 12, true},
		{"STU_1001_Class-8", 8, true},
		{"STU1001C6", 6, true},
		{"STU_1001_Grade9", 9, true},
		{"STU_1001_gr-7", 7, true},
		{"STU_1001_09", 9, true},
		{"STU_1001_5", 5, true},
		{"STU_1001", 0, false},
		{"STU_1001_Class13", 0, false},
		{"STU_1001_00", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			level, found := ExtractClassLevel(tt.id)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.level, level)
		})
	}
}
