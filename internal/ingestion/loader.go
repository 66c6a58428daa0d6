package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/learning-gap-service/internal/models"
	"github.com/SAP-F-2025/learning-gap-service/internal/utils"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyDataset      = errors.New("dataset contains no attempts")
	ErrMissingColumns    = errors.New("dataset is missing required columns")
)

// columnAliases maps lowercased source headers onto canonical columns.
// Real exports name these columns inconsistently; unknown headers are
// simply ignored.
var columnAliases = map[string]string{
	"student_id":        "student_id",
	"student id":        "student_id",
	"student_roll_no":   "student_id",
	"student roll no":   "student_id",
	"question_id":       "question_id",
	"question id":       "question_id",
	"question_no":       "question_id",
	"question no":       "question_id",
	"topic":             "topic",
	"subject":           "topic",
	"correct":           "correct",
	"correct_incorrect": "correct",
	"is_correct":        "correct",
	"score":             "correct",
	"time_taken":        "time_taken",
	"time_per_question": "time_taken",
	"time":              "time_taken",
	"duration":          "time_taken",
	"timestamp":         "timestamp",
	"date":              "timestamp",
	"attempt_number":    "attempt_number",
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"02-01-2006",
}

// Loader parses attempt datasets out of uploaded CSV and Excel files.
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the file, maps its columns onto the canonical schema and
// returns normalized attempts sorted by student and timestamp. The format
// is chosen by file extension (.csv, .xlsx, .xls).
func (l *Loader) Load(r io.Reader, filename string) ([]models.Attempt, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(r)
	case ".xlsx", ".xls":
		rows, err = readExcel(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrEmptyDataset
	}

	header := rows[0]
	records := rows[1:]

	// Resolve each canonical column to its index in the source header.
	index := map[string]int{}
	for i, name := range header {
		canonical, ok := columnAliases[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if _, seen := index[canonical]; !seen {
			index[canonical] = i
		}
	}

	var missing []string
	for _, required := range []string{"student_id", "topic"} {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	_, hasTimeColumn := index["time_taken"]
	attempts := make([]models.Attempt, 0, len(records))
	for i, record := range records {
		a := models.Attempt{
			StudentID: cell(record, index, "student_id"),
			Topic:     cell(record, index, "topic"),
		}
		if a.StudentID == "" && a.Topic == "" {
			continue // blank line
		}

		a.QuestionID = cell(record, index, "question_id")
		if a.QuestionID == "" {
			a.QuestionID = fmt.Sprintf("Q_Unknown_%d", i+1)
		}

		a.Correct = parseCorrect(cell(record, index, "correct"), index)
		if hasTimeColumn {
			a.TimeTaken = parseTimeTaken(cell(record, index, "time_taken"))
		}
		a.Timestamp = parseTimestamp(cell(record, index, "timestamp"))
		a.AttemptNumber = parseAttemptNumber(cell(record, index, "attempt_number"))

		if level, ok := utils.ExtractClassLevel(a.StudentID); ok {
			a.ClassLevel = level
		}

		attempts = append(attempts, a)
	}
	if len(attempts) == 0 {
		return nil, ErrEmptyDataset
	}

	sort.SliceStable(attempts, func(i, j int) bool {
		if attempts[i].StudentID != attempts[j].StudentID {
			return attempts[i].StudentID < attempts[j].StudentID
		}
		return attempts[i].Timestamp.Before(attempts[j].Timestamp)
	})

	l.logger.Info("Dataset loaded",
		"file", filename,
		"rows", len(attempts),
		"students", len(models.StudentIDs(attempts)),
		"topics", len(models.Topics(attempts)),
		"has_time_data", hasTimeColumn)

	return attempts, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

func readExcel(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyDataset
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func cell(record []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseCorrect coerces the correctness cell: numeric values above 0.5 count
// as correct, booleans are taken literally, anything unparseable is wrong.
// A dataset without the column defaults every row to correct.
func parseCorrect(value string, index map[string]int) bool {
	if _, ok := index["correct"]; !ok {
		return true
	}
	if v, err := strconv.ParseFloat(value, 64); err == nil {
		return v > 0.5
	}
	if v, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
		return v
	}
	switch strings.ToLower(value) {
	case "yes", "y":
		return true
	}
	return false
}

// parseTimeTaken floors parseable values at MinTimeTaken; unparseable cells
// fall back to the floor itself. Only called when the column exists, so a
// zero TimeTaken still means "no time data".
func parseTimeTaken(value string) float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v < models.MinTimeTaken {
		return models.MinTimeTaken
	}
	return v
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func parseAttemptNumber(value string) int {
	if v, err := strconv.Atoi(value); err == nil && v > 0 {
		return v
	}
	return 0
}
