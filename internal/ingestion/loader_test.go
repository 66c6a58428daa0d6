package ingestion

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/learning-gap-service/internal/models"
)

func testLoader() *Loader {
	return NewLoader(slog.Default())
}

func TestLoad_CSVWithAliasedColumns(t *testing.T) {
	data := strings.Join([]string{
		"Student Roll No,Question No,Subject,Score,Time Per Question,Timestamp",
		"STU_1001_Class6,Q1,Algebra,1,45.5,2025-03-01 09:00:00",
		"STU_1001_Class6,Q2,Algebra,0,3,2025-03-01 09:05:00",
		"STU_1002_Class6,Q1,Fractions,0.8,60,2025-03-01 09:10:00",
	}, "\n")

	attempts, err := testLoader().Load(strings.NewReader(data), "upload.csv")
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	first := attempts[0]
	assert.Equal(t, "STU_1001_Class6", first.StudentID)
	assert.Equal(t, "Q1", first.QuestionID)
	assert.Equal(t, "Algebra", first.Topic)
	assert.True(t, first.Correct)
	assert.InDelta(t, 45.5, first.TimeTaken, 1e-9)
	assert.Equal(t, 6, first.ClassLevel)
	assert.Equal(t, 2025, first.Timestamp.Year())

	// 3 seconds is below the floor and gets clamped.
	assert.Equal(t, models.MinTimeTaken, attempts[1].TimeTaken)
	assert.False(t, attempts[1].Correct)

	// Score 0.8 is above the 0.5 cutoff.
	assert.True(t, attempts[2].Correct)
}

func TestLoad_SortsByStudentThenTimestamp(t *testing.T) {
	data := strings.Join([]string{
		"student_id,topic,correct,time_taken,timestamp",
		"B,Algebra,1,30,2025-03-02",
		"A,Algebra,1,30,2025-03-02",
		"A,Algebra,0,30,2025-03-01",
	}, "\n")

	attempts, err := testLoader().Load(strings.NewReader(data), "upload.csv")
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	assert.Equal(t, "A", attempts[0].StudentID)
	assert.False(t, attempts[0].Correct)
	assert.Equal(t, "A", attempts[1].StudentID)
	assert.Equal(t, "B", attempts[2].StudentID)
}

func TestLoad_MissingTimeColumn(t *testing.T) {
	data := strings.Join([]string{
		"student_id,topic,correct",
		"STU_1,Algebra,1",
		"STU_1,Algebra,0",
	}, "\n")

	attempts, err := testLoader().Load(strings.NewReader(data), "upload.csv")
	require.NoError(t, err)

	// Zero marks the absence of time data; the floor must not apply.
	for _, a := range attempts {
		assert.Equal(t, 0.0, a.TimeTaken)
	}
}

func TestLoad_MissingCorrectColumnDefaultsTrue(t *testing.T) {
	data := strings.Join([]string{
		"student_id,topic,time_taken",
		"STU_1,Algebra,30",
	}, "\n")

	attempts, err := testLoader().Load(strings.NewReader(data), "upload.csv")
	require.NoError(t, err)
	assert.True(t, attempts[0].Correct)
}

func TestLoad_MissingRequiredColumns(t *testing.T) {
	data := strings.Join([]string{
		"question_id,correct",
		"Q1,1",
	}, "\n")

	_, err := testLoader().Load(strings.NewReader(data), "upload.csv")
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := testLoader().Load(strings.NewReader("data"), "upload.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_EmptyFile(t *testing.T) {
	_, err := testLoader().Load(strings.NewReader("student_id,topic,correct\n"), "upload.csv")
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestLoad_Excel(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Student_ID", "Topic", "Correct", "Time_Taken"},
		{"STU_1001_Class6", "Algebra", 1, 45},
		{"STU_1001_Class6", "Algebra", 0, 90},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	attempts, err := testLoader().Load(bytes.NewReader(buf.Bytes()), "upload.xlsx")
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, "Algebra", attempts[0].Topic)
	assert.True(t, attempts[0].Correct)
	assert.InDelta(t, 45.0, attempts[0].TimeTaken, 1e-9)
}
