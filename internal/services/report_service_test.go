package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newReportFixture(t *testing.T) ReportService {
	t.Helper()
	svc, repo, _ := newAnalysisFixture()
	repo.ReplaceDataset("class.csv", strugglingStudent("STU_1001_Class6"))
	return NewReportService(svc, slog.Default())
}

func TestGenerateReport_Text(t *testing.T) {
	reports := newReportFixture(t)

	report, err := reports.GenerateReport(context.Background(), "STU_1001_Class6", ReportText)
	require.NoError(t, err)

	text := string(report.Data)
	assert.Contains(t, text, "STUDENT: STU_1001_Class6")
	assert.Contains(t, text, "Concept Gap Algebra")
	assert.Contains(t, text, "RECOMMENDED INTERVENTIONS")
	assert.Equal(t, "report_STU_1001_Class6.txt", report.Filename)
}

func TestGenerateReport_CSV(t *testing.T) {
	reports := newReportFixture(t)

	report, err := reports.GenerateReport(context.Background(), "STU_1001_Class6", ReportCSV)
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(report.Data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	require.NoError(t, err)

	require.Greater(t, len(rows), 2)
	assert.Equal(t, []string{"Metric", "Value"}, rows[0])
	assert.Equal(t, []string{"Student ID", "STU_1001_Class6"}, rows[1])
}

func TestGenerateReport_XLSX(t *testing.T) {
	reports := newReportFixture(t)

	report, err := reports.GenerateReport(context.Background(), "STU_1001_Class6", ReportXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(report.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Gaps", "Recommendations"}, f.GetSheetList())

	value, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "STU_1001_Class6", value)
}

func TestGenerateReport_UnknownFormat(t *testing.T) {
	reports := newReportFixture(t)

	_, err := reports.GenerateReport(context.Background(), "STU_1001_Class6", "pdf")
	assert.ErrorIs(t, err, ErrUnknownReportKind)
}
