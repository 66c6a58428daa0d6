package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/learning-gap-service/internal/models"
)

// ReportFormat selects the report serialization.
type ReportFormat string

const (
	ReportText ReportFormat = "text"
	ReportCSV  ReportFormat = "csv"
	ReportXLSX ReportFormat = "xlsx"
)

// Report is a rendered student report ready to send to the client.
type Report struct {
	ContentType string
	Filename    string
	Data        []byte
}

// ReportService renders per-student analysis reports.
type ReportService interface {
	GenerateReport(ctx context.Context, studentID string, format ReportFormat) (Report, error)
}

type reportService struct {
	analysis AnalysisService
	logger   *slog.Logger
}

func NewReportService(analysis AnalysisService, logger *slog.Logger) ReportService {
	return &reportService{
		analysis: analysis,
		logger:   logger,
	}
}

func (s *reportService) GenerateReport(ctx context.Context, studentID string, format ReportFormat) (Report, error) {
	analysis, err := s.analysis.AnalyzeStudent(ctx, studentID)
	if err != nil {
		return Report{}, err
	}
	recommendations, err := s.analysis.GetRecommendations(ctx, studentID)
	if err != nil {
		return Report{}, err
	}

	switch format {
	case ReportText:
		return Report{
			ContentType: "text/plain; charset=utf-8",
			Filename:    fmt.Sprintf("report_%s.txt", studentID),
			Data:        []byte(renderTextSummary(analysis, recommendations)),
		}, nil
	case ReportCSV:
		data, err := renderCSV(analysis)
		if err != nil {
			return Report{}, err
		}
		return Report{
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("report_%s.csv", studentID),
			Data:        data,
		}, nil
	case ReportXLSX:
		data, err := renderXLSX(analysis, recommendations)
		if err != nil {
			return Report{}, err
		}
		return Report{
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Filename:    fmt.Sprintf("report_%s.xlsx", studentID),
			Data:        data,
		}, nil
	default:
		return Report{}, fmt.Errorf("%w: %s", ErrUnknownReportKind, format)
	}
}

// sortedGapKeys returns gap map keys in lexical order so report output is
// stable across runs.
func sortedGapKeys(gaps map[string]models.GapFinding) []string {
	keys := make([]string, 0, len(gaps))
	for key := range gaps {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func gapDisplayName(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func renderTextSummary(analysis models.StudentAnalysis, recommendations []models.Recommendation) string {
	var b strings.Builder

	b.WriteString(`
╔════════════════════════════════════════════════════════════════╗
║                  LEARNING GAP ANALYSIS REPORT                   ║
╚════════════════════════════════════════════════════════════════╝

`)
	fmt.Fprintf(&b, "STUDENT: %s\n", analysis.StudentID)
	fmt.Fprintf(&b, "DATE: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	b.WriteString("PERFORMANCE METRICS\n")
	b.WriteString(strings.Repeat("─", 66) + "\n")
	fmt.Fprintf(&b, "• Total Attempts: %d\n", analysis.TotalAttempts)
	fmt.Fprintf(&b, "• Correct Answers: %d/%d\n", analysis.CorrectAnswers, analysis.TotalAttempts)
	fmt.Fprintf(&b, "• Accuracy: %.1f%%\n", analysis.Accuracy*100)
	fmt.Fprintf(&b, "• Average Time Per Question: %.1f seconds\n", analysis.AvgTime)
	fmt.Fprintf(&b, "• Overall Performance Score: %.1f%%\n\n", analysis.OverallScore*100)

	b.WriteString("DETECTED GAPS\n")
	b.WriteString(strings.Repeat("─", 66) + "\n")
	if len(analysis.Gaps) == 0 {
		b.WriteString("\nNo significant learning gaps detected - Student is on track!\n")
	} else {
		for _, key := range sortedGapKeys(analysis.Gaps) {
			gap := analysis.Gaps[key]
			fmt.Fprintf(&b, "\nGap Type: %s\n", gapDisplayName(key))
			fmt.Fprintf(&b, "├─ Severity: %s\n", strings.ToUpper(string(gap.Severity)))
			fmt.Fprintf(&b, "├─ Confidence: %.1f%%\n", gap.Confidence*100)
			fmt.Fprintf(&b, "└─ Details: %s\n", gap.Description)
		}
	}

	b.WriteString("\n\nRECOMMENDED INTERVENTIONS\n")
	b.WriteString(strings.Repeat("─", 66) + "\n")
	for i, rec := range recommendations {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, rec.Title)
		fmt.Fprintf(&b, "   Priority: %s\n", rec.Priority)
		fmt.Fprintf(&b, "   Duration: %s\n", rec.Duration)
		fmt.Fprintf(&b, "   Expected Impact: %.0f%%\n", rec.ExpectedImpact*100)
	}

	b.WriteString("\n" + strings.Repeat("=", 66) + "\n")
	return b.String()
}

func renderCSV(analysis models.StudentAnalysis) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"Metric", "Value"},
		{"Student ID", analysis.StudentID},
		{"Total Attempts", fmt.Sprintf("%d", analysis.TotalAttempts)},
		{"Correct Answers", fmt.Sprintf("%d", analysis.CorrectAnswers)},
		{"Accuracy", fmt.Sprintf("%.1f%%", analysis.Accuracy*100)},
		{"Average Time", fmt.Sprintf("%.1f", analysis.AvgTime)},
		{"Overall Score", fmt.Sprintf("%.1f%%", analysis.OverallScore*100)},
		{"Number of Gaps", fmt.Sprintf("%d", len(analysis.Gaps))},
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write report CSV: %w", err)
	}

	if len(analysis.Gaps) > 0 {
		buf.WriteString("\n")
		if err := w.Write([]string{"Gap Type", "Severity", "Confidence", "Description"}); err != nil {
			return nil, fmt.Errorf("failed to write report CSV: %w", err)
		}
		for _, key := range sortedGapKeys(analysis.Gaps) {
			gap := analysis.Gaps[key]
			row := []string{key, string(gap.Severity), fmt.Sprintf("%.1f%%", gap.Confidence*100), gap.Description}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write report CSV: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write report CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(analysis models.StudentAnalysis, recommendations []models.Recommendation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	summaryRows := [][]interface{}{
		{"Metric", "Value"},
		{"Student ID", analysis.StudentID},
		{"Total Attempts", analysis.TotalAttempts},
		{"Correct Answers", analysis.CorrectAnswers},
		{"Accuracy", analysis.Accuracy},
		{"Average Time (s)", analysis.AvgTime},
		{"Overall Score", analysis.OverallScore},
		{"Number of Gaps", len(analysis.Gaps)},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to build workbook: %w", err)
		}
	}

	const gapSheet = "Gaps"
	if _, err := f.NewSheet(gapSheet); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	gapHeader := []interface{}{"Gap", "Severity", "Confidence", "Affected Questions", "Gap Type", "Description"}
	if err := f.SetSheetRow(gapSheet, "A1", &gapHeader); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	for i, key := range sortedGapKeys(analysis.Gaps) {
		gap := analysis.Gaps[key]
		row := []interface{}{key, string(gap.Severity), gap.Confidence, gap.AffectedQuestions, string(gap.GapType), gap.Description}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(gapSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to build workbook: %w", err)
		}
	}

	const recSheet = "Recommendations"
	if _, err := f.NewSheet(recSheet); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	recHeader := []interface{}{"Title", "Priority", "Practice Type", "Duration", "Expected Impact"}
	if err := f.SetSheetRow(recSheet, "A1", &recHeader); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	for i, rec := range recommendations {
		row := []interface{}{rec.Title, string(rec.Priority), rec.PracticeType, rec.Duration, rec.ExpectedImpact}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(recSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to build workbook: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
