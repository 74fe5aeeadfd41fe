// Package report renders lecturer feedback reports as PDF documents.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"rateme/internal/httpapi/models"
	"rateme/internal/httpapi/repository"
)

// FeedbackReportPDF builds the downloadable feedback report for a lecturer:
// a header with generation date, department and total count, the aggregate
// statistics table, then one block per feedback entry. Feedback marked
// anonymous never shows the student's name.
func FeedbackReportPDF(lecturer *models.User, feedback []models.Feedback, stats *repository.LecturerStats) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(13, 110, 253)
	pdf.CellFormat(0, 12, fmt.Sprintf("Feedback Report - %s", lecturer.FullName()), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Report info
	department := "N/A"
	if lecturer.Department != nil && *lecturer.Department != "" {
		department = *lecturer.Department
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated: %s", time.Now().Format("January 2, 2006 at 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Department: %s", department), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Total Feedback: %d", len(feedback)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	writeStatsTable(pdf, stats)
	pdf.Ln(8)

	if len(feedback) > 0 {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(106, 17, 203)
		pdf.CellFormat(0, 8, "Detailed Feedback", "", 1, "L", false, 0, "")
		pdf.Ln(2)

		for i, fb := range feedback {
			writeFeedbackEntry(pdf, i+1, &fb)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportFilename is the attachment name served to the browser.
func ReportFilename(username string, now time.Time) string {
	return fmt.Sprintf("feedback_report_%s_%s.pdf", username, now.Format("20060102"))
}

func writeStatsTable(pdf *gofpdf.Fpdf, stats *repository.LecturerStats) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(106, 17, 203)
	pdf.CellFormat(0, 8, "Overall Statistics", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	rows := []struct {
		metric string
		value  float64
	}{
		{"Overall Rating", stats.AvgRating},
		{"Teaching Quality", stats.AvgTeaching},
		{"Communication", stats.AvgCommunication},
		{"Student Engagement", stats.AvgEngagement},
	}

	// Header row
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(13, 110, 253)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(80, 9, "Metric", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 9, "Rating", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(51, 51, 51)
	for _, row := range rows {
		pdf.CellFormat(80, 8, row.metric, "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 8, fmt.Sprintf("%.2f / 5.00", row.value), "1", 1, "C", true, 0, "")
	}
}

func writeFeedbackEntry(pdf *gofpdf.Fpdf, idx int, fb *models.Feedback) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 7, fmt.Sprintf("Feedback #%d - %s: %s", idx, fb.Course.Code, fb.Course.Name), "", 1, "L", false, 0, "")

	source := fb.Student.FullName()
	if fb.IsAnonymous {
		source = "Anonymous"
	}

	ratings := fmt.Sprintf("From: %s | Overall: %g/5", source, fb.Rating)
	if fb.TeachingRating != nil {
		ratings += fmt.Sprintf(" | Teaching: %g/5", *fb.TeachingRating)
	}
	if fb.CommunicationRating != nil {
		ratings += fmt.Sprintf(" | Communication: %g/5", *fb.CommunicationRating)
	}
	if fb.EngagementRating != nil {
		ratings += fmt.Sprintf(" | Engagement: %g/5", *fb.EngagementRating)
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, ratings, "", "L", false)

	if fb.Comment != nil && *fb.Comment != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, 5, fmt.Sprintf("\"%s\"", *fb.Comment), "", "L", false)
		pdf.SetTextColor(51, 51, 51)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Submitted: %s", fb.CreatedAt.Format("January 2, 2006")), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}
