package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"medocr/internal/domain"
)

// Sheet names in the exported workbook.
const (
	SheetSummary     = "Summary"
	SheetMedications = "Medications"
	SheetLabResults  = "Lab Results"
)

var medicationColumns = []string{"Name", "Dosage", "Frequency", "Duration", "Route", "Instructions"}

var labColumns = []string{"Test Name", "Value", "Unit", "Reference Range", "Status"}

// Workbook renders rec as an XLSX workbook with a summary sheet plus one sheet
// each for medications and lab results.
func Workbook(rec *domain.MedicalRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	for _, name := range []string{SheetMedications, SheetLabResults} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}

	if err := writeRows(f, SheetSummary, summaryRows(rec), 0); err != nil {
		return nil, err
	}
	if err := f.SetColStyle(SheetSummary, "A", bold); err != nil {
		return nil, fmt.Errorf("styling summary: %w", err)
	}

	medRows := [][]string{medicationColumns}
	for _, m := range rec.Medications {
		medRows = append(medRows, []string{
			domain.Str(m.Name), domain.Str(m.Dosage), domain.Str(m.Frequency),
			domain.Str(m.Duration), domain.Str(m.Route), domain.Str(m.Instructions),
		})
	}
	if err := writeRows(f, SheetMedications, medRows, bold); err != nil {
		return nil, err
	}

	labRows := [][]string{labColumns}
	for _, l := range rec.LabResults {
		labRows = append(labRows, []string{
			domain.Str(l.TestName), domain.Str(l.Value), domain.Str(l.Unit),
			domain.Str(l.ReferenceRange), string(l.Status),
		})
	}
	if err := writeRows(f, SheetLabResults, labRows, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf, nil
}

func summaryRows(rec *domain.MedicalRecord) [][]string {
	p := rec.PatientInfo
	if p == nil {
		p = &domain.PatientInfo{}
	}
	d := rec.DoctorInfo
	if d == nil {
		d = &domain.DoctorInfo{}
	}
	return [][]string{
		{"Document Type", string(rec.DocumentType)},
		{"Date", domain.Str(rec.Date)},
		{"Confidence", string(rec.Confidence)},
		{"Patient Name", domain.Str(p.Name)},
		{"Patient Age", domain.Str(p.Age)},
		{"Patient Gender", domain.Str(p.Gender)},
		{"Patient ID", domain.Str(p.PatientID)},
		{"Patient Contact", domain.Str(p.Contact)},
		{"Doctor", domain.Str(d.Name)},
		{"Specialization", domain.Str(d.Specialization)},
		{"License Number", domain.Str(d.LicenseNumber)},
		{"Hospital", domain.Str(d.Hospital)},
		{"Diagnosis", domain.Str(rec.Diagnosis)},
		{"Findings", strings.Join(rec.Findings, "\n")},
		{"Notes", domain.Str(rec.Notes)},
	}
}

// writeRows writes rows starting at A1. A non-zero headerStyle is applied to the first row.
func writeRows(f *excelize.File, sheet string, rows [][]string, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	if headerStyle != 0 && len(rows) > 0 {
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("styling %s header: %w", sheet, err)
		}
	}
	return f.SetColWidth(sheet, "A", "F", 22)
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// WorkbookFilename returns the Content-Disposition filename for rec's export.
// Format: {document_type}_{YYYY-MM-DD}.xlsx
func WorkbookFilename(rec *domain.MedicalRecord, now time.Time) string {
	name := nonAlphanumeric.ReplaceAllString(string(rec.DocumentType), "_")
	if strings.Trim(name, "_") == "" {
		name = "medical_record"
	}
	return fmt.Sprintf("%s_%s.xlsx", name, now.Format("2006-01-02"))
}
