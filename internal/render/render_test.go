package render_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"medocr/internal/domain"
	"medocr/internal/render"
)

const labReport = `{
	"document_type": "lab_report",
	"patient_info": {"name": "John Doe", "age": "45", "gender": "M", "patient_id": null, "contact": null},
	"doctor_info": {"name": "Dr. Smith", "specialization": "Pathology", "license_number": null, "hospital": null},
	"date": "2024-03-01",
	"diagnosis": "Mild anemia",
	"medications": [{"name": "Ferrous sulfate", "dosage": "325mg", "frequency": "OD", "duration": "30 days", "route": "oral", "instructions": "After food"}],
	"findings": ["Pale conjunctiva"],
	"lab_results": [
		{"test_name": "Hemoglobin", "value": "10.2", "unit": "g/dL", "reference_range": "13.5-17.5", "status": "low"},
		{"test_name": "WBC | total", "value": "7.1", "unit": null, "reference_range": null, "status": "normal"}
	],
	"notes": "Repeat in 4 weeks",
	"confidence": "high"
}`

func parseRecord(t *testing.T, raw string) *domain.MedicalRecord {
	t.Helper()
	rec, err := domain.ParseMedicalRecord([]byte(raw))
	require.NoError(t, err)
	return rec
}

func TestMarkdown_FullRecord(t *testing.T) {
	md := render.Markdown(parseRecord(t, labReport))

	assert.Contains(t, md, "# LAB REPORT\n")
	assert.Contains(t, md, "**Confidence:** HIGH | **Date:** 2024-03-01")
	assert.Contains(t, md, "- **Name:** John Doe")
	assert.Contains(t, md, "- **Patient ID:** N/A")
	assert.Contains(t, md, "## Doctor Information\n- **Doctor:** Dr. Smith")
	assert.Contains(t, md, "## Diagnosis\nMild anemia")
	assert.Contains(t, md, "### Ferrous sulfate")
	assert.Contains(t, md, "| Test Name | Value | Unit | Reference Range | Status |")
	assert.Contains(t, md, "| Hemoglobin | 10.2 | g/dL | 13.5-17.5 | **LOW** |")
	assert.Contains(t, md, `| WBC \| total | 7.1 | N/A | N/A | **NORMAL** |`)
	assert.Contains(t, md, "## Clinical Findings\n- Pale conjunctiva")
	assert.Contains(t, md, "## Additional Notes\nRepeat in 4 weeks")
}

func TestMarkdown_SparseRecord(t *testing.T) {
	md := render.Markdown(parseRecord(t, `{"document_type": null, "patient_info": null, "date": null, "confidence": null}`))

	assert.Contains(t, md, "# UNKNOWN")
	assert.Contains(t, md, "**Confidence:** N/A | **Date:** N/A")
	assert.Contains(t, md, "- **Name:** N/A")
	assert.NotContains(t, md, "Doctor Information")
	assert.NotContains(t, md, "Lab Results")
	assert.NotContains(t, md, "Medications")
}

func TestHTML_RendersTable(t *testing.T) {
	html, err := render.HTML(render.Markdown(parseRecord(t, labReport)))

	require.NoError(t, err)
	assert.Contains(t, html, "<h1>LAB REPORT</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, ">Hemoglobin</td>")
}

func TestMarkdown_TableCellsStayOnOneRow(t *testing.T) {
	rec := parseRecord(t, `{
		"document_type": "lab_report",
		"lab_results": [
			{"test_name": "Glucose\\|fasting", "value": "7.1\r\n(repeat)", "unit": "mmol/L\n", "reference_range": "3.9 |\n 5.5", "status": "high|low"}
		]
	}`)

	md := render.Markdown(rec)
	assert.Contains(t, md, `| Glucose\\\|fasting | 7.1 (repeat) | mmol/L | 3.9 \| 5.5 | **HIGH\|LOW** |`+"\n")

	html, err := render.HTML(md)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(html, "<tr>"))
	assert.Contains(t, html, ">7.1 (repeat)</td>")
	assert.Contains(t, html, "<strong>HIGH|LOW</strong>")
}

func TestHTML_OmitsRawHTML(t *testing.T) {
	html, err := render.HTML("## Notes\n<script>alert(1)</script>\n")

	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestWorkbook_Sheets(t *testing.T) {
	buf, err := render.Workbook(parseRecord(t, labReport))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{render.SheetSummary, render.SheetMedications, render.SheetLabResults}, f.GetSheetList())

	v, err := f.GetCellValue(render.SheetSummary, "B4")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", v)

	rows, err := f.GetRows(render.SheetLabResults)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Test Name", "Value", "Unit", "Reference Range", "Status"}, rows[0])
	assert.Equal(t, []string{"Hemoglobin", "10.2", "g/dL", "13.5-17.5", "low"}, rows[1])

	meds, err := f.GetRows(render.SheetMedications)
	require.NoError(t, err)
	require.Len(t, meds, 2)
	assert.Equal(t, "Ferrous sulfate", meds[1][0])
}

func TestWorkbookFilename(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "lab_report_2024-03-01.xlsx", render.WorkbookFilename(parseRecord(t, labReport), now))
	assert.Equal(t, "medical_record_2024-03-01.xlsx", render.WorkbookFilename(&domain.MedicalRecord{}, now))
}
