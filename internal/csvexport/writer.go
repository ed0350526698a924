package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"medocr/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Row sections.
const (
	SectionMedication = "medication"
	SectionLabResult  = "lab_result"
	SectionFinding    = "finding"
)

// columns defines the CSV header row (14 columns).
var columns = []string{
	"Document Type",
	"Date",
	"Patient Name",
	"Patient ID",
	"Section",
	"Name",
	"Value",
	"Unit",
	"Reference Range",
	"Status",
	"Dosage",
	"Frequency",
	"Duration",
	"Instructions",
}

// Writer wraps csv.Writer for exporting extraction results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecord writes one row per medication, lab result, and finding of rec.
// Every row repeats the record-level columns so rows from several documents can
// be concatenated. A record with none of those yields a single summary row.
func (w *Writer) WriteRecord(rec *domain.MedicalRecord) error {
	rows := recordToRows(rec)
	for _, row := range rows {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func recordToRows(rec *domain.MedicalRecord) [][]string {
	base := func(section string) []string {
		row := make([]string, len(columns))
		row[0] = string(rec.DocumentType)
		row[1] = domain.Str(rec.Date)
		if p := rec.PatientInfo; p != nil {
			row[2] = domain.Str(p.Name)
			row[3] = domain.Str(p.PatientID)
		}
		row[4] = section
		return row
	}

	var rows [][]string
	for _, m := range rec.Medications {
		row := base(SectionMedication)
		row[5] = domain.Str(m.Name)
		row[10] = domain.Str(m.Dosage)
		row[11] = domain.Str(m.Frequency)
		row[12] = domain.Str(m.Duration)
		row[13] = domain.Str(m.Instructions)
		rows = append(rows, row)
	}
	for _, l := range rec.LabResults {
		row := base(SectionLabResult)
		row[5] = domain.Str(l.TestName)
		row[6] = domain.Str(l.Value)
		row[7] = domain.Str(l.Unit)
		row[8] = domain.Str(l.ReferenceRange)
		row[9] = string(l.Status)
		rows = append(rows, row)
	}
	for _, f := range rec.Findings {
		row := base(SectionFinding)
		row[6] = f
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		rows = append(rows, base(""))
	}
	return rows
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {document_type}_{YYYY-MM-DD}.csv
func BuildFilename(documentType string, now time.Time) string {
	sanitized := SanitizeFilename(documentType)
	if sanitized == "" {
		sanitized = "medical_record"
	}
	return fmt.Sprintf("%s_%s.csv", sanitized, now.Format("2006-01-02"))
}
