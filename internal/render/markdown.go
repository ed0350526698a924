// Package render produces human-readable views of an extraction result.
package render

import (
	"fmt"
	"strings"

	"medocr/internal/domain"
)

const notAvailable = "N/A"

// Markdown renders a summary of rec for people to read.
func Markdown(rec *domain.MedicalRecord) string {
	var b strings.Builder

	docType := string(rec.DocumentType)
	if docType == "" {
		docType = string(domain.DocumentTypeUnknown)
	}
	fmt.Fprintf(&b, "# %s\n\n", strings.ToUpper(strings.ReplaceAll(docType, "_", " ")))
	fmt.Fprintf(&b, "**Confidence:** %s | **Date:** %s\n\n",
		strings.ToUpper(orNA(string(rec.Confidence))), orNA(domain.Str(rec.Date)))

	p := rec.PatientInfo
	if p == nil {
		p = &domain.PatientInfo{}
	}
	b.WriteString("## Patient Information\n")
	fmt.Fprintf(&b, "- **Name:** %s\n", orNA(domain.Str(p.Name)))
	fmt.Fprintf(&b, "- **Age:** %s\n", orNA(domain.Str(p.Age)))
	fmt.Fprintf(&b, "- **Gender:** %s\n", orNA(domain.Str(p.Gender)))
	fmt.Fprintf(&b, "- **Patient ID:** %s\n\n", orNA(domain.Str(p.PatientID)))

	if d := rec.DoctorInfo; d != nil && domain.Str(d.Name) != "" {
		b.WriteString("## Doctor Information\n")
		fmt.Fprintf(&b, "- **Doctor:** %s\n", domain.Str(d.Name))
		fmt.Fprintf(&b, "- **Specialization:** %s\n", orNA(domain.Str(d.Specialization)))
		fmt.Fprintf(&b, "- **Hospital:** %s\n\n", orNA(domain.Str(d.Hospital)))
	}

	if diag := domain.Str(rec.Diagnosis); diag != "" {
		fmt.Fprintf(&b, "## Diagnosis\n%s\n\n", diag)
	}

	if len(rec.Medications) > 0 {
		b.WriteString("## Medications\n")
		for _, m := range rec.Medications {
			fmt.Fprintf(&b, "### %s\n", orNA(domain.Str(m.Name)))
			fmt.Fprintf(&b, "- **Dosage:** %s\n", orNA(domain.Str(m.Dosage)))
			fmt.Fprintf(&b, "- **Frequency:** %s\n", orNA(domain.Str(m.Frequency)))
			fmt.Fprintf(&b, "- **Duration:** %s\n", orNA(domain.Str(m.Duration)))
			fmt.Fprintf(&b, "- **Instructions:** %s\n\n", orNA(domain.Str(m.Instructions)))
		}
	}

	if len(rec.LabResults) > 0 {
		b.WriteString("## Lab Results\n")
		b.WriteString("| Test Name | Value | Unit | Reference Range | Status |\n")
		b.WriteString("| :--- | :--- | :--- | :--- | :--- |\n")
		for _, l := range rec.LabResults {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | **%s** |\n",
				cell(domain.Str(l.TestName)),
				cell(domain.Str(l.Value)),
				cell(orNA(domain.Str(l.Unit))),
				cell(orNA(domain.Str(l.ReferenceRange))),
				cell(strings.ToUpper(orNA(string(l.Status)))),
			)
		}
		b.WriteString("\n")
	}

	if len(rec.Findings) > 0 {
		b.WriteString("## Clinical Findings\n")
		for _, f := range rec.Findings {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	if notes := domain.Str(rec.Notes); notes != "" {
		fmt.Fprintf(&b, "## Additional Notes\n%s\n", notes)
	}

	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

// cellEscaper escapes backslashes first so a value ending in "\" cannot
// unescape the pipe that follows it.
var cellEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`)

// cell keeps s on one table row: whitespace runs (line breaks included)
// collapse to a single space and pipes are escaped.
func cell(s string) string {
	return cellEscaper.Replace(strings.Join(strings.Fields(s), " "))
}
