package extractor

import "medocr/internal/domain"

// RequiredFields are the top-level keys every extraction result must carry.
var RequiredFields = []string{"document_type", "patient_info", "date", "confidence"}

// BuildResponseSchema returns the structured-output schema sent to the provider.
// A fresh map is returned on every call so callers may adjust it freely.
func BuildResponseSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"document_type": enumProp(stringsOf(domain.DocumentTypes)),
			"patient_info":  objectProp([]string{"name", "age", "gender", "patient_id", "contact"}),
			"doctor_info":   objectProp([]string{"name", "specialization", "license_number", "hospital"}),
			"date":          stringProp(),
			"diagnosis":     stringProp(),
			"medications": map[string]interface{}{
				"type":  "array",
				"items": objectProp([]string{"name", "dosage", "frequency", "duration", "route", "instructions"}),
			},
			"findings": map[string]interface{}{
				"type":  "array",
				"items": stringProp(),
			},
			"lab_results": map[string]interface{}{
				"type":  "array",
				"items": labResultProp(),
			},
			"notes":      stringProp(),
			"confidence": enumProp(stringsOf(domain.Confidences)),
		},
		"required": append([]string(nil), RequiredFields...),
		"propertyOrdering": []string{
			"document_type", "patient_info", "doctor_info", "date", "diagnosis",
			"medications", "findings", "lab_results", "notes", "confidence",
		},
	}
}

func labResultProp() map[string]interface{} {
	p := objectProp([]string{"test_name", "value", "unit", "reference_range"})
	p["properties"].(map[string]interface{})["status"] = enumProp(stringsOf(domain.LabStatuses))
	p["propertyOrdering"] = []string{"test_name", "value", "unit", "reference_range", "status"}
	return p
}

func objectProp(fields []string) map[string]interface{} {
	props := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		props[f] = stringProp()
	}
	return map[string]interface{}{
		"type":             "object",
		"properties":       props,
		"propertyOrdering": append([]string(nil), fields...),
	}
}

func stringProp() map[string]interface{} {
	return map[string]interface{}{"type": "string"}
}

func enumProp(values []string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "enum": values}
}

func stringsOf[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
