package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"invoicepipe/internal/entity"
)

// DecodeLoose parses model output that is supposed to be a JSON object but
// often isn't quite: a direct parse is tried first, then the outermost
// {...} span inside the surrounding prose. Numbers stay json.Number so
// amounts keep their exact spelling.
func DecodeLoose(raw []byte) (map[string]any, error) {
	if m, err := decodeObject(raw); err == nil {
		return m, nil
	}
	s := string(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}
	m, err := decodeObject([]byte(s[start : end+1]))
	if err != nil {
		return nil, fmt.Errorf("brace-extracted span still invalid: %w", err)
	}
	return m, nil
}

func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// FindingsFromMap lifts the loosely-typed JSON object into ModelFindings.
// Unknown keys are ignored; nulls and empty strings stay absent; the total
// keeps the model's raw spelling for the merge stage to normalize.
func FindingsFromMap(m map[string]any) entity.ModelFindings {
	f := entity.ModelFindings{
		Supplier:      looseString(m["fornitore"]),
		Customer:      looseString(m["cliente"]),
		InvoiceDate:   looseString(m["data_fattura"]),
		InvoiceNumber: looseString(m["numero_fattura"]),
		Total:         looseString(m["importo_totale"]),
		Currency:      looseString(m["valuta"]),
	}
	if items, ok := m["voci"].([]any); ok {
		for _, it := range items {
			if s := looseString(it); s != "" {
				f.LineItems = append(f.LineItems, s)
			}
		}
	}
	return f
}

func looseString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(t)
		if strings.EqualFold(s, "null") {
			return ""
		}
		return s
	case json.Number:
		return t.String()
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", t), "0"), ".")
	case bool:
		return ""
	case map[string]any:
		// line items sometimes come back as objects; prefer a description key
		for _, k := range []string{"descrizione", "description", "voce", "item"} {
			if s := looseString(t[k]); s != "" {
				return s
			}
		}
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return ""
	}
}
