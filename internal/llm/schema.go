package llm

// BuildInvoiceJSONSchema returns the expected shape of the model's output as
// a JSON-Schema (draft 2020-12 subset) generic map. Validation is advisory:
// a failing document is logged, not rejected, since every model value is
// re-checked by the merge policy anyway.
func BuildInvoiceJSONSchema() map[string]any {
	nullableString := map[string]any{"type": []string{"string", "null"}}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"fornitore":      nullableString,
			"cliente":        nullableString,
			"data_fattura":   nullableString,
			"numero_fattura": nullableString,
			"importo_totale": map[string]any{"type": []string{"number", "string", "null"}},
			"valuta":         nullableString,
			"voci":           map[string]any{"type": []string{"array", "null"}},
		},
	}
}
