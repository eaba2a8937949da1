package llm

// MaxPromptText bounds how much document text goes into the prompt.
const MaxPromptText = 3000

// BuildPrompt composes the fixed extraction instruction around the first
// ~3k characters of document text. The JSON keys are part of the wire
// contract with the merge stage; do not rename them.
func BuildPrompt(text string) string {
	if len(text) > MaxPromptText {
		text = text[:MaxPromptText]
	}
	return "You are an invoice parser. Extract the fields below from the invoice text " +
		"and return ONLY a JSON object, no prose, no markdown.\n" +
		"Fields:\n" +
		"  \"fornitore\": issuing company name (string or null)\n" +
		"  \"cliente\": customer name (string or null)\n" +
		"  \"data_fattura\": issue date as YYYY-MM-DD (string or null)\n" +
		"  \"numero_fattura\": invoice number (string or null)\n" +
		"  \"importo_totale\": total amount as a decimal-point number (number or null)\n" +
		"  \"valuta\": ISO 4217 currency code (string or null)\n" +
		"  \"voci\": line item descriptions (array of strings)\n" +
		"Use null when a field is not present. Never invent values.\n\n" +
		"Invoice text:\n" + text
}
