package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLoose(t *testing.T) {
	t.Run("clean object", func(t *testing.T) {
		m, err := DecodeLoose([]byte(`{"fornitore":"ACME"}`))
		require.NoError(t, err)
		assert.Equal(t, "ACME", m["fornitore"])
	})

	t.Run("object wrapped in prose", func(t *testing.T) {
		raw := []byte("Ecco il risultato:\n```json\n{\"numero_fattura\": \"42/B\"}\n```\nSpero sia utile.")
		m, err := DecodeLoose(raw)
		require.NoError(t, err)
		assert.Equal(t, "42/B", m["numero_fattura"])
	})

	t.Run("no object at all", func(t *testing.T) {
		_, err := DecodeLoose([]byte("non riesco ad aiutarti"))
		assert.Error(t, err)
	})

	t.Run("braces but invalid json", func(t *testing.T) {
		_, err := DecodeLoose([]byte("testo { rotto : } testo"))
		assert.Error(t, err)
	})
}

func TestFindingsFromMap(t *testing.T) {
	m, err := DecodeLoose([]byte(`{
		"fornitore": "ACME S.r.l.",
		"cliente": null,
		"data_fattura": "2024-03-15",
		"numero_fattura": 42,
		"importo_totale": 469.94,
		"valuta": "EUR",
		"voci": ["Consulenza", {"descrizione": "Trasferta"}, null]
	}`))
	require.NoError(t, err)

	f := FindingsFromMap(m)
	assert.Equal(t, "ACME S.r.l.", f.Supplier)
	assert.Equal(t, "", f.Customer)
	assert.Equal(t, "2024-03-15", f.InvoiceDate)
	assert.Equal(t, "42", f.InvoiceNumber)
	// numbers keep their exact spelling for the merge-stage normalizer
	assert.Equal(t, "469.94", f.Total)
	assert.Equal(t, "EUR", f.Currency)
	assert.Equal(t, []string{"Consulenza", "Trasferta"}, f.LineItems)
}

func TestFindingsFromMapLiteralNullString(t *testing.T) {
	m := map[string]any{"cliente": "null", "fornitore": "  ACME  "}
	f := FindingsFromMap(m)
	assert.Equal(t, "", f.Customer)
	assert.Equal(t, "ACME", f.Supplier)
}
