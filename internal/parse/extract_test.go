package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFindings(t *testing.T) {
	text := "ACME S.r.l.\n" +
		"Spett.le\n" +
		"Mario Verdi\n" +
		"Via Roma 1\n" +
		"Fattura n. 123/A\n" +
		"Data: 15/03/2024\n" +
		"Consulenza tecnica 1.000,00\n" +
		"Imponibile 1.000,00\n" +
		"IVA 22% 220,00\n" +
		"Totale fattura € 1.220,00\n"

	f := ExtractFindings(text)
	assert.Equal(t, "2024-03-15", f.Date)
	assert.Equal(t, "123/A", f.InvoiceNumber)
	assert.Equal(t, "ACME S.r.l.", f.Supplier)
	assert.Equal(t, "Mario Verdi", f.Customer)
	assert.Equal(t, "Via Roma 1", f.CustomerAddress)
	assert.Equal(t, "1220.00", f.Total)
	assert.Equal(t, "1000.00", f.TaxableBase)
	assert.Equal(t, "22%", f.VATRate)
	assert.True(t, f.EuroDetected)
	assert.Equal(t, []string{"Consulenza tecnica 1.000,00"}, f.LineItems)
}

func TestExtractFindingsTotalLabelBeatsLastAmount(t *testing.T) {
	text := "Totale fattura € 1.234,56\nSaldo precedente 9.999,99"
	f := ExtractFindings(text)
	assert.Equal(t, "1234.56", f.Total)
	assert.Equal(t, "", f.Date)
}

func TestExtractFindingsHonorariaTotalTakesFirstAmount(t *testing.T) {
	// the honoraria total row lists the net figure before the gross one
	text := "Compensi dovuti 800,00\nTotale onorari 900,00 1.098,00"
	f := ExtractFindings(text)
	assert.Equal(t, "900.00", f.Total)
}

func TestExtractFindingsDocumentTotalBeatsHonoraria(t *testing.T) {
	text := "Totale onorari 900,00 1.098,00\nTotale documento 1.098,00"
	f := ExtractFindings(text)
	assert.Equal(t, "1098.00", f.Total)
}

func TestExtractFindingsBareTotalTakesLastAmount(t *testing.T) {
	text := "Totale 10,00 20,00 5,00"
	f := ExtractFindings(text)
	assert.Equal(t, "5.00", f.Total)
}

func TestExtractFindingsLastAmountFallback(t *testing.T) {
	// no labeled total row anywhere
	text := "acconto versato 100,00\nrimanenza da saldare 250,00"
	f := ExtractFindings(text)
	assert.Equal(t, "250.00", f.Total)
}

func TestExtractFindingsEmpty(t *testing.T) {
	f := ExtractFindings("")
	assert.Equal(t, "", f.Total)
	assert.Equal(t, "", f.Supplier)
	assert.False(t, f.EuroDetected)
}
