package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"invoicepipe/constants"
	"invoicepipe/internal/entity"
)

func sampleRecords() []entity.CanonicalRecord {
	return []entity.CanonicalRecord{
		{
			FileName:           "fattura_01.pdf",
			Supplier:           "ACME S.r.l.",
			Customer:           "Mario Verdi",
			CustomerAddress:    "Via Roma 1 20100 Milano",
			InvoiceDate:        "2024-03-15",
			InvoiceDateDisplay: "15/03/2024",
			InvoiceNumber:      "123/A",
			Total:              "1234.56",
			TotalDisplay:       "1.234,56",
			Currency:           "EUR",
			VATRate:            "22%",
			Method:             constants.MethodRegexOnly,
			LineItems:          []string{"Consulenza", "Trasferta"},
		},
		{
			FileName: "fattura_02.pdf",
			Method:   constants.MethodRegexModel,
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	svc := NewService(nil)
	b, err := svc.WriteXLSX(sampleRecords())
	require.NoError(t, err)
	require.NotEmpty(t, b)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	idx, err := f.GetSheetIndex("Dati")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, idx, 0)

	get := func(cell string) string {
		v, err := f.GetCellValue("Dati", cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Nome File", get("A1"))
	assert.Equal(t, "Data", get("B1"))
	assert.Equal(t, "Voci", get("N1"))

	assert.Equal(t, "fattura_01.pdf", get("A2"))
	assert.Equal(t, "15/03/2024", get("B2"))
	assert.Equal(t, "123/A", get("C2"))
	assert.Equal(t, "ACME S.r.l.", get("D2"))
	assert.Equal(t, "1.234,56", get("G2"))
	assert.Equal(t, "regex only", get("J2"))
	assert.Equal(t, "Consulenza; Trasferta", get("N2"))

	assert.Equal(t, "fattura_02.pdf", get("A3"))
	assert.Equal(t, "regex+model", get("J3"))
}

func TestWriteCSV(t *testing.T) {
	svc := NewService(nil)
	b, err := svc.WriteCSV(sampleRecords())
	require.NoError(t, err)

	// UTF-8 BOM so spreadsheet programs keep accented characters
	require.True(t, bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}))

	r := csv.NewReader(bytes.NewReader(b[3:]))
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Nome File", rows[0][0])
	assert.Equal(t, "fattura_01.pdf", rows[1][0])
	assert.Equal(t, "1.234,56", rows[1][6])
	assert.Equal(t, "Consulenza; Trasferta", rows[1][13])
}
