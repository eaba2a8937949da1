package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicepipe/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Model: "mistral", Timeout: 5 * time.Second}, nil)
}

func TestExtractFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral", req["model"])
		assert.Equal(t, false, req["stream"])
		assert.Equal(t, "json", req["format"])
		assert.Contains(t, req["prompt"], "Totale fattura")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": `{"fornitore":"ACME S.r.l.","data_fattura":"2024-03-15","importo_totale":1220.00,"valuta":"EUR","voci":["Consulenza"]}`,
		})
	})

	f, raw, err := client.ExtractFields(context.Background(), "Totale fattura € 1.220,00")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.NotEmpty(t, raw)
	assert.Equal(t, "ACME S.r.l.", f.Supplier)
	assert.Equal(t, "2024-03-15", f.InvoiceDate)
	assert.Equal(t, "1220.00", f.Total)
	assert.Equal(t, "EUR", f.Currency)
	assert.Equal(t, []string{"Consulenza"}, f.LineItems)
}

func TestExtractFieldsProseWrappedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": "Ecco i dati estratti:\n{\"numero_fattura\":\"42/B\"}\nFammi sapere!",
		})
	})

	f, _, err := client.ExtractFields(context.Background(), "testo")
	require.NoError(t, err)
	assert.Equal(t, "42/B", f.InvoiceNumber)
}

func TestExtractFieldsServiceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	f, _, err := client.ExtractFields(context.Background(), "testo")
	assert.Nil(t, f)
	assert.True(t, errors.Is(err, common.ErrService))
}

func TestExtractFieldsUnparsableResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "mi dispiace, non posso"})
	})

	f, _, err := client.ExtractFields(context.Background(), "testo")
	assert.Nil(t, f)
	assert.True(t, errors.Is(err, common.ErrParse))
}

func TestExtractFieldsEndpointDown(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Model: "mistral", Timeout: time.Second}, nil)
	f, _, err := client.ExtractFields(context.Background(), "testo")
	assert.Nil(t, f)
	assert.True(t, errors.Is(err, common.ErrService))
}
