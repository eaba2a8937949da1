package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"invoicepipe/internal/common"
)

// The expected output shape never changes, so the schema is compiled once at
// startup rather than per document.
var invoiceSchema = mustCompileInvoiceSchema()

func mustCompileInvoiceSchema() *jsonschema.Schema {
	b, err := json.Marshal(BuildInvoiceJSONSchema())
	if err != nil {
		panic(fmt.Sprintf("marshal invoice schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("invoice.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add invoice schema: %v", err))
	}
	schema, err := compiler.Compile("invoice.json")
	if err != nil {
		panic(fmt.Sprintf("compile invoice schema: %v", err))
	}
	return schema
}

// ValidateModelOutput checks the recovered model JSON against the invoice
// schema. A mismatch classifies as ErrParse; callers treat it as advisory
// since the merge policy re-checks every value anyway.
func ValidateModelOutput(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return common.NewAppError("MODEL_OUTPUT", "not valid JSON", common.ErrParse)
	}
	if err := invoiceSchema.Validate(v); err != nil {
		return common.NewAppError("MODEL_OUTPUT", err.Error(), common.ErrParse)
	}
	return nil
}
