package llm

import (
	"context"

	"invoicepipe/internal/entity"
)

// FieldExtractor is the interface the pipeline depends on. A nil findings
// pointer means the model produced nothing usable; raw carries whatever the
// service returned, for diagnostics.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string) (*entity.ModelFindings, []byte, error)
}
