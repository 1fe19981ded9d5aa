package services

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	"github.com/SscSPs/casa_ledger/internal/core/domain"
)

//go:embed schemas/*.schema.json
var schemaFiles embed.FS

// payloadSchemas validates queued payloads before they are replayed into a mutator.
type payloadSchemas map[domain.OperationType]*gojsonschema.Schema

func loadPayloadSchemas() (payloadSchemas, error) {
	schemas := payloadSchemas{}
	for _, opType := range []domain.OperationType{domain.OpRequestCreate, domain.OpExpenseCreate} {
		raw, err := schemaFiles.ReadFile("schemas/" + string(opType) + ".schema.json")
		if err != nil {
			return nil, fmt.Errorf("reading schema for %s: %w", opType, err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compiling schema for %s: %w", opType, err)
		}
		schemas[opType] = schema
	}
	return schemas, nil
}

// validate returns an ErrValidation listing every schema violation.
func (p payloadSchemas) validate(opType domain.OperationType, payload []byte) error {
	schema, ok := p[opType]
	if !ok {
		return apperrors.Validationf("unknown operation type %q", opType)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return apperrors.Validationf("payload is not valid JSON: %v", err)
	}
	if !res.Valid() {
		details := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			details = append(details, e.String())
		}
		return apperrors.Validationf("payload rejected: %s", strings.Join(details, "; "))
	}
	return nil
}
