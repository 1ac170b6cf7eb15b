package kafkain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

// DecodeCatalogUpdate is strict: unknown fields reject the message, so a
// renamed field in the head-office feed surfaces immediately instead of
// silently zeroing a price.
func DecodeCatalogUpdate(b []byte) (domain.CatalogUpdate, error) {
	var u domain.CatalogUpdate

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&u); err != nil {
		return domain.CatalogUpdate{}, fmt.Errorf("json decode: %w", err)
	}

	if err := u.Validate(); err != nil {
		return domain.CatalogUpdate{}, fmt.Errorf("validate: %w", err)
	}

	return u, nil
}
