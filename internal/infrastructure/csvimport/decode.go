package csvimport

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/squizz-sync/backend/internal/domain/catalog"
)

// DecodeProducts reads a product batch. Only keyProductID is required; the
// remaining columns map onto the product's JSON fields and unknown columns
// are ignored.
func DecodeProducts(r io.Reader, opts ...Option) ([]catalog.Product, error) {
	return decode[catalog.Product](r, []string{"keyProductID"}, opts)
}

// DecodePrices reads a price batch.
func DecodePrices(r io.Reader, opts ...Option) ([]catalog.Price, error) {
	return decode[catalog.Price](r, []string{"keyProductID", "price"}, opts)
}

// decode routes each record through the JSON decoder so CSV input gets the
// same field names and value parsing (decimals, Y/N flags) as a JSON batch.
// Empty cells are left out, which keeps their zero value.
func decode[T any](r io.Reader, required []string, opts []Option) ([]T, error) {
	p, err := NewParser(r, opts...)
	if err != nil {
		return nil, err
	}
	if err := p.Require(required...); err != nil {
		return nil, err
	}

	out := make([]T, 0)
	for {
		rec, err := p.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		raw, err := json.Marshal(rec.Fields)
		if err != nil {
			return nil, &RowError{Line: rec.Line, Err: err}
		}
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, &RowError{Line: rec.Line, Err: err}
		}
		out = append(out, item)
	}
}
