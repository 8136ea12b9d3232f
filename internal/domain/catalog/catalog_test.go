package catalog

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squizz-sync/backend/internal/domain/shared"
)

func TestProduct_Validate(t *testing.T) {
	t.Run("accepts product with key", func(t *testing.T) {
		assert.NoError(t, Product{KeyProductID: "P1"}.Validate())
	})

	t.Run("rejects blank key", func(t *testing.T) {
		err := Product{KeyProductID: "  "}.Validate()
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRODUCT", domainErr.Code)
	})
}

func TestPrice_Validate(t *testing.T) {
	assert.NoError(t, Price{KeyProductID: "P1", Price: decimal.NewFromInt(3)}.Validate())
	assert.Error(t, Price{Price: decimal.NewFromInt(3)}.Validate())
	assert.Error(t, Price{KeyProductID: "P1", Price: decimal.NewFromInt(-1)}.Validate())
}

func TestProduct_DecodesPlatformRecord(t *testing.T) {
	raw := `{
		"keyProductID": "21479231981826",
		"barcode": "9300000000001",
		"name": "Widget",
		"isPriceTaxInclusive": "Y",
		"isKitted": false,
		"weight": 1.25,
		"packQuantity": "12"
	}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "21479231981826", p.KeyProductID)
	assert.Equal(t, "Widget", p.Name)
	assert.True(t, bool(p.IsPriceTaxInclusive))
	assert.False(t, bool(p.IsKitted))
	assert.True(t, decimal.RequireFromString("1.25").Equal(p.Weight))
	assert.True(t, decimal.NewFromInt(12).Equal(p.PackQuantity))
}

func TestFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    Flag
		wantErr bool
	}{
		{`"Y"`, true, false},
		{`"n"`, false, false},
		{`""`, false, false},
		{`true`, true, false},
		{`"maybe"`, false, true},
		{`12`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f Flag
			err := json.Unmarshal([]byte(tt.in), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}

	b, err := json.Marshal(Flag(true))
	require.NoError(t, err)
	assert.Equal(t, `"Y"`, string(b))
}
