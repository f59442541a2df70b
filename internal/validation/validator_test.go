package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
)

type sampleProduct struct {
	Barcode     string  `json:"barcode" validate:"required"`
	Name        string  `json:"name" validate:"required,max=200"`
	NormalPrice float64 `json:"normal_price" validate:"gte=0"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()
	err := v.Validate(sampleProduct{Barcode: "8690000001", Name: "Süt 1L", NormalPrice: 32.5})
	assert.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	v := New()
	err := v.Validate(sampleProduct{NormalPrice: -1})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, domainerrors.As(err, &domainErr))
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	fields, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, fields, "barcode")
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "normal_price")
}

func TestValidate_UsesJSONTagNames(t *testing.T) {
	v := New()
	err := v.Validate(sampleProduct{Barcode: "1", Name: "x", NormalPrice: -5})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, domainerrors.As(err, &domainErr))
	fields := domainErr.Details.(map[string]string)
	assert.Contains(t, fields, "normal_price")
	assert.NotContains(t, fields, "NormalPrice")
}
