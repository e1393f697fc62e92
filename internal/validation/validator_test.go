package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `validate:"required"`
	Count int    `validate:"min=1,max=10"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(&sample{Name: "ok", Count: 3}))

	err := Struct(&sample{Count: 11})
	require.Error(t, err)

	var errs Errors
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs, 2)
	assert.Equal(t, "sample.Name", errs[0].Field)
	assert.Equal(t, "required", errs[0].Tag)
	assert.Equal(t, "max", errs[1].Tag)
	assert.Equal(t, "10", errs[1].Param)
	assert.Contains(t, err.Error(), "sample.Count failed max=10")
}

func TestValidatorIsShared(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}
