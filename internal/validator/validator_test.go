package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVar(t *testing.T) {
	assert.Empty(t, Var("income", "50,000", "required,amount"))
	assert.Equal(t, "income must be a non-negative number", Var("income", "-5", "required,amount"))
	assert.Equal(t, "income must be a non-negative number", Var("income", "lots", "required,amount"))
	assert.Equal(t, "income is required", Var("income", "", "required,amount"))
	assert.Equal(t, "goal must not be blank", Var("goal", "   ", "notblank"))
	assert.Equal(t, "assets must not be empty", Var("assets", []string{}, "min=1"))
}

func TestStruct(t *testing.T) {
	type req struct {
		Name   string  `validate:"required,notblank"`
		Amount float64 `validate:"gte=0"`
	}
	require.NoError(t, Struct(req{Name: "x", Amount: 1}))

	err := Struct(req{Name: " ", Amount: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name must not be blank")
	assert.Contains(t, err.Error(), "Amount must be at least 0")
}
