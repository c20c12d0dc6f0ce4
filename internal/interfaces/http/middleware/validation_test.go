package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucreapp/backend/internal/interfaces/http/dto"
)

type logisticsRulePayload struct {
	ShippingMethod string `json:"shipping_method" binding:"required,min=2"`
	FixedCost      string `json:"fixed_cost" binding:"required"`
	Platform       string `json:"platform" binding:"required,oneof=ml shopee"`
}

func validatePayload(t *testing.T, payload interface{}) error {
	t.Helper()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return v.Struct(payload)
}

func TestSetupValidator_UsesJSONFieldNames(t *testing.T) {
	SetupValidator()

	err := validatePayload(t, logisticsRulePayload{FixedCost: "4.50", Platform: "ml"})
	require.Error(t, err)

	validationErrors, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	require.Len(t, validationErrors, 1)
	assert.Equal(t, "shipping_method", validationErrors[0].Field())
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()

	t.Run("collects one detail per failing field", func(t *testing.T) {
		err := validatePayload(t, logisticsRulePayload{Platform: "amazon"})
		require.Error(t, err)

		resp := FormatValidationErrors(err, "req-42")

		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-42", resp.Error.RequestID)

		fields := make(map[string]string)
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "This field is required", fields["shipping_method"])
		assert.Equal(t, "This field is required", fields["fixed_cost"])
		assert.Equal(t, "Must be one of: ml shopee", fields["platform"])
	})

	t.Run("non-validator errors produce no details", func(t *testing.T) {
		resp := FormatValidationErrors(assert.AnError, "req-42")

		require.NotNil(t, resp.Error)
		assert.Empty(t, resp.Error.Details)
	})
}

func TestValidationMessage_StringLengths(t *testing.T) {
	SetupValidator()

	err := validatePayload(t, logisticsRulePayload{ShippingMethod: "M", FixedCost: "4.50", Platform: "ml"})
	require.Error(t, err)

	validationErrors, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	require.Len(t, validationErrors, 1)
	assert.Equal(t, "Must be at least 2 characters", validationMessage(validationErrors[0]))
}
