package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactsite/pkg/validator"
)

func TestIsEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"simple", "ada@example.com", true},
		{"subdomain", "ada.lovelace@mail.example.co.uk", true},
		{"plus tag", "ada+contact@example.com", true},
		{"empty", "", false},
		{"no at", "not-an-email", false},
		{"no domain", "ada@", false},
		{"no local", "@example.com", false},
		{"no tld", "ada@localhost", false},
		{"trailing dot", "ada@example.", false},
		{"display name", "Ada <ada@example.com>", false},
		{"space", "ada @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, validator.IsEmail(tt.input))
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when all rules pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RequiredString("name", "Ada"),
			validator.ValidEmail("email", "ada@example.com"),
			validator.OneOf("join", "yes", "yes", "no"),
			validator.Accepted("accept_policy", true),
		)
		assert.NoError(t, err)
	})

	t.Run("reports only the first failure per field", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RequiredString("email", ""),
			validator.ValidEmail("email", ""),
			validator.MaxLenString("email", "", 10),
		)
		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 1)
		assert.Equal(t, validator.KeyRequired, ve[0].TranslationKey)
	})

	t.Run("invalid email has email key", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RequiredString("email", "not-an-email"),
			validator.ValidEmail("email", "not-an-email"),
		)
		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 1)
		assert.Equal(t, "email", ve[0].Field)
		assert.Equal(t, validator.KeyEmail, ve[0].TranslationKey)
	})

	t.Run("matches sentinel", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(validator.Accepted("accept_policy", false))
		require.Error(t, err)
		assert.ErrorIs(t, err, validator.ErrValidation)
		assert.NotNil(t, validator.ExtractValidationErrors(err))
	})

	t.Run("non validation error", func(t *testing.T) {
		t.Parallel()
		err := errors.New("boom")
		assert.Nil(t, validator.ExtractValidationErrors(err))
	})
}

func TestValidationErrors_Helpers(t *testing.T) {
	t.Parallel()

	errs := validator.ValidationErrors{
		{Field: "name", Message: "is required"},
		{Field: "email", Message: "must be a valid email address"},
		{Field: "name", Message: "is too long"},
	}

	assert.True(t, errs.Has("name"))
	assert.False(t, errs.Has("message"))
	assert.Equal(t, "is required", errs.First("name"))
	assert.Empty(t, errs.First("message"))
	assert.Equal(t, []string{"name", "email"}, errs.Fields())
	assert.Contains(t, errs.Error(), "email: must be a valid email address")
}

func TestOneOf(t *testing.T) {
	t.Parallel()

	rule := validator.OneOf("join", "maybe", "yes", "no")
	assert.False(t, rule.Check())
	assert.Equal(t, validator.KeyOneOf, rule.Error.TranslationKey)
	assert.Equal(t, "yes, no", rule.Error.TranslationValues["values"])

	assert.True(t, validator.OneOf("join", "", "yes", "no").Check())
}
