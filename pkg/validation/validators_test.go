package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `json:"name" validate:"not_blank"`
	Note    string `json:"note"`
	Aliased string `json:"alias_key,omitempty" validate:"not_blank"`
}

func TestNotBlank(t *testing.T) {
	v := New()

	t.Run("accepts non-blank values", func(t *testing.T) {
		assert.NoError(t, v.Struct(sample{Name: "x", Aliased: " y "}))
	})

	t.Run("reports blank fields by json key", func(t *testing.T) {
		err := v.Struct(sample{Name: " \t\n", Note: "ignored"})
		require.Error(t, err)
		assert.Equal(t, []string{"name", "alias_key"}, MissingFields(err))
	})
}

func TestMissingFieldsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, MissingFields(assert.AnError))
	assert.Nil(t, MissingFields(nil))
}
