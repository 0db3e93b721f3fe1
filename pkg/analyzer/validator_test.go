package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rg0now/next-migration-survey/pkg/framework"
	"github.com/rg0now/next-migration-survey/pkg/models"
	"github.com/rg0now/next-migration-survey/pkg/transform"
)

func TestValidator_AllOK(t *testing.T) {
	got := NewValidator(framework.NextJS(), transform.NewEngine()).Validate()

	assert.True(t, got.Valid)
	assert.Empty(t, got.Issues)

	var names []string
	for _, c := range got.Components {
		names = append(names, c.Name)
		assert.Equal(t, models.StatusOK, c.Status)
		assert.Empty(t, c.Message)
	}
	assert.Equal(t, []string{
		ProbeCodebase, ProbeComponents, ProbeRouting,
		ProbeDependencies, ProbeReadiness, ProbeTransformer,
	}, names)
}

func TestValidator_MissingEngine(t *testing.T) {
	got := NewValidator(framework.NextJS(), nil).Validate()

	assert.False(t, got.Valid)
	require.Len(t, got.Issues, 1)
	assert.Equal(t, "codeTransformer validation error: transform engine is not configured", got.Issues[0])
	assert.Equal(t, models.StatusError, got.Components[5].Status)
}

func TestValidator_Failures(t *testing.T) {
	v := NewValidatorWithProbes(
		Probe{Name: "fine", Check: func() error { return nil }},
		Probe{Name: "missing"},
		Probe{Name: "broken", Check: func() error { return errors.New("boom") }},
		Probe{Name: "panicky", Check: func() error { panic("nil map") }},
	)

	got := v.Validate()

	assert.False(t, got.Valid)
	assert.Equal(t, []string{
		"missing validation error: missing function is not available",
		"broken validation error: boom",
		"panicky validation error: panic: nil map",
	}, got.Issues)
	require.Len(t, got.Components, 4)
	assert.Equal(t, models.StatusOK, got.Components[0].Status)
	for _, c := range got.Components[1:] {
		assert.Equal(t, models.StatusError, c.Status, c.Name)
		assert.NotEmpty(t, c.Message)
	}
}
