package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCheckCommandFlags(t *testing.T) {
	cmd := NewCheckCommand()

	assert.Equal(t, "check", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	for _, flag := range []string{"state", "state-db", "output", "markdown"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewDriftCommandFlags(t *testing.T) {
	cmd := NewDriftCommand()

	assert.Equal(t, "drift", cmd.Use)
	for _, flag := range []string{"output", "markdown"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewImpactCommandRequiresModelID(t *testing.T) {
	cmd := NewImpactCommand()

	assert.Equal(t, "impact <model-id>", cmd.Use)
	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"model.orders"}))
}
