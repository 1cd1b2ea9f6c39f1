package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, 0, ExitCodeFor(nil))
	assert.Equal(t, 2, ExitCodeFor(errors.New("flag parse failure")))
	assert.Equal(t, 2, ExitCodeFor(badConfig(errors.New("bad dialect"))))
	assert.Equal(t, 3, ExitCodeFor(ioFailure(errors.New("missing manifest"))))
	assert.Equal(t, 4, ExitCodeFor(internal(errors.New("inference panic"))))
}

func TestLastExitCode(t *testing.T) {
	setExitCode(0)
	assert.Equal(t, 0, LastExitCode())
	setExitCode(1)
	assert.Equal(t, 1, LastExitCode())
	setExitCode(0)
}

func TestExitErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	wrapped := ioFailure(cause)
	assert.True(t, errors.Is(wrapped, cause))
}
