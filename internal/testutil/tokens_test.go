package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedRunGenerator(t *testing.T) {
	g := NewFixedRunGenerator("run-42")
	assert.Equal(t, "run-42", g.Generate())
	assert.Equal(t, "run-42", g.Generate(), "token is stable across calls")
}

func TestFixedRunGenerator_DefaultToken(t *testing.T) {
	g := NewFixedRunGenerator("")
	assert.Equal(t, "test-run-default", g.Generate())
}
