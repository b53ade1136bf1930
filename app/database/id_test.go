package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()

	_, err := uuid.Parse(a)
	require.NoError(t, err)
	_, err = uuid.Parse(b)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
