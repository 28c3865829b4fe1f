package lock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/wandura/internal/lock"
)

func TestNop(t *testing.T) {
	release, err := lock.Nop{}.Lock(context.Background(), "settlement:pi_123")
	require.NoError(t, err)

	assert.NotPanics(t, release)
}
