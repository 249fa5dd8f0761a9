package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/tamigo/internal/diag"
)

// RequireCode fails the test unless err is a script error with the given
// kind and code.
func RequireCode(t *testing.T, err error, kind diag.Kind, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, diag.IsCode(err, code), "expected code %s, got: %v", code, err)
	require.Equal(t, kind, diag.KindOf(err), "unexpected error kind for %v", err)
}
