package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWithAddsAttributes(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), logger)

	// Act
	ctx = With(ctx, "file", "hall.tami")
	FromContext(ctx).Info("parsed")

	// Assert
	assert.Contains(t, buf.String(), "file=hall.tami")
	assert.Contains(t, buf.String(), "msg=parsed")
}
