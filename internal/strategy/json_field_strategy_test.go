package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFieldStrategy(t *testing.T) {
	ctx := context.Background()

	packageJSON := `{
  "name": "demo",
  "version": "0.1.0",
  "private": true,
  "scripts": {
    "build": "tsc && node <dist>"
  },
  "engines": {
    "node": ">=18"
  },
  "size": 12345678901234
}`

	t.Run("should set a top-level field", func(t *testing.T) {
		strategy := &JSONFieldStrategy{}
		out, err := strategy.Apply(ctx, []byte(packageJSON), "version", "1.2.3")
		require.NoError(t, err)

		// Simple string contains checks for validation
		content := string(out)
		assert.Contains(t, content, `"version": "1.2.3"`)            // Overwritten
		assert.Contains(t, content, `"name": "demo"`)                // Unchanged
		assert.Contains(t, content, `"private": true`)               // Unchanged
		assert.Contains(t, content, `"build": "tsc && node <dist>"`) // Not HTML-escaped
		assert.Contains(t, content, `"size": 12345678901234`)        // Number kept exact
	})

	t.Run("should set a nested field", func(t *testing.T) {
		strategy := &JSONFieldStrategy{}
		out, err := strategy.Apply(ctx, []byte(packageJSON), "engines.app", "1.2.3")
		require.NoError(t, err)
		assert.Contains(t, string(out), `"app": "1.2.3"`)
		assert.Contains(t, string(out), `"node": ">=18"`)
	})

	t.Run("should fail on a missing parent", func(t *testing.T) {
		strategy := &JSONFieldStrategy{}
		_, err := strategy.Apply(ctx, []byte(packageJSON), "missing.version", "1.2.3")
		require.Error(t, err)
	})

	t.Run("should fail on malformed JSON", func(t *testing.T) {
		strategy := &JSONFieldStrategy{}
		_, err := strategy.Apply(ctx, []byte(`{"version":`), "version", "1.2.3")
		require.Error(t, err)
	})
}
