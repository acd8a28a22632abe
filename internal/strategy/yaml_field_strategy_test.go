package strategy

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sap-gg/ftctl/internal/document"
)

func TestYAMLFieldStrategy(t *testing.T) {
	ctx := context.Background()

	chartYAML := `apiVersion: v2
name: demo
description: A Helm chart for Kubernetes
type: application
version: 0.1.0
appVersion: "0.1.0"
`
	valuesYAML := `replicaCount: 1
# container image
image:
  repository: registry.example.com/demo
  tag: "0.1.0"
`

	t.Run("should set a top-level field", func(t *testing.T) {
		strategy := &YAMLFieldStrategy{}
		out, err := strategy.Apply(ctx, []byte(chartYAML), "appVersion", "1.2.3")
		require.NoError(t, err)

		content := string(out)
		assert.Contains(t, content, "appVersion: 1.2.3") // Overwritten
		assert.Contains(t, content, "version: 0.1.0")    // Unchanged
		assert.Contains(t, content, "name: demo")        // Unchanged
	})

	t.Run("should set a nested field", func(t *testing.T) {
		strategy := &YAMLFieldStrategy{}
		out, err := strategy.Apply(ctx, []byte(valuesYAML), "image.tag", "1.2.3")
		require.NoError(t, err)

		doc, err := document.Decode(ctx, out)
		require.NoError(t, err)
		tag, _ := doc.Lookup("image.tag")
		assert.Equal(t, "1.2.3", tag)
		repo, _ := doc.Lookup("image.repository")
		assert.Equal(t, "registry.example.com/demo", repo)
	})

	t.Run("should fail without the parent mapping", func(t *testing.T) {
		strategy := &YAMLFieldStrategy{}
		_, err := strategy.Apply(ctx, []byte("replicaCount: 1\n"), "image.tag", "1.2.3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("should fail on malformed YAML", func(t *testing.T) {
		strategy := &YAMLFieldStrategy{}
		_, err := strategy.Apply(ctx, []byte(": not yaml :::"), "appVersion", "1.2.3")
		require.Error(t, err)
	})

	t.Run("should keep comments when preserving format", func(t *testing.T) {
		strategy := &YAMLFieldStrategy{PreserveFormat: true}
		out, err := strategy.Apply(ctx, []byte(valuesYAML), "image.tag", "1.2.3")
		require.NoError(t, err)

		content := string(out)
		assert.Contains(t, content, "# container image")
		assert.Contains(t, content, "1.2.3")
	})

	t.Run("should add a missing field when preserving format", func(t *testing.T) {
		strategy := &YAMLFieldStrategy{PreserveFormat: true}
		out, err := strategy.Apply(ctx, []byte("name: demo\n"), "appVersion", "1.2.3")
		require.NoError(t, err)
		assert.Contains(t, string(out), "appVersion: 1.2.3")
	})

	t.Run("should fall back to re-encoding for an anchored field", func(t *testing.T) {
		strategy := &YAMLFieldStrategy{PreserveFormat: true}
		out, err := strategy.Apply(ctx, []byte("image:\n  tag: &t 0.1.0\nsidecar:\n  tag: *t\n"), "image.tag", "1.2.3")
		require.NoError(t, err)

		doc, err := document.Decode(ctx, out)
		require.NoError(t, err, string(out))
		tag, _ := doc.Lookup("image.tag")
		assert.Equal(t, "1.2.3", tag)
		sidecar, _ := doc.Lookup("sidecar.tag")
		assert.Equal(t, "0.1.0", sidecar)
	})

	t.Run("should keep a trailing comment when preserving format", func(t *testing.T) {
		strategy := &YAMLFieldStrategy{PreserveFormat: true}
		out, err := strategy.Apply(ctx, []byte("name: demo\nappVersion: 0.1.0 # trailing\n"), "appVersion", "1.2.3")
		require.NoError(t, err)
		assert.Contains(t, string(out), "appVersion: 1.2.3 # trailing")
	})

	t.Run("should reject binary values when re-encoding", func(t *testing.T) {
		strategy := &YAMLFieldStrategy{}
		_, err := strategy.Apply(ctx, []byte("cert: !!binary aGVsbG8=\nappVersion: 0.1.0\n"), "appVersion", "1.2.3")
		require.ErrorIs(t, err, document.ErrUnsupportedTag)
	})

	for _, preserve := range []bool{false, true} {
		for _, tc := range []struct {
			name      string
			src       string
			untouched map[string]any
		}{
			{
				name:      "flow mappings",
				src:       "image: {repository: nginx, tag: \"0.1.0\"}\nresources: {limits: {cpu: 100m}}\n",
				untouched: map[string]any{"image.repository": "nginx", "resources.limits.cpu": "100m"},
			},
			{
				name:      "aliases",
				src:       "defaults: &d\n  pullPolicy: Always\nimage:\n  tag: \"0.1.0\"\n  settings: *d\n",
				untouched: map[string]any{"defaults.pullPolicy": "Always", "image.settings.pullPolicy": "Always"},
			},
			{
				name:      "anchored tag",
				src:       "image:\n  tag: &t 0.1.0\nsidecar:\n  tag: *t\n",
				untouched: map[string]any{"sidecar.tag": "0.1.0"},
			},
			{
				name:      "string tags",
				src:       "image:\n  tag: \"0.1.0\"\nport: !!str 8080\n",
				untouched: map[string]any{"port": "8080"},
			},
		} {
			name := fmt.Sprintf("should keep untouched values with %s (preserve format %t)", tc.name, preserve)
			t.Run(name, func(t *testing.T) {
				strategy := &YAMLFieldStrategy{PreserveFormat: preserve}
				out, err := strategy.Apply(ctx, []byte(tc.src), "image.tag", "1.2.3")
				require.NoError(t, err)

				doc, err := document.Decode(ctx, out)
				require.NoError(t, err, string(out))
				tag, _ := doc.Lookup("image.tag")
				assert.Equal(t, "1.2.3", tag)
				for path, want := range tc.untouched {
					got, ok := doc.Lookup(path)
					require.True(t, ok, path)
					assert.Equal(t, want, got, path)
				}
			})
		}
	}
}
