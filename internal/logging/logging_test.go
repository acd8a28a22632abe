package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactingWriter(t *testing.T) {
	t.Run("should mask every occurrence", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewRedactingWriter(&buf, []string{"s3cret"})

		in := []byte("push with s3cret, again s3cret\n")
		n, err := w.Write(in)
		require.NoError(t, err)
		assert.Equal(t, len(in), n)
		assert.Equal(t, "push with ********, again ********\n", buf.String())
	})
}

func TestNew(t *testing.T) {
	t.Run("should write JSON and redact the token", func(t *testing.T) {
		var buf bytes.Buffer
		var queue []string
		l := New(&buf, "json", true, []string{"", "ghp_token"}, &queue)

		l.Info().Str("token", "ghp_token").Msg("pushing")
		assert.Empty(t, queue)
		assert.Contains(t, buf.String(), `"token":"********"`)
		assert.NotContains(t, buf.String(), "ghp_token")
	})

	t.Run("should fall back to console on unknown formats", func(t *testing.T) {
		var buf bytes.Buffer
		var queue []string
		l := New(&buf, "xml", true, nil, &queue)

		l.Info().Msg("hello")
		require.Len(t, queue, 1)
		assert.Contains(t, queue[0], `"xml"`)
		assert.Contains(t, buf.String(), "hello")
	})
}
