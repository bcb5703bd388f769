package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_Verify(t *testing.T) {
	v := NewVerifier("top-secret")
	body := []byte(`{"type":"order.created","data":{"object":{"order_id":"abc"}}}`)
	header := v.Sign(body)

	t.Run("valid signature", func(t *testing.T) {
		assert.True(t, v.Verify(body, header))
	})

	t.Run("tampered body", func(t *testing.T) {
		tampered := []byte(`{"type":"order.created","data":{"object":{"order_id":"xyz"}}}`)
		assert.False(t, v.Verify(tampered, header))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewVerifier("other-secret")
		assert.False(t, other.Verify(body, header))
	})

	t.Run("missing header", func(t *testing.T) {
		assert.False(t, v.Verify(body, ""))
	})

	t.Run("header is not base64", func(t *testing.T) {
		assert.False(t, v.Verify(body, "%%%not-base64%%%"))
	})
}

func TestVerifier_SignIsDeterministic(t *testing.T) {
	v := NewVerifier("top-secret")
	body := []byte(`{"a":1}`)

	require.Equal(t, v.Sign(body), v.Sign(body))
}

func TestVerifier_RawBodySensitivity(t *testing.T) {
	// The same JSON with different whitespace must produce a different
	// signature: verification has to run on the raw body.
	v := NewVerifier("top-secret")

	sigCompact := v.Sign([]byte(`{"a":1}`))
	sigSpaced := v.Sign([]byte(`{"a": 1}`))

	assert.NotEqual(t, sigCompact, sigSpaced)
}
