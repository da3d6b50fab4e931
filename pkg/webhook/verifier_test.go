// FILE: pkg/webhook/verifier_test.go
package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	v := NewVerifier("whsec_test")
	body := []byte(`{"event_id":"evt-1","event_type":"charge.succeeded"}`)

	sig := v.Sign(body)
	assert.Len(t, sig, 64)
	assert.True(t, v.Verify(body, sig))
}

func TestVerifyRejects(t *testing.T) {
	v := NewVerifier("whsec_test")
	body := []byte(`{"event_id":"evt-1"}`)
	sig := v.Sign(body)

	tests := []struct {
		name string
		body []byte
		sig  string
	}{
		{"tampered body", []byte(`{"event_id":"evt-2"}`), sig},
		{"truncated signature", body, sig[:32]},
		{"empty signature", body, ""},
		{"not hex", body, "zz" + sig[2:]},
		{"signature for other secret", body, NewVerifier("whsec_other").Sign(body)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, v.Verify(tt.body, tt.sig))
		})
	}
}

func TestVerifyEmptyBody(t *testing.T) {
	v := NewVerifier("whsec_test")
	sig := v.Sign(nil)
	assert.True(t, v.Verify(nil, sig))
	assert.False(t, v.Verify([]byte("x"), sig))
}
