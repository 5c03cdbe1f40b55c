package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOpts = Options{Secret: []byte("test-secret"), Alg: "HS256", TTL: time.Hour}

func TestGenerateVerifyRoundtrip(t *testing.T) {
	token, exp, err := Generate(testOpts, "user-1", "admin")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := Verify(testOpts, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _, err := Generate(testOpts, "user-1", "employee")
	require.NoError(t, err)

	other := Options{Secret: []byte("other-secret"), Alg: "HS256", TTL: time.Hour}
	_, err = Verify(other, token)
	assert.Error(t, err)
}

func TestVerifyRejectsTampering(t *testing.T) {
	token, _, err := Generate(testOpts, "user-1", "employee")
	require.NoError(t, err)

	_, err = Verify(testOpts, token+"x")
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	opts := testOpts
	opts.TTL = time.Nanosecond
	token, _, err := Generate(opts, "user-1", "employee")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = Verify(testOpts, token)
	assert.Error(t, err)
}

func TestUnsupportedAlg(t *testing.T) {
	opts := Options{Secret: []byte("s"), Alg: "RS256"}
	_, _, err := Generate(opts, "user-1", "admin")
	assert.Error(t, err)
}
