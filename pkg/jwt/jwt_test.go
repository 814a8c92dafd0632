package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests"

func newTestSigner(t *testing.T, expMinutes int) *Signer {
	t.Helper()
	s, err := NewSigner(testSecret, "hortti-test", expMinutes)
	require.NoError(t, err)
	return s
}

func TestNewSigner_SecretVacio(t *testing.T) {
	_, err := NewSigner("", "hortti", 60)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestSigner_SignAndVerify_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		email  string
		role   string
	}{
		{"admin", 1, "admin@hortti.com", "admin"},
		{"usuario con +tag", 42, "ana+feria@hortti.com", "user"},
		{"id grande", 9_007_199_254_740_993, "big@hortti.com", "user"},
	}
	s := newTestSigner(t, 60)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := s.Sign(tt.userID, tt.email, tt.role)
			require.NoError(t, err)

			claims, err := s.Verify(tok)
			require.NoError(t, err)

			id, err := claims.UserID()
			require.NoError(t, err)
			assert.Equal(t, tt.userID, id)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, "hortti-test", claims.Issuer)
		})
	}
}

func TestSigner_Sign_Expiracion(t *testing.T) {
	s := newTestSigner(t, 120)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	tok, err := s.Sign(1, "a@b.com", "user")
	require.NoError(t, err)

	claims, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, fixed.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixed.Add(120*time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestSigner_Verify_TokenExpirado(t *testing.T) {
	s := newTestSigner(t, -1)
	tok, err := s.Sign(1, "a@b.com", "user")
	require.NoError(t, err)

	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestSigner_Verify_SecretIncorrecto(t *testing.T) {
	tok, err := newTestSigner(t, 60).Sign(1, "a@b.com", "user")
	require.NoError(t, err)

	other, err := NewSigner("otro-secret-completamente-distinto", "hortti-test", 60)
	require.NoError(t, err)

	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, gojwt.ErrTokenSignatureInvalid)
}

func TestSigner_Verify_TokenManipulado(t *testing.T) {
	s := newTestSigner(t, 60)
	tok, err := s.Sign(1, "user@hortti.com", "user")
	require.NoError(t, err)

	// Reemplazar el payload por uno con role=admin manteniendo la firma original.
	forged, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "hortti-test",
			Subject:   "1",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "user@hortti.com",
		Role:  "admin",
	}).SignedString([]byte("clave-del-atacante"))
	require.NoError(t, err)
	parts := strings.Split(tok, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = s.Verify(tampered)
	assert.Error(t, err)
}

func TestSigner_Verify_AlgNone(t *testing.T) {
	s := newTestSigner(t, 60)
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "hortti-test",
			Subject:   "1",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "admin",
	}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.Verify(tok)
	assert.Error(t, err)
}

func TestSigner_Verify_EmisorDistinto(t *testing.T) {
	other, err := NewSigner(testSecret, "otro-emisor", 60)
	require.NoError(t, err)
	tok, err := other.Sign(1, "a@b.com", "user")
	require.NoError(t, err)

	_, err = newTestSigner(t, 60).Verify(tok)
	assert.ErrorIs(t, err, gojwt.ErrTokenInvalidIssuer)
}

func TestSigner_Verify_Malformado(t *testing.T) {
	_, err := newTestSigner(t, 60).Verify("token.invalido.aqui")
	assert.ErrorIs(t, err, gojwt.ErrTokenMalformed)
}
