package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// GenerateOpaqueToken genera un token opaco aleatorio (base64url sin padding).
func GenerateOpaqueToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SHA256Base64URL devuelve sha256(input) en base64url sin padding.
func SHA256Base64URL(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// S256Challenge deriva el code_challenge PKCE a partir del code_verifier
// según RFC 7636: base64url(sha256(verifier)) sin padding.
// El verifier crudo viaja únicamente al token endpoint, nunca al authorize.
func S256Challenge(verifier string) string {
	return SHA256Base64URL(verifier)
}

// ConstantTimeEquals compara dos strings en tiempo constante.
// Usar para comparar tokens secretos (state, session ids, API keys).
func ConstantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
