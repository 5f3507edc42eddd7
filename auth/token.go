package auth

import (
	"time"

	"support-chat/domain"
	"support-chat/errors"

	"github.com/golang-jwt/jwt/v5"
)

// jwtKey is the secret used to sign tokens.
// In a production environment, this should be loaded from an environment
// variable or a secret manager.
var jwtKey = []byte("my_strong_and_long_secret_key_2026")

// CustomClaims defines the structure of the data stored inside the JWT.
type CustomClaims struct {
	ParticipantID string `json:"participant_id"`
	Role          string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for a participant.
func GenerateToken(participantID string, role domain.Role,
	authTokenDuration time.Duration) (string, error) {
	expirationTime := time.Now().Add(authTokenDuration)

	claims := &CustomClaims{
		ParticipantID: participantID,
		Role:          string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "support-chat",
		},
	}

	// HS256 (HMAC with SHA256), signed with the server's secret key.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ValidateToken parses and validates the signature and expiration of a
// JWT string.
func ValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// TokenAuthenticator verifies bearer credentials and yields the stable
// participant identity they carry. It is the only authenticator this
// server ships; the rest of the system depends on the contract, not on
// JWT.
type TokenAuthenticator struct{}

func (TokenAuthenticator) Authenticate(credential string) (string, domain.Role, error) {
	if credential == "" {
		return "", "", errors.ErrInvalidCredential
	}
	claims, err := ValidateToken(credential)
	if err != nil {
		return "", "", errors.ErrInvalidCredential
	}
	role := domain.Role(claims.Role)
	if claims.ParticipantID == "" || !role.Valid() {
		return "", "", errors.ErrInvalidCredential
	}
	return claims.ParticipantID, role, nil
}
