package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateResetToken creates a signed HMAC-SHA256 token that authorizes a
// password reset for one account. Delivery of the token (e.g. by email)
// is outside this system; the token itself is short-lived and verified on
// the reset path.
//
// The token includes the following standard claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the account ID encoded as a string
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus duration
//
// All parameters are required. Returns an error if any of them are empty
// or zero.
func GenerateResetToken(issuer string, accountID int64, duration time.Duration, signKey string) (string, error) {
	if issuer == "" || duration == 0 || signKey == "" {
		return "", errors.New("invalid params for generating reset token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(accountID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing reset token: %w", err)
	}

	return tokenString, nil
}

// ValidateResetToken verifies a password-reset token string and extracts
// the account id it was issued for.
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided issuer
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence and conversion to int64
func ValidateResetToken(tokenString, signKey, issuer string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("error occurred validating reset token: %w", err)
	}

	accountIDStr, err := token.Claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error occurred during getting subject from reset token: %w", err)
	}
	if accountIDStr == "" {
		return 0, errors.New("empty subject error")
	}

	accountID, err := strconv.ParseInt(accountIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error occurred during converting subject to account id: %w", err)
	}

	return accountID, nil
}
