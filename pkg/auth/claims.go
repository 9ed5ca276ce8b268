package auth

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID int64
	Email  string
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients. The subject
// carries the numeric user id.
type AccessTokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID decodes the subject into a user id.
func (c *AccessTokenClaims) UserID() (int64, error) {
	if c == nil || c.Subject == "" {
		return 0, fmt.Errorf("missing subject")
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid subject %q", c.Subject)
	}
	return id, nil
}
