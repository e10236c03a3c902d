package video

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StreamTokens issues user tokens for the Stream video SDK. Stream accepts
// HS256 tokens signed with the app secret carrying a string user_id claim.
type StreamTokens struct {
	apiKey string
	secret []byte
}

func NewStreamTokens(apiKey, secret string) *StreamTokens {
	return &StreamTokens{apiKey: apiKey, secret: []byte(secret)}
}

func (s *StreamTokens) APIKey() string {
	return s.apiKey
}

func (s *StreamTokens) Issue(userID uint, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": strconv.FormatUint(uint64(userID), 10),
		"iat":     issuedAt.Unix(),
		"exp":     expiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
