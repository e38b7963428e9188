package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenTypeLearner marks tokens that identify a learner workspace.
const TokenTypeLearner = "learner"

// JWTService issues and verifies learner tokens.
//
// There is no login flow: tokens are minted out of band with cmd/issue-token
// and the learner ID inside a token selects the learner's study workspace.
type JWTService interface {
	// GenerateToken creates a signed token for the learner.
	GenerateToken(ctx context.Context, learnerID uuid.UUID) (string, error)

	// ValidateToken verifies the signature and time claims of tokenString
	// and returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims are the application-level claims carried by a learner token.
type Claims struct {
	LearnerID uuid.UUID `json:"uid,omitempty"`
	TokenType string    `json:"type,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
