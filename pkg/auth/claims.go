package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/elevate-hq/elevate-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	OrgID     *uuid.UUID
	StudentID *uuid.UUID
	Role      enums.MemberRole
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID    uuid.UUID        `json:"user_id"`
	OrgID     *uuid.UUID       `json:"org_id,omitempty"`
	StudentID *uuid.UUID       `json:"student_id,omitempty"`
	Role      enums.MemberRole `json:"role"`
	jwt.RegisteredClaims
}
