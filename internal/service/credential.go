package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/ravenridge/questforge/internal/domain"
)

var tracer = otel.Tracer("credential")

// CredentialService verifies and issues bearer tokens. The signing secret is
// injected at construction; request handling never reaches into the process
// environment.
type CredentialService struct {
	secret []byte
	issuer string
	expiry time.Duration
}

func NewCredentialService(conf domain.AuthConfig) *CredentialService {
	return &CredentialService{
		secret: []byte(conf.Secret),
		issuer: conf.Issuer,
		expiry: conf.TokenExpiry,
	}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	AccountID int64 `json:"accountId"`
}

// VerifyCredential decodes a raw authorization header value into the account
// identifier it asserts. An absent credential is the caller's concern; a
// present one must be `Bearer <token>` and pass signature and expiry checks.
func (s *CredentialService) VerifyCredential(ctx context.Context, raw string) (int64, error) {
	_, span := tracer.Start(ctx, "Credential.Service.Verify")
	defer span.End()

	split := strings.Split(raw, " ")
	if len(split) != 2 {
		err := domain.CredentialError{Reason: "malformed authorization header"}
		span.RecordError(err)
		return 0, err
	}

	authType, token := split[0], split[1]
	if authType != "Bearer" {
		err := domain.CredentialError{Reason: "only Bearer is acceptable"}
		span.RecordError(err)
		return 0, err
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		span.RecordError(errors.Wrap(err, "jwt validation failed"))
		return 0, domain.CredentialError{Reason: "token validation failed"}
	}

	if claims.AccountID == 0 {
		err := domain.CredentialError{Reason: "token carries no account"}
		span.RecordError(err)
		return 0, err
	}

	return claims.AccountID, nil
}

// IssueToken signs a fresh time-bound token for the given account. Login
// itself lives outside this service; this is the signing half of the
// credential contract.
func (s *CredentialService) IssueToken(accountID int64) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		AccountID: accountID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "CredentialService.IssueToken")
	}
	return signed, nil
}
