package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ravenridge/questforge/internal/domain"
	"github.com/ravenridge/questforge/internal/present/rest/presenter"
	"github.com/ravenridge/questforge/internal/service"
	"github.com/ravenridge/questforge/internal/usecase"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	credential *service.CredentialService
	accounts   usecase.AccountRepository
}

func NewAuthMiddleware(
	credential *service.CredentialService,
	accounts usecase.AccountRepository,
) *AuthMiddleware {
	return &AuthMiddleware{
		credential: credential,
		accounts:   accounts,
	}
}

// RequireIdentity authenticates the request and stores the requester's
// account id in the request context. An explicitly-but-badly-authenticated
// request is a client error, never an anonymous fallback; a credential for a
// deleted account additionally tells the client to drop it.
func (m *AuthMiddleware) RequireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.RequireIdentity")
		defer span.End()

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return presenter.Unauthorized(c, "credential required")
		}

		accountID, err := m.credential.VerifyCredential(ctx, authHeader)
		if err != nil {
			span.RecordError(errors.Wrap(err, "AuthMiddleware.RequireIdentity: credential verification failed"))
			return presenter.Unauthorized(c, "invalid credential")
		}

		account, err := m.accounts.FindByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				span.RecordError(domain.IdentityError{AccountID: accountID})
				return presenter.UnauthorizedClearCredential(c, "credential account does not exist")
			}
			return presenter.InternalError(c, err)
		}

		ctx = context.WithValue(ctx, domain.RequesterIdCtxKey, account.ID)
		span.SetAttributes(attribute.Int64("RequesterId", account.ID))
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
