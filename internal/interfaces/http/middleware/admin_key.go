package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/interfaces/http/dto"
)

const (
	// DefaultAdminKeyHeader is used when no header name is configured
	DefaultAdminKeyHeader = "X-Admin-Key"
	// AdminAuthorizedKey is set on the gin context once the admin key is accepted
	AdminAuthorizedKey = "admin_authorized"
)

// AdminKeyVerifier validates an admin key
type AdminKeyVerifier interface {
	Verify(key string) error
}

// RequireAdminKey aborts the request unless the header carries a valid admin key
func RequireAdminKey(verifier AdminKeyVerifier, headerName string) gin.HandlerFunc {
	if headerName == "" {
		headerName = DefaultAdminKeyHeader
	}
	return func(c *gin.Context) {
		if err := verifier.Verify(c.GetHeader(headerName)); err != nil {
			code, message := dto.ErrCodeAdminKeyInvalid, "Admin key is invalid"
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				code, message = dto.NormalizeErrorCode(domainErr.Code), domainErr.Message
			}
			c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
			return
		}
		c.Set(AdminAuthorizedKey, true)
		c.Next()
	}
}
