package middleware

import "github.com/gin-gonic/gin"

// userIDKey and companyIDKey store the authenticated identity in the
// request context.
const (
	userIDKey    = contextKey("userID")
	companyIDKey = contextKey("companyID")
)

// GetUserIDFromContext retrieves the authenticated user ID set by the auth
// middleware. The boolean reports whether it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	v := c.Request.Context().Value(userIDKey)
	userID, ok := v.(string)
	return userID, ok && userID != ""
}

// GetCompanyIDFromContext retrieves the tenant company ID set by the auth
// middleware. The boolean reports whether it was found.
func GetCompanyIDFromContext(c *gin.Context) (string, bool) {
	v := c.Request.Context().Value(companyIDKey)
	companyID, ok := v.(string)
	return companyID, ok && companyID != ""
}
