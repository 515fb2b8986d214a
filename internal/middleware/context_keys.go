package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// tenantIDKey is the key used to store the request tenant in the Gin context.
const tenantIDKey = contextKey("tenantID")

// actorIDKey is the key used to store the acting user in the Gin context.
const actorIDKey = contextKey("actorID")

const (
	tenantHeader = "X-Tenant-ID"
	actorHeader  = "X-Actor-ID"
)

// TenantContext extracts the tenant and actor identifiers from the request
// headers and stores them in the context. Requests without a tenant are
// rejected; every route in the API is tenant-scoped.
func TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(tenantHeader)
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + tenantHeader + " header"})
			return
		}
		c.Set(string(tenantIDKey), tenantID)

		actorID := c.GetHeader(actorHeader)
		if actorID == "" {
			actorID = "system"
		}
		c.Set(string(actorIDKey), actorID)

		c.Next()
	}
}

// GetTenantIDFromContext retrieves the request tenant from the Gin context.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	tenantVal, exists := c.Get(string(tenantIDKey))
	if !exists {
		return "", false
	}
	tenantID, ok := tenantVal.(string)
	if !ok {
		return "", false
	}
	return tenantID, true
}

// GetActorIDFromContext retrieves the acting user from the Gin context.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorVal, exists := c.Get(string(actorIDKey))
	if !exists {
		return "", false
	}
	actorID, ok := actorVal.(string)
	if !ok {
		return "", false
	}
	return actorID, true
}
