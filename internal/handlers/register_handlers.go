package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/middleware"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	registerValidations()

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Tenant provisioning happens before a tenant exists, so it sits outside
	// the tenant-scoped group.
	registerTenantRoutes(r.Group("/api/v1"), services.Tenant)

	v1 := r.Group("/api/v1", middleware.TenantContext())
	registerAccountRoutes(v1, services.Account)
	registerPeriodRoutes(v1, services.Period)
	registerJournalRoutes(v1, services.Posting)
	registerInvoiceRoutes(v1, services.Invoice)
	registerBillRoutes(v1, services.Bill)
	registerBankingRoutes(v1, services.Banking, services.Payment)
	registerAssetRoutes(v1, services.Asset)
	registerPartyRoutes(v1, services.Party)
}
