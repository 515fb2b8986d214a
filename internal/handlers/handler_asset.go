package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/dto"
)

// assetHandler handles HTTP requests related to fixed assets.
type assetHandler struct {
	assetService portssvc.AssetSvcFacade
}

// registerAssetRoutes registers routes related to fixed assets.
func registerAssetRoutes(rg *gin.RouterGroup, assetService portssvc.AssetSvcFacade) {
	h := &assetHandler{assetService: assetService}

	assets := rg.Group("/assets")
	{
		assets.POST("", h.createAsset)
		assets.GET("/:id", h.getAsset)
		assets.POST("/:id/capitalize", h.capitalizeAsset)
		assets.POST("/:id/depreciate", h.depreciateAsset)
	}
}

func (h *assetHandler) createAsset(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAsset", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), tenantID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "create asset")
		return
	}

	logger.Info("Fixed asset created", slog.String("asset_id", asset.AssetID), slog.String("code", asset.AssetCode))
	c.JSON(http.StatusCreated, dto.ToAssetResponse(asset))
}

func (h *assetHandler) getAsset(c *gin.Context) {
	tenantID, _, logger, ok := requestScope(c)
	if !ok {
		return
	}

	asset, err := h.assetService.GetAsset(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "get asset")
		return
	}
	c.JSON(http.StatusOK, dto.ToAssetResponse(asset))
}

func (h *assetHandler) capitalizeAsset(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	entry, err := h.assetService.Capitalize(c.Request.Context(), tenantID, c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err, "capitalize asset")
		return
	}

	logger.Info("Asset capitalized", slog.String("asset_id", c.Param("id")), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *assetHandler) depreciateAsset(c *gin.Context) {
	tenantID, actor, logger, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.DepreciateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Depreciate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	entry, err := h.assetService.Depreciate(c.Request.Context(), tenantID, c.Param("id"), req.PeriodID, actor)
	if err != nil {
		respondServiceError(c, logger, err, "depreciate asset")
		return
	}

	logger.Info("Depreciation recorded", slog.String("asset_id", c.Param("id")), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}
