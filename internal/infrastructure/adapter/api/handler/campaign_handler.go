package handler

import (
	"net/http"

	domainerr "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	campaignUseCase "github.com/tzedaka-labs/donation-processor/internal/domain/usecase/campaign"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/api/dto"

	"github.com/gin-gonic/gin"
)

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignService *campaignUseCase.Service
	logger          coreport.Logger
}

// NewCampaignHandler creates a new campaign handler instance
func NewCampaignHandler(campaignService *campaignUseCase.Service, logger coreport.Logger) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		logger:          logger,
	}
}

// Create handles the POST /campaigns endpoint
func (h *CampaignHandler) Create(c *gin.Context) {
	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid campaign request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), campaignUseCase.CreateRequest{
		AssociationID: req.AssociationID,
		Title:         req.Title,
		GoalAmount:    req.GoalAmount,
		Currency:      req.Currency,
		IsLottery:     req.IsLottery,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	})
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.FromCampaign(campaign))
}

// Get handles the GET /campaigns/:campaignId endpoint
func (h *CampaignHandler) Get(c *gin.Context) {
	campaignID := c.Param("campaignId")

	campaign, err := h.campaignService.GetByID(c.Request.Context(), campaignID)
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromCampaign(campaign))
}
