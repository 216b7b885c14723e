package handler

import (
	"net/http"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	domainerr "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	donationUseCase "github.com/tzedaka-labs/donation-processor/internal/domain/usecase/donation"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/api/dto"

	"github.com/gin-gonic/gin"
)

// DonationHandler handles donation-related HTTP requests
type DonationHandler struct {
	donationService *donationUseCase.Service
	logger          coreport.Logger
}

// NewDonationHandler creates a new donation handler instance
func NewDonationHandler(donationService *donationUseCase.Service, logger coreport.Logger) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
		logger:          logger,
	}
}

// donorID extracts the authenticated donor forwarded by the identity layer.
// An empty value means the request never passed authentication.
func donorID(c *gin.Context) string {
	return c.GetHeader("X-Donor-ID")
}

// Create handles the POST /donations endpoint
func (h *DonationHandler) Create(c *gin.Context) {
	donor := donorID(c)
	if donor == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Missing required header: X-Donor-ID",
		})
		return
	}

	var req dto.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid donation request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	donation, err := h.donationService.Create(c.Request.Context(), donationUseCase.CreateRequest{
		IdempotencyKey:   req.IdempotencyKey,
		DonorID:          donor,
		AssociationID:    req.AssociationID,
		CampaignID:       req.CampaignID,
		Amount:           req.Amount,
		Currency:         req.Currency,
		Country:          req.Country,
		PaymentMethod:    entity.PaymentMethodType(req.PaymentMethod),
		IsAnonymous:      req.IsAnonymous,
		IsRecurring:      req.IsRecurring,
		IsTicketPurchase: req.IsTicketPurchase,
	})
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.FromDonation(donation))
}

// Submit handles the POST /donations/:donationId/submit endpoint
func (h *DonationHandler) Submit(c *gin.Context) {
	donationID := c.Param("donationId")

	var req dto.SubmitDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	donation, err := h.donationService.Submit(c.Request.Context(), donationID, req.MethodToken)
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromDonation(donation))
}

// Refund handles the POST /donations/:donationId/refund endpoint
func (h *DonationHandler) Refund(c *gin.Context) {
	donationID := c.Param("donationId")

	donation, err := h.donationService.Refund(c.Request.Context(), donationID)
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromDonation(donation))
}

// Cancel handles the POST /donations/:donationId/cancel endpoint
func (h *DonationHandler) Cancel(c *gin.Context) {
	donationID := c.Param("donationId")

	donation, err := h.donationService.Cancel(c.Request.Context(), donationID)
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromDonation(donation))
}

// Get handles the GET /donations/:donationId endpoint
func (h *DonationHandler) Get(c *gin.Context) {
	donationID := c.Param("donationId")

	donation, err := h.donationService.GetByID(c.Request.Context(), donationID)
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromDonation(donation))
}
