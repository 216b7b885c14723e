package handler

import (
	"net/http"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	domainerr "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	lotteryUseCase "github.com/tzedaka-labs/donation-processor/internal/domain/usecase/lottery"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/api/dto"

	"github.com/gin-gonic/gin"
)

// LotteryHandler handles lottery-related HTTP requests
type LotteryHandler struct {
	lotteryEngine *lotteryUseCase.Engine
	logger        coreport.Logger
}

// NewLotteryHandler creates a new lottery handler instance
func NewLotteryHandler(lotteryEngine *lotteryUseCase.Engine, logger coreport.Logger) *LotteryHandler {
	return &LotteryHandler{
		lotteryEngine: lotteryEngine,
		logger:        logger,
	}
}

// Create handles the POST /lotteries endpoint
func (h *LotteryHandler) Create(c *gin.Context) {
	var req dto.CreateLotteryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid lottery request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	createReq := lotteryUseCase.CreateRequest{
		CampaignID:  req.CampaignID,
		DrawDate:    req.DrawDate,
		TicketPrice: req.TicketPrice,
		Currency:    req.Currency,
		MaxTickets:  req.MaxTickets,
	}
	for _, p := range req.Prizes {
		createReq.Prizes = append(createReq.Prizes, entityPrize(p))
	}

	lottery, err := h.lotteryEngine.Create(c.Request.Context(), createReq)
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.FromLottery(lottery))
}

// entityPrize converts a prize request into its domain form
func entityPrize(p dto.PrizeRequest) entity.Prize {
	return entity.Prize{
		Rank:        p.Rank,
		Title:       p.Title,
		Description: p.Description,
	}
}

// Get handles the GET /lotteries/:lotteryId endpoint
func (h *LotteryHandler) Get(c *gin.Context) {
	lotteryID := c.Param("lotteryId")

	lottery, err := h.lotteryEngine.GetByID(c.Request.Context(), lotteryID)
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromLottery(lottery))
}

// PurchaseTicket handles the POST /lotteries/:lotteryId/tickets endpoint
func (h *LotteryHandler) PurchaseTicket(c *gin.Context) {
	lotteryID := c.Param("lotteryId")

	donor := donorID(c)
	if donor == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Missing required header: X-Donor-ID",
		})
		return
	}

	var req dto.PurchaseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	ticket, err := h.lotteryEngine.PurchaseTicket(c.Request.Context(), lotteryID, donor, req.DonationID)
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.FromTicket(ticket))
}

// Eligibility handles the GET /lotteries/:lotteryId/eligibility endpoint
func (h *LotteryHandler) Eligibility(c *gin.Context) {
	lotteryID := c.Param("lotteryId")

	lottery, err := h.lotteryEngine.GetByID(c.Request.Context(), lotteryID)
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	eligible, err := h.lotteryEngine.IsDrawingEligible(c.Request.Context(), lotteryID)
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.EligibilityResponse{
		LotteryID:      lotteryID,
		Eligible:       eligible,
		SoldTickets:    lottery.SoldTickets,
		MinimumTickets: lottery.MinimumTickets(),
	})
}

// Draw handles the POST /lotteries/:lotteryId/draw endpoint
func (h *LotteryHandler) Draw(c *gin.Context) {
	lotteryID := c.Param("lotteryId")

	winners, err := h.lotteryEngine.Draw(c.Request.Context(), lotteryID)
	if err != nil {
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	resp := make([]dto.WinnerResponse, 0, len(winners))
	for _, w := range winners {
		resp = append(resp, dto.FromWinner(w))
	}
	c.JSON(http.StatusOK, resp)
}
