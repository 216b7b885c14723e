package routes

import (
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/api/handler"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/api/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	donationHandler *handler.DonationHandler,
	campaignHandler *handler.CampaignHandler,
	lotteryHandler *handler.LotteryHandler,
) {
	// Donation routes
	donationRoutes := router.Group("/donations")
	{
		donationRoutes.POST("", donationHandler.Create)
		donationRoutes.GET("/:donationId", donationHandler.Get)
		donationRoutes.POST("/:donationId/submit", donationHandler.Submit)
		donationRoutes.POST("/:donationId/refund", donationHandler.Refund)
		donationRoutes.POST("/:donationId/cancel", donationHandler.Cancel)
	}

	// Campaign routes
	campaignRoutes := router.Group("/campaigns")
	{
		campaignRoutes.POST("", campaignHandler.Create)
		campaignRoutes.GET("/:campaignId", campaignHandler.Get)
	}

	// Lottery routes
	lotteryRoutes := router.Group("/lotteries")
	{
		lotteryRoutes.POST("", lotteryHandler.Create)
		lotteryRoutes.GET("/:lotteryId", lotteryHandler.Get)
		lotteryRoutes.GET("/:lotteryId/eligibility", lotteryHandler.Eligibility)
		lotteryRoutes.POST("/:lotteryId/tickets", lotteryHandler.PurchaseTicket)
		lotteryRoutes.POST("/:lotteryId/draw", lotteryHandler.Draw)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(logger))
}
