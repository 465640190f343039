package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripsmith/internal/models/request_models"
	"tripsmith/internal/services"
	"tripsmith/pkg/utils"
)

type ConfirmationController struct {
	confirmations services.ConfirmationServiceInterface
}

func NewConfirmationController(confirmations services.ConfirmationServiceInterface) *ConfirmationController {
	return &ConfirmationController{
		confirmations: confirmations,
	}
}

// GetSession godoc
// @Summary Get a planning session
// @Description Fetch the current itinerary, confirmations, and final state of a session
// @Tags Plans
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response_models.PlanningSession
// @Failure 404 {object} utils.APIResponse
// @Router /plans/{sessionId} [get]
func (cc *ConfirmationController) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Session ID is required")
		return
	}

	session, err := cc.confirmations.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, session, "Session fetched successfully")
}

// Confirm godoc
// @Summary Confirm a trip component
// @Description Record the chosen option for flight, hotel, or carRental; confirming a flight re-derives the stay window and resets hotel/car confirmations
// @Tags Plans
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body request_models.ConfirmRequest true "Component and option id"
// @Success 200 {object} response_models.ConfirmResult
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /plans/{sessionId}/confirm [post]
func (cc *ConfirmationController) Confirm(c *gin.Context) {
	sessionID := c.Param("sessionId")

	var req request_models.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Component == "" || req.OptionID == "" {
		utils.RespondError(c, http.StatusBadRequest, "component and option_id are required")
		return
	}

	result, err := cc.confirmations.Confirm(c.Request.Context(), sessionID, req.Component, req.OptionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Component confirmed")
}

// FinalApprove godoc
// @Summary Record the final decision
// @Description Record the non-binding approval decision once every component is confirmed; no purchase is ever made
// @Tags Plans
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body request_models.FinalApprovalRequest true "Approval decision"
// @Success 200 {object} response_models.FinalApprovalResult
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /plans/{sessionId}/final-approval [post]
func (cc *ConfirmationController) FinalApprove(c *gin.Context) {
	sessionID := c.Param("sessionId")

	var req request_models.FinalApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Approved == nil {
		utils.RespondError(c, http.StatusBadRequest, "approved is required")
		return
	}

	result, err := cc.confirmations.FinalApprove(c.Request.Context(), sessionID, *req.Approved)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Final decision recorded")
}
