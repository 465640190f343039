package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripsmith/internal/models/request_models"
	"tripsmith/internal/models/response_models"
	"tripsmith/internal/services"
	"tripsmith/pkg/utils"
)

type PlanController struct {
	pipeline services.PipelineServiceInterface
}

func NewPlanController(pipeline services.PipelineServiceInterface) *PlanController {
	return &PlanController{
		pipeline: pipeline,
	}
}

// CreatePlan godoc
// @Summary Generate a trip plan
// @Description Runs the staged planning pipeline and streams progress as Server-Sent Events; the terminal event carries the session id
// @Tags Plans
// @Accept json
// @Produce text/event-stream
// @Param request body request_models.PlanRequest true "Trip preferences"
// @Success 200 {object} response_models.ProgressEvent
// @Failure 400 {object} utils.APIResponse
// @Router /plans [post]
func (pc *PlanController) CreatePlan(c *gin.Context) {
	var req request_models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if problems := req.Problems(); len(problems) > 0 {
		utils.HandleServiceError(c, &utils.ValidationError{Fields: problems})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	// The pipeline runs synchronously in this handler; the sink writes
	// events inline, so the response writer is never shared across
	// goroutines. Terminal failure events are emitted by the pipeline
	// itself before CreatePlan returns.
	sink := func(ev response_models.ProgressEvent) {
		if c.Request.Context().Err() != nil {
			return
		}
		c.SSEvent("message", ev)
		c.Writer.Flush()
	}

	if _, err := pc.pipeline.CreatePlan(c.Request.Context(), req, services.ProgressSink(sink)); err != nil {
		// The stream already carried the failure; nothing else to send.
		return
	}
}
