package controller

import (
	"errors"

	"masteryloop_backend/internal/service"
	"masteryloop_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FlowController struct {
	FlowService *service.FlowService
}

func NewFlowController(flowService *service.FlowService) *FlowController {
	return &FlowController{FlowService: flowService}
}

// StartFlowRequest opens or resumes a mastery loop.
type StartFlowRequest struct {
	SubjectID    string `json:"subjectId" binding:"required"`
	SubConceptID string `json:"subConceptId"`
}

// SubmitQuizRequest carries a full quiz submission.
type SubmitQuizRequest struct {
	SubjectID        string      `json:"subjectId" binding:"required"`
	MCQAnswers       map[int]int `json:"mcqAnswers" binding:"required"`
	ConceptualAnswer string      `json:"conceptualAnswer"`
}

// SubjectRequest names the subject for a flow transition.
type SubjectRequest struct {
	SubjectID string `json:"subjectId" binding:"required"`
}

// ConceptCheckRequest is the MCQ-only gate submission.
type ConceptCheckRequest struct {
	Answers map[int]int `json:"answers" binding:"required"`
}

// Start godoc
// @Summary Open or resume an adaptive learning flow
// @Tags flow
// @Accept json
// @Produce json
// @Param body body StartFlowRequest true "subject and optional starting concept"
// @Success 200 {object} util.Response{data=service.FlowView}
// @Failure 404 {object} util.Response
// @Router /api/flow/start [post]
func (c *FlowController) Start(ctx *gin.Context) {
	var req StartFlowRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	view, err := c.FlowService.Start(user.UserID, req.SubjectID, req.SubConceptID)
	if err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}

// View godoc
// @Summary Current flow snapshot without a transition
// @Tags flow
// @Produce json
// @Param subjectId query string true "subject id"
// @Success 200 {object} util.Response{data=service.FlowView}
// @Router /api/flow [get]
func (c *FlowController) View(ctx *gin.Context) {
	subjectID := ctx.Query("subjectId")
	if subjectID == "" {
		util.BadRequest(ctx, "subjectId is required")
		return
	}

	user := util.GetUserFromContext(ctx)
	view, err := c.FlowService.View(user.UserID, subjectID)
	if err != nil {
		c.flowError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Practice godoc
// @Summary Move from explanation to the quiz
// @Tags flow
// @Accept json
// @Produce json
// @Param body body SubjectRequest true "subject id"
// @Success 200 {object} util.Response{data=service.FlowView}
// @Router /api/flow/practice [post]
func (c *FlowController) Practice(ctx *gin.Context) {
	var req SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	view, err := c.FlowService.Practice(user.UserID, req.SubjectID)
	if err != nil {
		c.flowError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Submit godoc
// @Summary Submit quiz answers for evaluation
// @Tags flow
// @Accept json
// @Produce json
// @Param body body SubmitQuizRequest true "answers"
// @Success 200 {object} util.Response{data=service.FlowView}
// @Failure 400 {object} util.Response "incomplete answers"
// @Router /api/flow/submit [post]
func (c *FlowController) Submit(ctx *gin.Context) {
	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	answers := service.QuizAnswers{
		MCQAnswers:       req.MCQAnswers,
		ConceptualAnswer: req.ConceptualAnswer,
	}
	view, err := c.FlowService.Submit(ctx.Request.Context(), user.UserID, req.SubjectID, answers)
	if err != nil {
		c.flowError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Continue godoc
// @Summary Apply the results decision: advance or reteach
// @Tags flow
// @Accept json
// @Produce json
// @Param body body SubjectRequest true "subject id"
// @Success 200 {object} util.Response{data=service.FlowView}
// @Router /api/flow/continue [post]
func (c *FlowController) Continue(ctx *gin.Context) {
	var req SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	view, err := c.FlowService.Continue(user.UserID, req.SubjectID)
	if err != nil {
		c.flowError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Retry godoc
// @Summary Retry the quiz after a reteach
// @Tags flow
// @Accept json
// @Produce json
// @Param body body SubjectRequest true "subject id"
// @Success 200 {object} util.Response{data=service.FlowView}
// @Router /api/flow/retry [post]
func (c *FlowController) Retry(ctx *gin.Context) {
	var req SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	view, err := c.FlowService.Retry(user.UserID, req.SubjectID)
	if err != nil {
		c.flowError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// ConceptCheck godoc
// @Summary Score the concept check gate
// @Tags flow
// @Accept json
// @Produce json
// @Param body body ConceptCheckRequest true "answers keyed by question index"
// @Success 200 {object} util.Response{data=service.ConceptCheckResult}
// @Router /api/flow/concept-check [post]
func (c *FlowController) ConceptCheck(ctx *gin.Context) {
	var req ConceptCheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, c.FlowService.EvaluateConceptCheck(req.Answers))
}

func (c *FlowController) flowError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrNoActiveFlow), errors.Is(err, util.ErrSubjectNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrFlowCompleted):
		util.Conflict(ctx, "flow already completed")
	case errors.Is(err, util.ErrInvalidTransition):
		util.Conflict(ctx, "transition not allowed from current state")
	case errors.Is(err, util.ErrIncompleteAnswers):
		util.BadRequest(ctx, "all multiple-choice questions must be answered")
	default:
		util.LogInternalError(ctx, err)
	}
}
