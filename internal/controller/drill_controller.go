package controller

import (
	"errors"

	"masteryloop_backend/internal/service"
	"masteryloop_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DrillController struct {
	DrillService *service.DrillService
}

func NewDrillController(drillService *service.DrillService) *DrillController {
	return &DrillController{DrillService: drillService}
}

type DrillAnswerRequest struct {
	Question int `json:"question"`
	Selected int `json:"selected"`
}

// Start godoc
// @Summary Start a timed drill
// @Tags drills
// @Produce json
// @Success 201 {object} util.Response{data=service.DrillView}
// @Router /api/drills [post]
func (c *DrillController) Start(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	view, err := c.DrillService.Start(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// Status godoc
// @Summary Drill session status
// @Tags drills
// @Produce json
// @Param id path string true "session id"
// @Success 200 {object} util.Response{data=service.DrillView}
// @Failure 404 {object} util.Response
// @Router /api/drills/{id} [get]
func (c *DrillController) Status(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	view, err := c.DrillService.Status(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		c.drillError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Answer godoc
// @Summary Bank an answer in a running drill
// @Tags drills
// @Accept json
// @Produce json
// @Param id path string true "session id"
// @Param body body DrillAnswerRequest true "answer"
// @Success 200 {object} util.Response{data=service.DrillView}
// @Router /api/drills/{id}/answers [post]
func (c *DrillController) Answer(ctx *gin.Context) {
	var req DrillAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	view, err := c.DrillService.Answer(ctx.Request.Context(), user.UserID, ctx.Param("id"), req.Question, req.Selected)
	if err != nil {
		c.drillError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Submit godoc
// @Summary Submit a drill for scoring
// @Tags drills
// @Produce json
// @Param id path string true "session id"
// @Success 200 {object} util.Response{data=service.DrillView}
// @Router /api/drills/{id}/submit [post]
func (c *DrillController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	view, err := c.DrillService.Submit(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		c.drillError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

func (c *DrillController) drillError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrDrillNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrDrillSubmitted):
		util.Conflict(ctx, "drill already submitted")
	default:
		util.LogInternalError(ctx, err)
	}
}
