package controller

import (
	"masteryloop_backend/internal/catalog"
	"masteryloop_backend/internal/service"
	"masteryloop_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

type SaveSettingsRequest struct {
	Theme         string `json:"theme" binding:"required,oneof=light dark"`
	Notifications bool   `json:"notifications"`
}

// FocusQuote godoc
// @Summary Today's focus quote
// @Tags dashboard
// @Produce json
// @Success 200 {object} util.Response{data=model.FocusQuote}
// @Router /api/dashboard/quote [get]
func (c *DashboardController) FocusQuote(ctx *gin.Context) {
	quote, err := c.DashboardService.FocusQuote()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quote)
}

// LearningPath godoc
// @Summary Ordered learning path with lock states
// @Tags dashboard
// @Produce json
// @Success 200 {object} util.Response{data=[]service.PathEntryView}
// @Router /api/dashboard/path [get]
func (c *DashboardController) LearningPath(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	entries, err := c.DashboardService.LearningPath(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// Settings godoc
// @Summary Current user settings
// @Tags settings
// @Produce json
// @Success 200 {object} util.Response{data=model.Settings}
// @Router /api/settings [get]
func (c *DashboardController) Settings(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	settings, err := c.DashboardService.Settings(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}

// SaveSettings godoc
// @Summary Save user settings
// @Tags settings
// @Accept json
// @Produce json
// @Param body body SaveSettingsRequest true "settings"
// @Success 200 {object} util.Response{data=model.Settings}
// @Router /api/settings [put]
func (c *DashboardController) SaveSettings(ctx *gin.Context) {
	var req SaveSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	settings, err := c.DashboardService.SaveSettings(user.UserID, req.Theme, req.Notifications)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}

// Subjects godoc
// @Summary Bundled subject catalog
// @Tags catalog
// @Produce json
// @Success 200 {object} util.Response{data=[]catalog.Subject}
// @Router /api/subjects [get]
func (c *DashboardController) Subjects(ctx *gin.Context) {
	util.Success(ctx, catalog.Subjects())
}

// Subject godoc
// @Summary One subject with its ordered concepts
// @Tags catalog
// @Produce json
// @Param id path string true "subject id"
// @Success 200 {object} util.Response{data=catalog.Subject}
// @Failure 404 {object} util.Response
// @Router /api/subjects/{id} [get]
func (c *DashboardController) Subject(ctx *gin.Context) {
	subject := catalog.GetSubject(ctx.Param("id"))
	if subject == nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, subject)
}
