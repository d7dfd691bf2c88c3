package controller

import (
	"strconv"

	"masteryloop_backend/internal/service"
	"masteryloop_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// Overall godoc
// @Summary Overall progress summary
// @Tags analytics
// @Produce json
// @Success 200 {object} util.Response{data=model.OverallProgress}
// @Router /api/analytics/overall [get]
func (c *AnalyticsController) Overall(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	overall, err := c.AnalyticsService.Overall(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overall)
}

// Weekly godoc
// @Summary Activity by week, last four weeks
// @Tags analytics
// @Produce json
// @Success 200 {object} util.Response{data=[]model.WeekProgress}
// @Router /api/analytics/weekly [get]
func (c *AnalyticsController) Weekly(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	weeks, err := c.AnalyticsService.Weekly(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, weeks)
}

// Monthly godoc
// @Summary Activity by month, last six months
// @Tags analytics
// @Produce json
// @Success 200 {object} util.Response{data=[]model.MonthlyData}
// @Router /api/analytics/monthly [get]
func (c *AnalyticsController) Monthly(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	months, err := c.AnalyticsService.Monthly(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, months)
}

// Recent godoc
// @Summary Latest quiz attempts
// @Tags analytics
// @Produce json
// @Param limit query int false "max rows, default 10"
// @Success 200 {object} util.Response{data=[]model.QuizResultRecord}
// @Router /api/analytics/recent [get]
func (c *AnalyticsController) Recent(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	user := util.GetUserFromContext(ctx)
	results, err := c.AnalyticsService.RecentActivity(user.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// Modules godoc
// @Summary Per-module progress rows
// @Tags analytics
// @Produce json
// @Success 200 {object} util.Response{data=[]model.ModuleProgress}
// @Router /api/analytics/modules [get]
func (c *AnalyticsController) Modules(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	rows, err := c.AnalyticsService.ModuleBreakdown(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
