package controller

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	"masteryloop_backend/internal/model"
	"masteryloop_backend/internal/service"
	"masteryloop_backend/internal/util"
	"masteryloop_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxResumeSize = 8 << 20 // 8 MiB

type CareerController struct {
	CareerService *service.CareerService
	Storage       service.StorageProvider
}

func NewCareerController(careerService *service.CareerService, storage service.StorageProvider) *CareerController {
	return &CareerController{CareerService: careerService, Storage: storage}
}

// Profile godoc
// @Summary Current career profile
// @Tags career
// @Produce json
// @Success 200 {object} util.Response{data=model.CareerProfile}
// @Failure 404 {object} util.Response "no profile yet"
// @Router /api/career/profile [get]
func (c *CareerController) Profile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	profile, err := c.CareerService.Get(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrProfileNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, profile)
}

// SaveProfile godoc
// @Summary Save the career profile
// @Tags career
// @Accept json
// @Produce json
// @Param body body model.CareerProfile true "profile"
// @Success 200 {object} util.Response{data=model.CareerProfile}
// @Router /api/career/profile [put]
func (c *CareerController) SaveProfile(ctx *gin.Context) {
	var profile model.CareerProfile
	if err := ctx.ShouldBindJSON(&profile); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	if err := c.CareerService.Save(user.UserID, &profile); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, &profile)
}

// AnalyzeResume godoc
// @Summary Upload a resume and generate a gap analysis
// @Tags career
// @Accept multipart/form-data
// @Produce json
// @Param resume formData file true "resume file (pdf or text)"
// @Param targetRole formData string true "target role"
// @Success 200 {object} util.Response{data=model.CareerProfile}
// @Router /api/career/analyze [post]
func (c *CareerController) AnalyzeResume(ctx *gin.Context) {
	targetRole := ctx.PostForm("targetRole")
	if targetRole == "" {
		util.BadRequest(ctx, "targetRole is required")
		return
	}

	fileHeader, err := ctx.FormFile("resume")
	if err != nil {
		util.BadRequest(ctx, "resume file is required")
		return
	}
	if fileHeader.Size > maxResumeSize {
		util.BadRequest(ctx, "resume file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxResumeSize))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	user := util.GetUserFromContext(ctx)

	// Archive the original upload; analysis proceeds even if this fails.
	storedName := "resumes/" + uuid.NewString() + "-" + fileHeader.Filename
	if _, err := c.Storage.Upload(ctx.Request.Context(), storedName, bytes.NewReader(data), int64(len(data)), fileHeader.Header.Get("Content-Type")); err != nil {
		logger.Log.Warn("resume archive failed", zap.String("file", fileHeader.Filename), zap.Error(err))
	}

	profile, err := c.CareerService.AnalyzeResume(ctx.Request.Context(), user.UserID, data, fileHeader.Filename, targetRole)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// ListSprintTasks godoc
// @Summary List sprint tasks
// @Tags career
// @Produce json
// @Param page query int false "Page number, starting at 1" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse{list=[]model.SprintTask}}
// @Router /api/career/sprint [get]
func (c *CareerController) ListSprintTasks(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	tasks, total, err := c.CareerService.ListSprintTasks(user.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:  tasks,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// CreateSprintTask godoc
// @Summary Create a sprint task
// @Tags career
// @Accept json
// @Produce json
// @Param body body service.SprintTaskInput true "task"
// @Success 201 {object} util.Response{data=model.SprintTask}
// @Router /api/career/sprint [post]
func (c *CareerController) CreateSprintTask(ctx *gin.Context) {
	var input service.SprintTaskInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	task, err := c.CareerService.CreateSprintTask(user.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, task)
}

type UpdateSprintStatusRequest struct {
	Status model.SprintTaskStatus `json:"status" binding:"required"`
}

// UpdateSprintTask godoc
// @Summary Update a sprint task's status
// @Tags career
// @Accept json
// @Produce json
// @Param id path int true "task id"
// @Param body body UpdateSprintStatusRequest true "new status"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/career/sprint/{id} [patch]
func (c *CareerController) UpdateSprintTask(ctx *gin.Context) {
	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid task id")
		return
	}

	var req UpdateSprintStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	if err := c.CareerService.UpdateSprintTaskStatus(user.UserID, uint(taskID), req.Status); err != nil {
		switch {
		case errors.Is(err, util.ErrSprintTaskNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidTransition):
			util.BadRequest(ctx, "invalid status")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"id": taskID, "status": req.Status})
}

// DeleteSprintTask godoc
// @Summary Delete a sprint task
// @Tags career
// @Produce json
// @Param id path int true "task id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/career/sprint/{id} [delete]
func (c *CareerController) DeleteSprintTask(ctx *gin.Context) {
	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid task id")
		return
	}

	user := util.GetUserFromContext(ctx)
	if err := c.CareerService.DeleteSprintTask(user.UserID, uint(taskID)); err != nil {
		if errors.Is(err, util.ErrSprintTaskNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"id": taskID})
}
