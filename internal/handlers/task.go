package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/office-task-api/internal/constants"
	"github.com/yukikurage/office-task-api/internal/dto"
	apierrors "github.com/yukikurage/office-task-api/internal/errors"
	"github.com/yukikurage/office-task-api/internal/models"
	"github.com/yukikurage/office-task-api/internal/services"
	"github.com/yukikurage/office-task-api/internal/uploads"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService *services.TaskService
	uploads     *uploads.Store
	logger      *zap.Logger
}

func NewTaskHandler(taskService *services.TaskService, store *uploads.Store, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		uploads:     store,
		logger:      logger,
	}
}

// ListTasks returns every task with officers resolved to display names
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.List()
	if err != nil {
		h.respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskDTOs(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(id)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(task.Task, task.Officers))
}

// CreateTask accepts JSON or a multipart form with an optional document
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Name            string `json:"name" form:"name"`
		Description     string `json:"description" form:"description"`
		AssignedOfficer string `json:"assignedOfficer" form:"assignedOfficer"`
		Deadline        string `json:"deadline" form:"deadline"`
		LeadDays        int    `json:"leadDays" form:"leadDays" binding:"min=0"`
		Link            string `json:"link" form:"link"`
	}

	document, ok := h.formFile(c, constants.UploadFormField)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	documentURL, ok := h.save(c, document)
	if !ok {
		return
	}

	task, err := h.taskService.Create(services.CreateTaskInput{
		Name:            req.Name,
		Description:     req.Description,
		AssignedOfficer: req.AssignedOfficer,
		Deadline:        req.Deadline,
		LeadDays:        req.LeadDays,
		Link:            req.Link,
		DocumentURL:     documentURL,
	})
	if err != nil {
		discardUploads(h.logger, h.uploads, documentURL)
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(task.Task, task.Officers))
}

// UpdateTask merges the submitted fields over the stored task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Name            *string            `json:"name" form:"name"`
		Description     *string            `json:"description" form:"description"`
		Status          *models.TaskStatus `json:"status" form:"status"`
		AssignedOfficer *string            `json:"assignedOfficer" form:"assignedOfficer"`
		Deadline        *string            `json:"deadline" form:"deadline"`
		Link            *string            `json:"link" form:"link"`
		Content         *string            `json:"content" form:"content"`
		Progress        *int               `json:"progress" form:"progress"`
	}

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	document, ok := h.formFile(c, constants.UploadFormField)
	if !ok {
		return
	}
	completion, ok := h.formFile(c, constants.CompletionUploadFormField)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	documentURL, ok := h.save(c, document)
	if !ok {
		return
	}
	completionURL, ok := h.save(c, completion)
	if !ok {
		discardUploads(h.logger, h.uploads, documentURL)
		return
	}

	task, err := h.taskService.Update(id, services.UpdateTaskInput{
		Name:                  req.Name,
		Description:           req.Description,
		Status:                req.Status,
		AssignedOfficer:       req.AssignedOfficer,
		Deadline:              req.Deadline,
		Link:                  req.Link,
		Content:               req.Content,
		Progress:              req.Progress,
		DocumentURL:           documentURL,
		CompletionDocumentURL: completionURL,
	})
	if err != nil {
		discardUploads(h.logger, h.uploads, documentURL, completionURL)
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task.Task, task.Officers))
}

// SaveContent overwrites the task body
func (h *TaskHandler) SaveContent(c *gin.Context) {
	type SaveContentRequest struct {
		Content *string `json:"content" binding:"required"`
	}

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req SaveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "content is required")
		return
	}

	task, err := h.taskService.SaveContent(id, *req.Content)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(task.Task, task.Officers))
}

// SaveProgress overwrites the task progress
func (h *TaskHandler) SaveProgress(c *gin.Context) {
	type SaveProgressRequest struct {
		Progress *int `json:"progress" binding:"required"`
	}

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req SaveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "progress must be a number between 0 and 100")
		return
	}

	task, err := h.taskService.SaveProgress(id, *req.Progress)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(task.Task, task.Officers))
}

// DelegateTask appends an officer to the task's assignees
func (h *TaskHandler) DelegateTask(c *gin.Context) {
	type DelegateRequest struct {
		NewOfficer string `json:"newOfficer" binding:"required"`
	}

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req DelegateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "newOfficer is required")
		return
	}

	task, err := h.taskService.Delegate(id, req.NewOfficer)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(task.Task, task.Officers))
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(id); err != nil {
		h.respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// SuggestTasks drafts tasks from a circular or memo using AI
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	type SuggestRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		apierrors.BadRequest(c, "text is required")
		return
	}

	suggestions, err := h.taskService.Suggest(c.Request.Context(), req.Text)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// formFile reads an optional upload field; ok is false when a response was written.
func (h *TaskHandler) formFile(c *gin.Context, field string) (*multipart.FileHeader, bool) {
	fh, err := h.uploads.FormFile(c, field)
	if err != nil {
		respondUploadError(c, h.logger, h.uploads, err)
		return nil, false
	}
	return fh, true
}

func (h *TaskHandler) save(c *gin.Context, fh *multipart.FileHeader) (*string, bool) {
	if fh == nil {
		return nil, true
	}
	url, err := h.uploads.Save(fh)
	if err != nil {
		respondUploadError(c, h.logger, h.uploads, err)
		return nil, false
	}
	return &url, true
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskNameRequired),
		errors.Is(err, services.ErrOfficerRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidProgress),
		errors.Is(err, services.ErrInvalidDeadline),
		errors.Is(err, services.ErrInvalidLeadDays):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.InvalidOperation(c, err.Error())
	default:
		h.logger.Error("task request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		apierrors.InternalError(c, "Internal server error")
	}
}

func parseTaskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return id, true
}

func toTaskDTOs(tasks []services.ResolvedTask) []dto.TaskDTO {
	dtos := make([]dto.TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		dtos = append(dtos, dto.ToTaskDTO(task.Task, task.Officers))
	}
	return dtos
}

// discardUploads removes files saved for a request that failed afterwards.
func discardUploads(logger *zap.Logger, store *uploads.Store, urls ...*string) {
	for _, url := range urls {
		if url == nil {
			continue
		}
		if err := store.Remove(*url); err != nil {
			logger.Warn("failed to remove orphaned upload", zap.String("url", *url), zap.Error(err))
		}
	}
}

func respondUploadError(c *gin.Context, logger *zap.Logger, store *uploads.Store, err error) {
	switch {
	case errors.Is(err, uploads.ErrFileTooLarge):
		apierrors.UploadFailed(c, store.TooLargeMessage())
	case errors.Is(err, uploads.ErrUnsupportedType):
		apierrors.UploadFailed(c, "Only PDF, Word and image files are allowed")
	default:
		logger.Warn("upload failed", zap.Error(err))
		apierrors.UploadFailed(c, "Upload failed")
	}
}
