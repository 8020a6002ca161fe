package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/office-task-api/internal/constants"
	"github.com/yukikurage/office-task-api/internal/deadline"
	"github.com/yukikurage/office-task-api/internal/models"
	"github.com/yukikurage/office-task-api/internal/repository"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskNameRequired       = errors.New("task name is required")
	ErrOfficerRequired        = errors.New("assigned officer is required")
	ErrInvalidStatus          = errors.New("invalid task status")
	ErrInvalidProgress        = errors.New("progress must be between 0 and 100")
	ErrInvalidDeadline        = errors.New("invalid deadline")
	ErrInvalidLeadDays        = fmt.Errorf("leadDays must be between 0 and %d", constants.MaxLeadDays)
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	calendar  *deadline.Calendar
	aiService *AIService
	newID     IDSource
	now       func() time.Time
}

// NewTaskService creates a new TaskService. aiService may be nil.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, calendar *deadline.Calendar, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		calendar:  calendar,
		aiService: aiService,
		newID:     RandomRecordID,
		now:       time.Now,
	}
}

// ResolvedTask is a stored task with its officers resolved to display names.
type ResolvedTask struct {
	models.Task
	Officers []string
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name            string
	Description     string
	AssignedOfficer string
	Deadline        string
	LeadDays        int
	Link            string
	DocumentURL     *string
}

// UpdateTaskInput lists the fields a task update may change; nil fields are kept.
type UpdateTaskInput struct {
	Name                  *string
	Description           *string
	Status                *models.TaskStatus
	AssignedOfficer       *string
	Deadline              *string
	Link                  *string
	Content               *string
	Progress              *int
	DocumentURL           *string
	CompletionDocumentURL *string
}

// List returns every task with resolved officers
func (s *TaskService) List() ([]ResolvedTask, error) {
	tasks, err := s.taskRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	users, err := s.users()
	if err != nil {
		return nil, err
	}

	resolved := make([]ResolvedTask, 0, len(tasks))
	for _, task := range tasks {
		resolved = append(resolved, resolve(task, users))
	}
	return resolved, nil
}

// Get returns one task
func (s *TaskService) Get(id int64) (*ResolvedTask, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		return nil, translateTaskError(err)
	}
	return s.resolveOne(task)
}

// Create stores a new task in the Assigned state
func (s *TaskService) Create(input CreateTaskInput) (*ResolvedTask, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTaskNameRequired
	}
	officers := models.ParseOfficerList(input.AssignedOfficer)
	if len(officers) == 0 {
		return nil, ErrOfficerRequired
	}

	clock := s.now()
	now := clock.UTC()
	// lead days count from the office's local date
	due, err := s.resolveDeadline(strings.TrimSpace(input.Deadline), input.LeadDays, clock)
	if err != nil {
		return nil, err
	}

	task := models.Task{
		Name:             name,
		Description:      input.Description,
		Status:           models.TaskStatusAssigned,
		AssignedOfficers: officers,
		Deadline:         due,
		Link:             strings.TrimSpace(input.Link),
		DocumentURL:      input.DocumentURL,
		Content:          "",
		Progress:         0,
		AssignedAt:       now,
	}

	if _, err := createWithUniqueID(s.newID, func(id int64) error {
		task.ID = id
		return s.taskRepo.Create(&task)
	}); err != nil {
		if errors.Is(err, ErrIDSpaceExhausted) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.resolveOne(&task)
}

// Update merges the supplied fields over the stored task
func (s *TaskService) Update(id int64, input UpdateTaskInput) (*ResolvedTask, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Progress != nil {
		if err := validateProgress(*input.Progress); err != nil {
			return nil, err
		}
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrTaskNameRequired
	}

	var officers models.OfficerList
	if input.AssignedOfficer != nil {
		officers = models.ParseOfficerList(*input.AssignedOfficer)
		if len(officers) == 0 {
			return nil, ErrOfficerRequired
		}
	}

	if input.Deadline != nil {
		if due := strings.TrimSpace(*input.Deadline); due != "" {
			if err := s.calendar.ValidateString(due); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidDeadline, err)
			}
		}
	}

	return s.mutate(id, func(task *models.Task) error {
		if input.Name != nil {
			task.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.Status != nil {
			task.Status = *input.Status
		}
		if officers != nil {
			task.AssignedOfficers = officers
		}
		if input.Deadline != nil {
			task.Deadline = strings.TrimSpace(*input.Deadline)
		}
		if input.Link != nil {
			task.Link = strings.TrimSpace(*input.Link)
		}
		if input.Content != nil {
			task.Content = *input.Content
		}
		if input.Progress != nil {
			task.Progress = *input.Progress
		}
		if input.DocumentURL != nil {
			task.DocumentURL = input.DocumentURL
		}
		if input.CompletionDocumentURL != nil {
			task.CompletionDocumentURL = input.CompletionDocumentURL
		}
		return nil
	})
}

// SaveContent overwrites the task body
func (s *TaskService) SaveContent(id int64, content string) (*ResolvedTask, error) {
	return s.mutate(id, func(task *models.Task) error {
		task.Content = content
		return nil
	})
}

// SaveProgress overwrites the task progress
func (s *TaskService) SaveProgress(id int64, progress int) (*ResolvedTask, error) {
	if err := validateProgress(progress); err != nil {
		return nil, err
	}
	return s.mutate(id, func(task *models.Task) error {
		task.Progress = progress
		return nil
	})
}

// Delegate appends an officer to the task's assignee list. Officers are never removed.
func (s *TaskService) Delegate(id int64, officer string) (*ResolvedTask, error) {
	officer = strings.TrimSpace(officer)
	if officer == "" {
		return nil, ErrOfficerRequired
	}
	return s.mutate(id, func(task *models.Task) error {
		task.AssignedOfficers = task.AssignedOfficers.Append(officer)
		return nil
	})
}

// Delete removes a task
func (s *TaskService) Delete(id int64) error {
	if err := s.taskRepo.Delete(id); err != nil {
		return translateTaskError(err)
	}
	return nil
}

// TaskSuggestion is a draft task extracted from free text
type TaskSuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LeadDays    int    `json:"leadDays"`
	Deadline    string `json:"deadline,omitempty"`
}

// Suggest uses AI to draft tasks from a circular or memo
func (s *TaskService) Suggest(ctx context.Context, text string) ([]TaskSuggestion, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	drafts, err := s.aiService.SuggestTasks(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tasks: %w", err)
	}
	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxSuggestedTasks {
		drafts = drafts[:constants.MaxSuggestedTasks]
	}

	now := s.now()
	suggestions := make([]TaskSuggestion, 0, len(drafts))
	for _, draft := range drafts {
		name := strings.TrimSpace(draft.Name)
		if name == "" {
			continue
		}
		suggestion := TaskSuggestion{
			Name:        name,
			Description: strings.TrimSpace(draft.Description),
		}
		if draft.LeadDays > 0 {
			suggestion.LeadDays = min(draft.LeadDays, constants.MaxLeadDays)
			suggestion.Deadline = deadline.Format(s.calendar.AddBusinessDays(now, suggestion.LeadDays))
		}
		suggestions = append(suggestions, suggestion)
	}

	if len(suggestions) == 0 {
		return nil, ErrAINoValidTasks
	}
	return suggestions, nil
}

func (s *TaskService) mutate(id int64, fn func(task *models.Task) error) (*ResolvedTask, error) {
	task, err := s.taskRepo.Update(id, fn)
	if err != nil {
		return nil, translateTaskError(err)
	}
	return s.resolveOne(task)
}

// resolveDeadline validates an explicit deadline or computes one from leadDays.
func (s *TaskService) resolveDeadline(due string, leadDays int, now time.Time) (string, error) {
	if leadDays < 0 || leadDays > constants.MaxLeadDays {
		return "", ErrInvalidLeadDays
	}
	if due != "" {
		if err := s.calendar.ValidateString(due); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidDeadline, err)
		}
		return due, nil
	}
	if leadDays > 0 {
		return deadline.Format(s.calendar.AddBusinessDays(now, leadDays)), nil
	}
	return "", nil
}

func (s *TaskService) resolveOne(task *models.Task) (*ResolvedTask, error) {
	users, err := s.users()
	if err != nil {
		return nil, err
	}
	resolved := resolve(*task, users)
	return &resolved, nil
}

func (s *TaskService) users() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load user directory: %w", err)
	}
	return users, nil
}

func resolve(task models.Task, users []models.User) ResolvedTask {
	return ResolvedTask{Task: task, Officers: ResolveOfficers(task.AssignedOfficers, users)}
}

func validateProgress(progress int) error {
	if progress < constants.MinProgress || progress > constants.MaxProgress {
		return ErrInvalidProgress
	}
	return nil
}

func translateTaskError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	return fmt.Errorf("task storage: %w", err)
}
