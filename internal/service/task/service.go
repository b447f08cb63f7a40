package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/auth"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/profile"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/task"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/wallet"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type TaskServiceImpl struct {
	tx              database.Transactor
	taskRepo        task.TaskRepository
	profileRepo     profile.ProfileRepository
	transactionRepo wallet.TransactionRepository
	clock           *clock.Business
}

func NewTaskService(
	tx database.Transactor,
	taskRepo task.TaskRepository,
	profileRepo profile.ProfileRepository,
	transactionRepo wallet.TransactionRepository,
	clk *clock.Business,
) task.TaskService {
	return &TaskServiceImpl{
		tx:              tx,
		taskRepo:        taskRepo,
		profileRepo:     profileRepo,
		transactionRepo: transactionRepo,
		clock:           clk,
	}
}

// Create implements task.TaskService.
func (s *TaskServiceImpl) Create(ctx context.Context, req task.CreateTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return task.TaskResponse{}, err
	}

	assignee, err := s.profileRepo.GetByID(ctx, req.AssigneeID)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if assignee.Role != profile.RoleEmployee && assignee.Role != profile.RoleFreelancer {
		return task.TaskResponse{}, task.ErrInvalidAssignee
	}

	var deadline *time.Time
	if req.Deadline != nil {
		d, err := clock.ParseDate(*req.Deadline)
		if err != nil {
			return task.TaskResponse{}, err
		}
		deadline = &d
	}

	created, err := s.taskRepo.Create(ctx, task.Task{
		Title:         req.Title,
		Description:   req.Description,
		AssigneeID:    req.AssigneeID,
		Status:        task.StatusPending,
		PaymentAmount: req.PaymentAmount,
		Deadline:      deadline,
		CreatedBy:     claims.UserID,
	})
	if err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to create task: %w", err)
	}
	created.AssigneeName = &assignee.FullName

	slog.Info("Task created", "task_id", created.ID, "assignee_id", req.AssigneeID, "payment_amount", req.PaymentAmount.String())
	return s.toResponse(created), nil
}

// List implements task.TaskService.
func (s *TaskServiceImpl) List(ctx context.Context, filter task.TaskFilter) ([]task.TaskResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return s.toResponses(tasks), nil
}

// ListMine implements task.TaskService.
func (s *TaskServiceImpl) ListMine(ctx context.Context) ([]task.TaskResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByAssignee(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return s.toResponses(tasks), nil
}

// Get implements task.TaskService.
func (s *TaskServiceImpl) Get(ctx context.Context, id string) (task.TaskResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return task.TaskResponse{}, err
	}

	t, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if !claims.IsAdmin() && t.AssigneeID != claims.UserID {
		return task.TaskResponse{}, task.ErrNotTaskAssignee
	}
	return s.toResponse(t), nil
}

// Submit implements task.TaskService.
func (s *TaskServiceImpl) Submit(ctx context.Context, id string) (task.TaskResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return task.TaskResponse{}, err
	}

	t, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if t.AssigneeID != claims.UserID {
		return task.TaskResponse{}, task.ErrNotTaskAssignee
	}
	if !task.CanTransition(t.Status, task.StatusReview, task.ActorAssignee) {
		return task.TaskResponse{}, task.ErrInvalidTransition
	}

	updated, err := s.taskRepo.UpdateStatus(ctx, id, t.Status, task.StatusReview)
	if err != nil {
		return task.TaskResponse{}, err
	}

	slog.Info("Task submitted for review", "task_id", id, "assignee_id", claims.UserID)
	return s.toResponse(updated), nil
}

// Review implements task.TaskService.
func (s *TaskServiceImpl) Review(ctx context.Context, req task.ReviewTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return task.TaskResponse{}, err
	}

	target := req.Decision.Target()

	var (
		updated  task.Task
		credited *decimal.Decimal
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		t, err := s.taskRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !task.CanTransition(t.Status, target, task.ActorAdmin) {
			return task.ErrInvalidTransition
		}

		updated, err = s.taskRepo.UpdateStatus(ctx, t.ID, t.Status, target)
		if err != nil {
			return err
		}

		if target != task.StatusCompleted || !updated.PaymentAmount.IsPositive() {
			return nil
		}

		assignee, err := s.profileRepo.GetByID(ctx, updated.AssigneeID)
		if err != nil {
			return fmt.Errorf("failed to get assignee: %w", err)
		}
		if assignee.Role != profile.RoleFreelancer {
			return nil
		}

		taskID := updated.ID
		if _, err := s.transactionRepo.Create(ctx, wallet.Transaction{
			UserID:      assignee.ID,
			Type:        wallet.TransactionCredit,
			Amount:      updated.PaymentAmount,
			Description: "Payment for task: " + updated.Title,
			TaskID:      &taskID,
		}); err != nil {
			return fmt.Errorf("failed to record task payment: %w", err)
		}

		balance, err := s.profileRepo.IncrementWalletBalance(ctx, assignee.ID, updated.PaymentAmount)
		if err != nil {
			return fmt.Errorf("failed to credit wallet: %w", err)
		}

		amount := updated.PaymentAmount
		credited = &amount
		slog.Info("Wallet credited for task", "task_id", taskID, "user_id", assignee.ID, "amount", amount.String(), "balance", balance.String())
		return nil
	})
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) || errors.Is(err, task.ErrInvalidTransition) {
			return task.TaskResponse{}, err
		}
		return task.TaskResponse{}, fmt.Errorf("failed to review task: %w", err)
	}

	slog.Info("Task reviewed", "task_id", req.ID, "reviewer_id", claims.UserID, "status", target)
	resp := s.toResponse(updated)
	resp.WalletCredited = credited
	return resp, nil
}

func (s *TaskServiceImpl) toResponses(tasks []task.Task) []task.TaskResponse {
	responses := make([]task.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, s.toResponse(t))
	}
	return responses
}

func (s *TaskServiceImpl) toResponse(t task.Task) task.TaskResponse {
	resp := task.TaskResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		AssigneeID:    t.AssigneeID,
		AssigneeName:  t.AssigneeName,
		Status:        t.Status,
		PaymentAmount: t.PaymentAmount,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt.In(s.clock.Location()).Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.In(s.clock.Location()).Format(time.RFC3339),
	}
	if t.Deadline != nil {
		deadline := clock.DateKey(*t.Deadline)
		resp.Deadline = &deadline
	}
	return resp
}
