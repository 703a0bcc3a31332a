package service

import (
	"context"
	"fmt"

	"github.com/smarttask/smarttask/internal/core/domain"
	"github.com/smarttask/smarttask/internal/core/ports"
)

func requireRole(actor domain.Actor, role domain.Role) error {
	if actor.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if actor.Role != role {
		return fmt.Errorf("%w: requires %s role", domain.ErrForbidden, role)
	}
	return nil
}

func requireAuthenticated(actor domain.Actor) error {
	if actor.UserID == "" || !actor.Role.Valid() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// taskAccess loads a task and checks the actor's relation to it.
type taskAccess struct {
	tasks ports.TaskRepository
}

// asCreator returns the task when the admin actor created it.
func (a taskAccess) asCreator(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	task, err := a.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsCreator(actor.UserID) {
		return nil, fmt.Errorf("%w: not the task creator", domain.ErrForbidden)
	}
	return task, nil
}

// asAssignee returns the task when the client actor is assigned to it.
func (a taskAccess) asAssignee(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	if err := requireRole(actor, domain.RoleClient); err != nil {
		return nil, err
	}
	task, err := a.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsAssignee(actor.UserID) {
		return nil, fmt.Errorf("%w: task is assigned to another client", domain.ErrForbidden)
	}
	return task, nil
}

// asParticipant returns the task when the actor is its creator or assignee.
func (a taskAccess) asParticipant(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	task, err := a.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsParticipant(actor.UserID) {
		return nil, fmt.Errorf("%w: not a participant of this task", domain.ErrForbidden)
	}
	return task, nil
}

// asViewer applies the detail-view rule: admins must be the creator, clients
// the assignee.
func (a taskAccess) asViewer(ctx context.Context, actor domain.Actor, taskID string) (*domain.Task, error) {
	if actor.IsAdmin() {
		return a.asCreator(ctx, actor, taskID)
	}
	return a.asAssignee(ctx, actor, taskID)
}
