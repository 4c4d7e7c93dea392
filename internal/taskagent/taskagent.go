// Package taskagent implements the goal/task planner: goals own an ordered
// list of tasks, completing a task derives the next suggested sibling, and
// free-text goals expand into canned task templates by keyword matching.
package taskagent

import (
	"context"
	"time"

	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/kvstore"
	"agencydash/backend/internal/xid"
)

const (
	goalsKey = "agency.goals"
	tasksKey = "agency.tasks"
)

type Store struct {
	kv kvstore.Store
}

func New(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

func (s *Store) Goals(ctx context.Context) []domain.Goal {
	goals := []domain.Goal{}
	s.kv.Load(ctx, goalsKey, &goals)
	return goals
}

func (s *Store) Tasks(ctx context.Context) []domain.Task {
	tasks := []domain.Task{}
	s.kv.Load(ctx, tasksKey, &tasks)
	return tasks
}

// AddGoal prepends so the newest goal lists first.
func (s *Store) AddGoal(ctx context.Context, text string) domain.Goal {
	goal := domain.Goal{
		ID:        xid.New("goal"),
		Text:      text,
		CreatedAt: time.Now().UTC().UnixNano(),
	}
	goals := s.Goals(ctx)
	goals = append([]domain.Goal{goal}, goals...)
	s.kv.Save(ctx, goalsKey, goals)
	return goal
}

// AddTasks appends, assigning ids to tasks that lack one.
func (s *Store) AddTasks(ctx context.Context, tasks []domain.Task) []domain.Task {
	now := time.Now().UTC().UnixNano()
	added := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID == "" {
			task.ID = xid.New("task")
		}
		if task.CreatedAt == 0 {
			task.CreatedAt = now
		}
		added = append(added, task)
	}

	existing := s.Tasks(ctx)
	existing = append(existing, added...)
	s.kv.Save(ctx, tasksKey, existing)
	return added
}

// UpdateTask shallow-merges the set fields into the matching task. Absent ids
// return nil and leave the list unchanged.
func (s *Store) UpdateTask(ctx context.Context, id string, req domain.TaskUpdateRequest) *domain.Task {
	tasks := s.Tasks(ctx)
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		if req.Text != nil {
			tasks[i].Text = *req.Text
		}
		if req.Priority != nil {
			tasks[i].Priority = *req.Priority
		}
		if req.DueDate != nil {
			tasks[i].DueDate = *req.DueDate
		}
		if req.Completed != nil {
			tasks[i].Completed = *req.Completed
		}
		if req.Order != nil {
			tasks[i].Order = *req.Order
		}
		s.kv.Save(ctx, tasksKey, tasks)
		updated := tasks[i]
		return &updated
	}
	return nil
}

// MarkTaskComplete flags the task done and returns the next suggested sibling:
// the remaining incomplete task in the same goal with the best priority rank
// (High before Medium before Low), ties broken by lowest Order. The suggestion
// is nil when the goal has no incomplete tasks left. found reports whether the
// task id existed.
func (s *Store) MarkTaskComplete(ctx context.Context, id string) (next *domain.Task, found bool) {
	tasks := s.Tasks(ctx)
	goalID := ""
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Completed = true
			goalID = tasks[i].GoalID
			found = true
			break
		}
	}
	if !found {
		return nil, false
	}
	s.kv.Save(ctx, tasksKey, tasks)

	for i := range tasks {
		task := tasks[i]
		if task.GoalID != goalID || task.Completed {
			continue
		}
		if next == nil {
			candidate := task
			next = &candidate
			continue
		}
		if priorityRank(task.Priority) < priorityRank(next.Priority) ||
			(priorityRank(task.Priority) == priorityRank(next.Priority) && task.Order < next.Order) {
			candidate := task
			next = &candidate
		}
	}
	return next, true
}

func (s *Store) DeleteTask(ctx context.Context, id string) {
	tasks := s.Tasks(ctx)
	kept := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID == id {
			continue
		}
		kept = append(kept, task)
	}
	s.kv.Save(ctx, tasksKey, kept)
}

// DeleteGoal removes the goal and cascades to every task referencing it.
func (s *Store) DeleteGoal(ctx context.Context, id string) {
	goals := s.Goals(ctx)
	keptGoals := make([]domain.Goal, 0, len(goals))
	for _, goal := range goals {
		if goal.ID == id {
			continue
		}
		keptGoals = append(keptGoals, goal)
	}
	s.kv.Save(ctx, goalsKey, keptGoals)

	tasks := s.Tasks(ctx)
	keptTasks := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.GoalID == id {
			continue
		}
		keptTasks = append(keptTasks, task)
	}
	s.kv.Save(ctx, tasksKey, keptTasks)
}

func priorityRank(priority string) int {
	switch priority {
	case domain.PriorityHigh:
		return 0
	case domain.PriorityMedium:
		return 1
	case domain.PriorityLow:
		return 2
	default:
		return 3
	}
}
