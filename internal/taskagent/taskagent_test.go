package taskagent

import (
	"context"
	"testing"

	"agencydash/backend/internal/domain"
	"agencydash/backend/internal/kvstore"
)

func newTestStore() *Store {
	return New(kvstore.NewMemory())
}

func TestAddGoalPrependsNewest(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	s.AddGoal(ctx, "first goal")
	s.AddGoal(ctx, "second goal")

	goals := s.Goals(ctx)
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(goals))
	}
	if goals[0].Text != "second goal" {
		t.Fatalf("expected newest goal first, got %q", goals[0].Text)
	}
}

func TestAddTasksAssignsIDs(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	added := s.AddTasks(ctx, []domain.Task{
		{Text: "one", Priority: domain.PriorityHigh},
		{Text: "two", Priority: domain.PriorityLow},
	})
	if len(added) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(added))
	}
	for _, task := range added {
		if task.ID == "" {
			t.Fatalf("expected assigned id for %q", task.Text)
		}
		if task.CreatedAt == 0 {
			t.Fatalf("expected created timestamp for %q", task.Text)
		}
	}
}

func TestUpdateTaskMergesFields(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	added := s.AddTasks(ctx, []domain.Task{{Text: "draft copy", Priority: domain.PriorityMedium}})
	newText := "draft and review copy"
	completed := true

	updated := s.UpdateTask(ctx, added[0].ID, domain.TaskUpdateRequest{Text: &newText, Completed: &completed})
	if updated == nil {
		t.Fatalf("expected task to be found")
	}
	if updated.Text != newText || !updated.Completed {
		t.Fatalf("unexpected merge result: %+v", updated)
	}
	if updated.Priority != domain.PriorityMedium {
		t.Fatalf("unset fields must not change, got priority %q", updated.Priority)
	}
}

func TestUpdateTaskUnknownIDReturnsNil(t *testing.T) {
	s := newTestStore()
	if got := s.UpdateTask(context.Background(), "missing", domain.TaskUpdateRequest{}); got != nil {
		t.Fatalf("expected nil for unknown id, got %+v", got)
	}
}

func TestMarkTaskCompleteSuggestsNextByPriorityThenOrder(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	goal := s.AddGoal(ctx, "launch campaign")
	added := s.AddTasks(ctx, []domain.Task{
		{GoalID: goal.ID, Text: "low early", Priority: domain.PriorityLow, Order: 0},
		{GoalID: goal.ID, Text: "high late", Priority: domain.PriorityHigh, Order: 5},
		{GoalID: goal.ID, Text: "high early", Priority: domain.PriorityHigh, Order: 2},
		{GoalID: goal.ID, Text: "done already", Priority: domain.PriorityHigh, Order: 1, Completed: true},
	})

	next, found := s.MarkTaskComplete(ctx, added[0].ID)
	if !found {
		t.Fatalf("expected task to be found")
	}
	if next == nil {
		t.Fatalf("expected a next suggestion")
	}
	if next.Text != "high early" {
		t.Fatalf("expected high priority with lowest order, got %q", next.Text)
	}
}

func TestMarkTaskCompleteNoRemainingReturnsNilSuggestion(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	goal := s.AddGoal(ctx, "single step")
	added := s.AddTasks(ctx, []domain.Task{{GoalID: goal.ID, Text: "only task", Priority: domain.PriorityHigh}})

	next, found := s.MarkTaskComplete(ctx, added[0].ID)
	if !found {
		t.Fatalf("expected task to be found")
	}
	if next != nil {
		t.Fatalf("expected no suggestion, got %+v", next)
	}
}

func TestMarkTaskCompleteUnknownID(t *testing.T) {
	s := newTestStore()
	if _, found := s.MarkTaskComplete(context.Background(), "missing"); found {
		t.Fatalf("expected found=false for unknown id")
	}
}

func TestDeleteGoalCascadesToTasks(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	keep := s.AddGoal(ctx, "keep me")
	drop := s.AddGoal(ctx, "drop me")
	s.AddTasks(ctx, []domain.Task{
		{GoalID: keep.ID, Text: "kept task"},
		{GoalID: drop.ID, Text: "dropped task"},
		{GoalID: drop.ID, Text: "another dropped task"},
	})

	s.DeleteGoal(ctx, drop.ID)

	goals := s.Goals(ctx)
	if len(goals) != 1 || goals[0].ID != keep.ID {
		t.Fatalf("expected only the kept goal, got %+v", goals)
	}
	tasks := s.Tasks(ctx)
	if len(tasks) != 1 || tasks[0].Text != "kept task" {
		t.Fatalf("expected only the kept task, got %+v", tasks)
	}
}

func TestGenerateTasksFromGoalMarketingTemplate(t *testing.T) {
	tasks := GenerateTasksFromGoal("Launch a spring marketing push for the new tier")
	if len(tasks) != 7 {
		t.Fatalf("expected 7 marketing tasks, got %d", len(tasks))
	}
	if tasks[0].Text != "Define target audience and buyer personas" {
		t.Fatalf("unexpected first task %q", tasks[0].Text)
	}
	if tasks[0].Priority != domain.PriorityHigh {
		t.Fatalf("expected first task high priority, got %q", tasks[0].Priority)
	}
	for i, task := range tasks {
		if task.Order != i {
			t.Fatalf("expected order %d, got %d", i, task.Order)
		}
		if task.GoalID != "" {
			t.Fatalf("generated tasks must not carry a goal id")
		}
	}
}

func TestGenerateTasksFromGoalMatchesCaseInsensitive(t *testing.T) {
	tasks := GenerateTasksFromGoal("Improve our SEO rankings this quarter")
	if len(tasks) != 6 {
		t.Fatalf("expected 6 seo tasks, got %d", len(tasks))
	}
	if tasks[0].Text != "Run a technical SEO audit of the site" {
		t.Fatalf("unexpected first task %q", tasks[0].Text)
	}
}

func TestGenerateTasksFromGoalFallsBackToGeneric(t *testing.T) {
	tasks := GenerateTasksFromGoal("hire two account managers")
	if len(tasks) != 6 {
		t.Fatalf("expected 6 generic tasks, got %d", len(tasks))
	}
	if tasks[0].Text != "Clarify the goal and define what success looks like" {
		t.Fatalf("unexpected first generic task %q", tasks[0].Text)
	}
}
