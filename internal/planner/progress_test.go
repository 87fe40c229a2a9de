package planner

import (
	"testing"
	"time"
)

func TestSetTaskCompleted(t *testing.T) {
	plan := testGenerator().Generate(tenDayProfile())
	at := fixedNow.Add(time.Hour)

	updated, ok := SetTaskCompleted(plan, "day1-task1", true, at)
	if !ok {
		t.Fatalf("task not found")
	}
	if !updated.Schedule[0].Tasks[0].Completed {
		t.Fatalf("task was not marked completed")
	}
	if plan.Schedule[0].Tasks[0].Completed {
		t.Fatalf("input plan was mutated")
	}
	// 60 of 1110 planned minutes.
	if updated.StatusPercentage != 5.41 {
		t.Fatalf("status = %v, want 5.41", updated.StatusPercentage)
	}
	if !updated.UpdatedAt.Equal(at) {
		t.Fatalf("updated_at = %v, want %v", updated.UpdatedAt, at)
	}
	if got := CompletedHours(updated); got != 1 {
		t.Fatalf("completed hours = %v, want 1", got)
	}

	reverted, ok := SetTaskCompleted(updated, "day1-task1", false, at)
	if !ok || reverted.StatusPercentage != 0 {
		t.Fatalf("revert: ok=%v status=%v", ok, reverted.StatusPercentage)
	}
}

func TestSetTaskCompleted_UnknownTask(t *testing.T) {
	plan := testGenerator().Generate(tenDayProfile())

	got, ok := SetTaskCompleted(plan, "day99-task1", true, fixedNow)
	if ok {
		t.Fatalf("expected unknown task to be reported")
	}
	if got.StatusPercentage != plan.StatusPercentage {
		t.Fatalf("plan changed for unknown task")
	}
}

func TestStatusPercentage_AllDone(t *testing.T) {
	plan := testGenerator().Generate(tenDayProfile())
	for i := range plan.Schedule {
		for j := range plan.Schedule[i].Tasks {
			plan.Schedule[i].Tasks[j].Completed = true
		}
	}
	if got := StatusPercentage(plan); got != 100 {
		t.Fatalf("status = %v, want 100", got)
	}
}
