package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/models"
)

func boardTasks() []models.Task {
	return []models.Task{
		{ID: "1", Title: "Design homepage", Status: models.TaskStatusTodo, Priority: models.TaskPriorityHigh},
		{ID: "2", Title: "Implement API", Status: models.TaskStatusInProgress, Priority: models.TaskPriorityMedium},
		{ID: "3", Title: "Write docs", Status: models.TaskStatusDone, Priority: models.TaskPriorityLow},
		{ID: "4", Title: "Review design tokens", Status: models.TaskStatusReview, Priority: models.TaskPriorityMedium},
	}
}

func ids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestParsePriorityFilter(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    PriorityFilter
		wantErr bool
	}{
		{name: "empty means all", raw: "", want: PriorityAll},
		{name: "all", raw: "all", want: PriorityAll},
		{name: "all upper case", raw: "ALL", want: PriorityAll},
		{name: "concrete", raw: "high", want: PriorityFilter("high")},
		{name: "padded and mixed case", raw: " Medium ", want: PriorityFilter("medium")},
		{name: "unknown", raw: "urgent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePriorityFilter(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPriorityFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterTasks(t *testing.T) {
	tests := []struct {
		name  string
		query TaskQuery
		want  []string
	}{
		{name: "no-op query", query: TaskQuery{Priority: PriorityAll}, want: []string{"1", "2", "3", "4"}},
		{name: "zero query", query: TaskQuery{}, want: []string{"1", "2", "3", "4"}},
		{name: "text is case-insensitive", query: TaskQuery{Text: "de", Priority: PriorityAll}, want: []string{"1", "4"}},
		{name: "text matches inside words", query: TaskQuery{Text: "API"}, want: []string{"2"}},
		{name: "priority only", query: TaskQuery{Priority: "medium"}, want: []string{"2", "4"}},
		{name: "text and priority", query: TaskQuery{Text: "design", Priority: "high"}, want: []string{"1"}},
		{name: "no match", query: TaskQuery{Text: "zzz"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTasks(boardTasks(), tt.query)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterTasks_TitleOnly(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Title: "Homepage", Description: "design the hero", Priority: models.TaskPriorityLow},
	}

	assert.Empty(t, FilterTasks(tasks, TaskQuery{Text: "design"}))
}

func TestFilterTasks_CompositionIsCommutative(t *testing.T) {
	tasks := boardTasks()

	textThenPriority := FilterTasks(FilterTasks(tasks, TaskQuery{Text: "de"}), TaskQuery{Priority: "medium"})
	priorityThenText := FilterTasks(FilterTasks(tasks, TaskQuery{Priority: "medium"}), TaskQuery{Text: "de"})
	combined := FilterTasks(tasks, TaskQuery{Text: "de", Priority: "medium"})

	assert.Empty(t, cmp.Diff(textThenPriority, priorityThenText))
	assert.Empty(t, cmp.Diff(combined, textThenPriority))
}

func TestFilterTasks_DoesNotModifyInput(t *testing.T) {
	tasks := boardTasks()
	snapshot := boardTasks()

	got := FilterTasks(tasks, TaskQuery{Text: "design"})
	require.Len(t, got, 2)
	got[0].Title = "changed"

	if diff := cmp.Diff(snapshot, tasks); diff != "" {
		t.Errorf("input changed (-want +got):\n%s", diff)
	}
}

func TestPartitionByStatus(t *testing.T) {
	buckets := PartitionByStatus(boardTasks())

	require.Len(t, buckets, 4)
	assert.Equal(t, []string{"1"}, ids(buckets[models.TaskStatusTodo]))
	assert.Equal(t, []string{"2"}, ids(buckets[models.TaskStatusInProgress]))
	assert.Equal(t, []string{"4"}, ids(buckets[models.TaskStatusReview]))
	assert.Equal(t, []string{"3"}, ids(buckets[models.TaskStatusDone]))
}

func TestPartitionByStatus_EmptyInputHasEveryColumn(t *testing.T) {
	buckets := PartitionByStatus(nil)

	require.Len(t, buckets, 4)
	for _, status := range models.AllStatuses() {
		bucket, ok := buckets[status]
		assert.True(t, ok, "missing column %s", status)
		assert.NotNil(t, bucket)
		assert.Empty(t, bucket)
	}
}

func TestPartitionByStatus_PreservesOrderAndTotal(t *testing.T) {
	tasks := append(boardTasks(),
		models.Task{ID: "5", Title: "Later todo", Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow},
	)

	buckets := PartitionByStatus(tasks)

	total := 0
	for _, bucket := range buckets {
		total += len(bucket)
	}
	assert.Equal(t, len(tasks), total)
	assert.Equal(t, []string{"1", "5"}, ids(buckets[models.TaskStatusTodo]))
}
