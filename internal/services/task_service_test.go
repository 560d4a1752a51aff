package services

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskboard/internal/database"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// TaskServiceTestSuite runs the service against the in-memory collection
// and a sqlite-backed feed
type TaskServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	taskRepo *repository.MemoryTaskRepository
	feed     *FeedService
	service  *TaskService
	ctx      context.Context
	actor    models.Person
}

func (suite *TaskServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = database.Connect(database.Options{DSN: ":memory:", LogLevel: logger.Silent})
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(suite.db))

	suite.taskRepo = repository.NewTaskRepository()
	suite.feed = NewFeedService(repository.NewFeedRepository(suite.db), suite.taskRepo, zerolog.Nop())
	suite.service = NewTaskService(suite.taskRepo, utils.NewSequenceGenerator(0), suite.feed, zerolog.Nop())
	suite.ctx = context.Background()
	suite.actor = models.Person{Name: "Alex Kim"}

	suite.Require().NoError(suite.service.SeedTasks([]models.Task{
		{ID: "1", Title: "Design homepage", Status: models.TaskStatusTodo, Priority: models.TaskPriorityHigh, DueDate: strPtr("2024-03-15")},
		{ID: "2", Title: "Implement API", Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium},
		{ID: "3", Title: "Write docs", Status: models.TaskStatusDone, Priority: models.TaskPriorityLow},
	}))
}

func (suite *TaskServiceTestSuite) TearDownTest() {
	suite.Require().NoError(database.Close(suite.db))
}

func (suite *TaskServiceTestSuite) activities(taskID string) []models.Activity {
	activities, _, err := suite.feed.ListActivities(suite.ctx, taskID, utils.PaginationParams{})
	suite.Require().NoError(err)
	return activities
}

func (suite *TaskServiceTestSuite) TestCreateTask_AppendsWithFreshID() {
	task, err := suite.service.CreateTask(CreateTaskInput{Title: "New task"})
	suite.Require().NoError(err)

	suite.Equal("4", task.ID)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal(models.TaskPriorityMedium, task.Priority)

	all := suite.service.AllTasks()
	suite.Require().Len(all, 4)
	suite.Equal(task.ID, all[3].ID)
}

func (suite *TaskServiceTestSuite) TestCreateTask_IDsAreUnique() {
	seen := map[string]bool{"1": true, "2": true, "3": true}
	for i := 0; i < 10; i++ {
		task, err := suite.service.CreateTask(CreateTaskInput{Title: "t"})
		suite.Require().NoError(err)
		suite.False(seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
	}
	suite.Equal(13, suite.taskRepo.Count())
}

func (suite *TaskServiceTestSuite) TestCreateTask_UUIDStrategy() {
	service := NewTaskService(suite.taskRepo, utils.UUIDGenerator{}, nil, zerolog.Nop())

	task, err := service.CreateTask(CreateTaskInput{Title: "uuid task"})
	suite.Require().NoError(err)
	suite.Len(task.ID, 36)
}

func (suite *TaskServiceTestSuite) TestCreateTask_NormalizesAbsentFields() {
	task, err := suite.service.CreateTask(CreateTaskInput{
		Title:        "Absent",
		DueDate:      strPtr(""),
		Assignee:     &models.Person{Name: "  "},
		TimeEstimate: floatPtr(0),
	})
	suite.Require().NoError(err)

	suite.Equal("Absent", task.Title)
	suite.Nil(task.DueDate)
	suite.Nil(task.Assignee)
	suite.Nil(task.TimeEstimate)
}

func (suite *TaskServiceTestSuite) TestTitleStoredAsSubmitted() {
	created, err := suite.service.CreateTask(CreateTaskInput{Title: "  Design  ", Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow})
	suite.Require().NoError(err)
	suite.Equal("  Design  ", created.Title)

	replaced, err := suite.service.ReplaceTask(suite.ctx, created.ID, CreateTaskInput{Title: " Redesign", Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow}, suite.actor)
	suite.Require().NoError(err)
	suite.Equal(" Redesign", replaced.Title)

	updated, err := suite.service.UpdateTask(suite.ctx, created.ID, UpdateTaskInput{Title: strPtr("Polish ")}, suite.actor)
	suite.Require().NoError(err)
	suite.Equal("Polish ", updated.Title)

	stored, err := suite.service.GetTask(created.ID)
	suite.Require().NoError(err)
	suite.Equal("Polish ", stored.Title)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Validation() {
	tests := []struct {
		name  string
		input CreateTaskInput
		err   error
	}{
		{name: "missing title", input: CreateTaskInput{Title: "  "}, err: ErrTitleRequired},
		{name: "bad status", input: CreateTaskInput{Title: "t", Status: "blocked"}, err: ErrInvalidStatus},
		{name: "bad priority", input: CreateTaskInput{Title: "t", Priority: "urgent"}, err: ErrInvalidPriority},
		{name: "negative estimate", input: CreateTaskInput{Title: "t", TimeEstimate: floatPtr(-1)}, err: ErrNegativeEstimate},
		{name: "bad due date", input: CreateTaskInput{Title: "t", DueDate: strPtr("next week")}, err: ErrInvalidDueDate},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateTask(tt.input)
			suite.ErrorIs(err, tt.err)
		})
	}
	suite.Equal(3, suite.taskRepo.Count())
}

func (suite *TaskServiceTestSuite) TestGetTask_NotFound() {
	_, err := suite.service.GetTask("missing")
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_MergesPartialEdit() {
	before, err := suite.service.GetTask("1")
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateTask(suite.ctx, "1", UpdateTaskInput{
		Title:        strPtr("Design landing page"),
		TimeEstimate: floatPtr(2.5),
	}, suite.actor)
	suite.Require().NoError(err)

	want := before.Clone()
	want.Title = "Design landing page"
	want.TimeEstimate = floatPtr(2.5)
	if diff := cmp.Diff(want, *updated); diff != "" {
		suite.Failf("unexpected task", "(-want +got):\n%s", diff)
	}

	stored, err := suite.service.GetTask("1")
	suite.Require().NoError(err)
	suite.Equal(*updated, *stored)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_ClearsOptionalFields() {
	_, err := suite.service.UpdateTask(suite.ctx, "1", UpdateTaskInput{
		Assignee: &models.Person{Name: "Sam"},
	}, suite.actor)
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateTask(suite.ctx, "1", UpdateTaskInput{
		ClearDueDate:  true,
		ClearAssignee: true,
	}, suite.actor)
	suite.Require().NoError(err)

	suite.Nil(updated.DueDate)
	suite.Nil(updated.Assignee)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_NotFound() {
	_, err := suite.service.UpdateTask(suite.ctx, "missing", UpdateTaskInput{Title: strPtr("x")}, suite.actor)
	suite.ErrorIs(err, ErrTaskNotFound)
	suite.Equal(3, suite.taskRepo.Count())
}

func (suite *TaskServiceTestSuite) TestUpdateTask_RejectsEmptyTitle() {
	_, err := suite.service.UpdateTask(suite.ctx, "1", UpdateTaskInput{Title: strPtr(" ")}, suite.actor)
	suite.ErrorIs(err, ErrTitleEmpty)

	task, err := suite.service.GetTask("1")
	suite.Require().NoError(err)
	suite.Equal("Design homepage", task.Title)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_RecordsActivity() {
	_, err := suite.service.UpdateTask(suite.ctx, "1", UpdateTaskInput{
		Title:    strPtr("Design landing page"),
		Priority: ptrTo(models.TaskPriorityLow),
		DueDate:  strPtr("2024-04-01"),
		Status:   ptrTo(models.TaskStatusReview),
	}, suite.actor)
	suite.Require().NoError(err)

	activities := suite.activities("1")
	suite.Require().Len(activities, 3)

	suite.Equal(models.ActivityStatusChange, activities[0].Type)
	suite.Equal("todo", activities[0].From)
	suite.Equal("review", activities[0].To)

	suite.Equal(models.ActivityDueDate, activities[1].Type)
	suite.Equal("2024-03-15", activities[1].From)
	suite.Equal("2024-04-01", activities[1].To)

	suite.Equal(models.ActivityEdit, activities[2].Type)
	suite.Equal("changed title, priority", activities[2].Message)

	for _, a := range activities {
		suite.Equal("Alex Kim", a.UserName)
	}
}

func (suite *TaskServiceTestSuite) TestUpdateTask_NoChangeRecordsNothing() {
	_, err := suite.service.UpdateTask(suite.ctx, "2", UpdateTaskInput{Title: strPtr("Implement API")}, suite.actor)
	suite.Require().NoError(err)

	suite.Empty(suite.activities("2"))
}

func (suite *TaskServiceTestSuite) TestReplaceTask_OverwritesFields() {
	replaced, err := suite.service.ReplaceTask(suite.ctx, "1", CreateTaskInput{
		Title:    "Replaced",
		Priority: models.TaskPriorityLow,
	}, suite.actor)
	suite.Require().NoError(err)

	suite.Equal("1", replaced.ID)
	suite.Equal("Replaced", replaced.Title)
	suite.Equal(models.TaskStatusTodo, replaced.Status)
	suite.Nil(replaced.DueDate)

	_, err = suite.service.ReplaceTask(suite.ctx, "missing", CreateTaskInput{Title: "x"}, suite.actor)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestMoveTask_ChangesOnlyStatus() {
	before := suite.service.AllTasks()

	moved, err := suite.service.MoveTask(suite.ctx, "2", models.TaskStatusInProgress, suite.actor)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusInProgress, moved.Status)

	after := suite.service.AllTasks()
	suite.Require().Len(after, 3)
	suite.Equal(before[0], after[0])
	suite.Equal(before[2], after[2])

	want := before[1]
	want.Status = models.TaskStatusInProgress
	suite.Equal(want, after[1])

	board := suite.service.Board(TaskQuery{})
	suite.Equal([]string{"2"}, ids(board.Columns[models.TaskStatusInProgress]))

	activities := suite.activities("2")
	suite.Require().Len(activities, 1)
	suite.Equal(models.ActivityStatusChange, activities[0].Type)
	suite.Equal("todo", activities[0].From)
	suite.Equal("in-progress", activities[0].To)
}

func (suite *TaskServiceTestSuite) TestMoveTask_AnyTransitionAllowed() {
	for _, from := range models.AllStatuses() {
		for _, to := range models.AllStatuses() {
			if from == to {
				continue
			}
			suite.Run(string(from)+"->"+string(to), func() {
				created, err := suite.service.CreateTask(CreateTaskInput{
					Title:    "Transition",
					Status:   from,
					Priority: models.TaskPriorityLow,
				})
				suite.Require().NoError(err)

				moved, err := suite.service.MoveTask(suite.ctx, created.ID, to, suite.actor)
				suite.Require().NoError(err)
				suite.Equal(to, moved.Status)

				stored, err := suite.service.GetTask(created.ID)
				suite.Require().NoError(err)
				suite.Equal(to, stored.Status)

				activities := suite.activities(created.ID)
				suite.Require().Len(activities, 1)
				suite.Equal(string(from), activities[0].From)
				suite.Equal(string(to), activities[0].To)
			})
		}
	}
}

func (suite *TaskServiceTestSuite) TestMoveTask_SameStatusIsNoOp() {
	moved, err := suite.service.MoveTask(suite.ctx, "3", models.TaskStatusDone, suite.actor)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusDone, moved.Status)
	suite.Empty(suite.activities("3"))
}

func (suite *TaskServiceTestSuite) TestMoveTask_Errors() {
	_, err := suite.service.MoveTask(suite.ctx, "missing", models.TaskStatusDone, suite.actor)
	suite.ErrorIs(err, ErrTaskNotFound)

	_, err = suite.service.MoveTask(suite.ctx, "1", "blocked", suite.actor)
	suite.ErrorIs(err, ErrInvalidStatus)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_Idempotent() {
	suite.True(suite.service.DeleteTask("2"))
	suite.False(suite.service.DeleteTask("2"))
	suite.False(suite.service.DeleteTask("missing"))

	suite.Equal([]string{"1", "3"}, ids(suite.service.AllTasks()))
}

func (suite *TaskServiceTestSuite) TestDeleteTask_KeepsFeed() {
	_, err := suite.service.MoveTask(suite.ctx, "2", models.TaskStatusDone, suite.actor)
	suite.Require().NoError(err)

	suite.True(suite.service.DeleteTask("2"))
	suite.Len(suite.activities("2"), 1)
}

func (suite *TaskServiceTestSuite) TestBoard_FiltersThenPartitions() {
	board := suite.service.Board(TaskQuery{Text: "i", Priority: PriorityAll})

	suite.Equal([]string{"1", "2", "3"}, ids(board.Tasks))
	suite.Len(board.Columns, 4)
	suite.Equal([]string{"1", "2"}, ids(board.Columns[models.TaskStatusTodo]))
	suite.Empty(board.Columns[models.TaskStatusReview])
}

func (suite *TaskServiceTestSuite) TestListTasks_ReturnsCopies() {
	tasks := suite.service.ListTasks(TaskQuery{})
	tasks[0].Title = "mutated"
	*tasks[0].DueDate = "1999-01-01"

	stored, err := suite.service.GetTask("1")
	suite.Require().NoError(err)
	suite.Equal("Design homepage", stored.Title)
	suite.Equal("2024-03-15", *stored.DueDate)
}

func (suite *TaskServiceTestSuite) TestSeedTasks_RejectsInvalid() {
	err := suite.service.SeedTasks([]models.Task{{Title: "no id", Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow}})
	suite.ErrorIs(err, ErrInvalidSeedTask)

	err = suite.service.SeedTasks([]models.Task{{ID: "9", Title: "t", Status: "blocked", Priority: models.TaskPriorityLow}})
	suite.ErrorIs(err, ErrInvalidSeedTask)

	err = suite.service.SeedTasks([]models.Task{{ID: "1", Title: "dup", Status: models.TaskStatusTodo, Priority: models.TaskPriorityLow}})
	suite.ErrorIs(err, repository.ErrDuplicateID)
}

func ptrTo[T any](v T) *T { return &v }

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
