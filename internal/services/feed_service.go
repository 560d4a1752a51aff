package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/utils"
)

var (
	ErrCommentEmpty        = errors.New("comment cannot be empty")
	ErrCommentTooLong      = fmt.Errorf("comment cannot exceed %d characters", constants.MaxCommentLength)
	ErrInvalidActivityType = errors.New("unknown activity type")
)

// FeedService manages the comment thread and activity feed of each task.
// Both are append-only and survive deletion of the task they belong to.
type FeedService struct {
	feedRepo repository.FeedRepository
	taskRepo repository.TaskRepository
	logger   zerolog.Logger
	now      func() time.Time

	// serialises timestamp allocation with the append that uses it
	mu sync.Mutex
}

// NewFeedService creates a new FeedService
func NewFeedService(feedRepo repository.FeedRepository, taskRepo repository.TaskRepository, logger zerolog.Logger) *FeedService {
	return &FeedService{
		feedRepo: feedRepo,
		taskRepo: taskRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// AddComment appends a comment to a task's thread and records a comment
// activity alongside it
func (s *FeedService) AddComment(ctx context.Context, taskID string, author models.Person, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrCommentEmpty
	}
	if len(content) > constants.MaxCommentLength {
		return nil, ErrCommentTooLong
	}
	if !s.taskRepo.Exists(taskID) {
		return nil, ErrTaskNotFound
	}
	author = withDefaultName(author)

	s.mu.Lock()
	defer s.mu.Unlock()

	at, err := s.nextTimestamp(ctx, taskID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		TaskID:       taskID,
		AuthorName:   author.Name,
		AuthorAvatar: author.Avatar,
		Content:      content,
		CreatedAt:    at,
	}
	if err := s.feedRepo.AppendComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	activity := &models.Activity{
		TaskID:     taskID,
		Type:       models.ActivityComment,
		UserName:   author.Name,
		UserAvatar: author.Avatar,
		Message:    "Added a comment",
		CreatedAt:  at,
	}
	if err := s.feedRepo.AppendActivity(ctx, activity); err != nil {
		s.logger.Error().Err(err).Str("task_id", taskID).Msg("failed to record comment activity")
	}

	s.logger.Info().
		Str("task_id", taskID).
		Uint64("comment_id", comment.ID).
		Msg("comment added")
	return comment, nil
}

// ListComments returns a page of a task's comments, oldest first
func (s *FeedService) ListComments(ctx context.Context, taskID string, page utils.PaginationParams) ([]models.Comment, int64, error) {
	comments, total, err := s.feedRepo.ListComments(ctx, taskID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

// ListActivities returns a page of a task's activity feed, oldest first
func (s *FeedService) ListActivities(ctx context.Context, taskID string, page utils.PaginationParams) ([]models.Activity, int64, error) {
	activities, total, err := s.feedRepo.ListActivities(ctx, taskID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, total, nil
}

// RecordActivities appends activity entries stamped with the current time.
// Entries for one task never go backwards in time.
func (s *FeedService) RecordActivities(ctx context.Context, activities []models.Activity) error {
	for _, a := range activities {
		if !a.Type.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidActivityType, a.Type)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range activities {
		activity := activities[i]
		if activity.UserName == "" {
			activity.UserName = constants.DefaultActorName
		}

		at, err := s.nextTimestamp(ctx, activity.TaskID)
		if err != nil {
			return err
		}
		activity.CreatedAt = at

		if err := s.feedRepo.AppendActivity(ctx, &activity); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
	}
	return nil
}

// Import stores historical entries with their own timestamps. It is used
// for seed data only.
func (s *FeedService) Import(ctx context.Context, comments []models.Comment, activities []models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range comments {
		c := comments[i]
		c.ID = 0
		c.CreatedAt = c.CreatedAt.UTC()
		if err := s.feedRepo.AppendComment(ctx, &c); err != nil {
			return fmt.Errorf("failed to import comment: %w", err)
		}
	}
	for i := range activities {
		a := activities[i]
		if !a.Type.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidActivityType, a.Type)
		}
		a.ID = 0
		a.CreatedAt = a.CreatedAt.UTC()
		if err := s.feedRepo.AppendActivity(ctx, &a); err != nil {
			return fmt.Errorf("failed to import activity: %w", err)
		}
	}

	s.logger.Info().
		Int("comments", len(comments)).
		Int("activities", len(activities)).
		Msg("imported feed entries")
	return nil
}

// nextTimestamp returns max(now, newest entry for the task). Callers hold
// s.mu.
func (s *FeedService) nextTimestamp(ctx context.Context, taskID string) (time.Time, error) {
	latest, err := s.feedRepo.LatestTimestamp(ctx, taskID)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read latest feed entry: %w", err)
	}

	now := s.now().UTC()
	if now.Before(latest) {
		return latest.UTC(), nil
	}
	return now, nil
}

func withDefaultName(p models.Person) models.Person {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = constants.DefaultActorName
	}
	return p
}
