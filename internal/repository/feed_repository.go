package repository

import (
	"context"
	"time"

	"github.com/yukikurage/taskboard/internal/database"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/utils"
	"gorm.io/gorm"
)

var (
	_ TaskRepository = (*MemoryTaskRepository)(nil)
	_ FeedRepository = (*GormFeedRepository)(nil)
)

// GormFeedRepository is a GORM implementation of FeedRepository
type GormFeedRepository struct {
	db *gorm.DB
}

// NewFeedRepository creates a new FeedRepository
func NewFeedRepository(db *gorm.DB) *GormFeedRepository {
	return &GormFeedRepository{db: db}
}

// AppendComment stores a new comment
func (r *GormFeedRepository) AppendComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListComments returns comments for a task, oldest first
func (r *GormFeedRepository) ListComments(ctx context.Context, taskID string, page utils.PaginationParams) ([]models.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("task_id = ?", taskID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	comments := []models.Comment{}
	if err := query.
		Order("created_at ASC").
		Order("id ASC").
		Scopes(database.Paginate(page)).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// AppendActivity stores a new activity entry
func (r *GormFeedRepository) AppendActivity(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListActivities returns activity entries for a task, oldest first
func (r *GormFeedRepository) ListActivities(ctx context.Context, taskID string, page utils.PaginationParams) ([]models.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Activity{}).
		Where("task_id = ?", taskID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	activities := []models.Activity{}
	if err := query.
		Order("created_at ASC").
		Order("id ASC").
		Scopes(database.Paginate(page)).
		Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

// LatestTimestamp returns the newest created_at across both streams
func (r *GormFeedRepository) LatestTimestamp(ctx context.Context, taskID string) (time.Time, error) {
	var latest time.Time

	var comment models.Comment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Limit(1).
		Find(&comment).Error
	if err != nil {
		return time.Time{}, err
	}
	if comment.CreatedAt.After(latest) {
		latest = comment.CreatedAt
	}

	var activity models.Activity
	err = r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Limit(1).
		Find(&activity).Error
	if err != nil {
		return time.Time{}, err
	}
	if activity.CreatedAt.After(latest) {
		latest = activity.CreatedAt
	}

	return latest, nil
}
