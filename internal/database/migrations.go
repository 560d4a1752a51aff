package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/yukikurage/taskboard/internal/models"
	"gorm.io/gorm"
)

type indexSpec struct {
	model   any
	table   string
	name    string
	columns string
}

// feedIndexes back the per-task, time-ordered listing of both streams
var feedIndexes = []indexSpec{
	{&models.Comment{}, "comments", "idx_comments_task_created", "task_id, created_at, id"},
	{&models.Activity{}, "activities", "idx_activities_task_created", "task_id, created_at, id"},
}

// AddIndexes adds the feed listing indexes, skipping ones that exist
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range feedIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug().Str("index", idx.name).Msg("index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Debug().Str("index", idx.name).Str("table", idx.table).Msg("created index")
	}

	return nil
}
