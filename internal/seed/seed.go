// Package seed loads the board's initial tasks, comments and activity.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/services"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Data is the content of a seed file
type Data struct {
	Tasks      []models.Task `yaml:"tasks"`
	Comments   []Comment     `yaml:"comments"`
	Activities []Activity    `yaml:"activities"`
}

// Comment is a seeded comment
type Comment struct {
	TaskID    string        `yaml:"taskId"`
	Author    models.Person `yaml:"author"`
	Content   string        `yaml:"content"`
	CreatedAt time.Time     `yaml:"createdAt"`
}

// Activity is a seeded activity entry
type Activity struct {
	TaskID    string              `yaml:"taskId"`
	Type      models.ActivityType `yaml:"type"`
	User      models.Person       `yaml:"user"`
	From      string              `yaml:"from"`
	To        string              `yaml:"to"`
	Message   string              `yaml:"message"`
	CreatedAt time.Time           `yaml:"createdAt"`
}

// Load decodes seed data. Unknown keys are rejected.
func Load(r io.Reader) (*Data, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var data Data
	if err := dec.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return &data, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &data, nil
}

// LoadFile reads seed data from path
func LoadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Default returns the embedded seed data
func Default() (*Data, error) {
	return Load(bytes.NewReader(defaultSeed))
}

// Apply installs the tasks, then imports the feed entries with their
// recorded timestamps
func (d *Data) Apply(ctx context.Context, tasks *services.TaskService, feed *services.FeedService) error {
	if err := tasks.SeedTasks(d.Tasks); err != nil {
		return err
	}

	comments := make([]models.Comment, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, models.Comment{
			TaskID:       c.TaskID,
			AuthorName:   c.Author.Name,
			AuthorAvatar: c.Author.Avatar,
			Content:      c.Content,
			CreatedAt:    c.CreatedAt,
		})
	}

	activities := make([]models.Activity, 0, len(d.Activities))
	for _, a := range d.Activities {
		activities = append(activities, models.Activity{
			TaskID:     a.TaskID,
			Type:       a.Type,
			UserName:   a.User.Name,
			UserAvatar: a.User.Avatar,
			From:       a.From,
			To:         a.To,
			Message:    a.Message,
			CreatedAt:  a.CreatedAt,
		})
	}

	return feed.Import(ctx, comments, activities)
}
