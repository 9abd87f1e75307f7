package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-assignment-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the indexes the listing query depends on that are not
// expressible through struct tags alone.
func AddIndexes(db *gorm.DB, log *logrus.Logger) error {
	indexes := []struct {
		model   any
		name    string
		columns string
	}{
		// Listing a user's tasks joins on user_id then sorts by created_at
		{&models.TaskAssignment{}, "idx_task_assignments_user_task", "user_id, task_id"},
		{&models.Task{}, "idx_tasks_created_at_id", "created_at, id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.WithField("index", idx.name).Debug("index already exists, skipping")
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithField("index", idx.name).Info("created index")
	}

	return nil
}
