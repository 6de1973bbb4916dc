package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/hirebridge-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

// EnsureApplicationIndexes adds indexes gorm tags cannot express. The
// (candidate_id, job_id) unique index is declared on the model; it is
// re-asserted here so databases migrated before it existed pick it up.
func EnsureApplicationIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{
			name: "idx_job_applications_candidate_job",
			sql:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_job_applications_candidate_job ON job_applications(candidate_id, job_id);`,
		},
		{
			name: "idx_job_applications_unscored",
			sql:  `CREATE INDEX IF NOT EXISTS idx_job_applications_unscored ON job_applications(applied_at) WHERE match_percentage IS NULL;`,
		},
		{
			name: "idx_jobs_active_created_at",
			sql:  `CREATE INDEX IF NOT EXISTS idx_jobs_active_created_at ON jobs(created_at DESC) WHERE is_active;`,
		},
	}
	for _, st := range stmts {
		if err := db.Exec(st.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", st.name, err)
		}
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureApplicationIndexes(s.db); err != nil {
		s.log.Error("Application index migration failed", "error", err)
		return err
	}
	return nil
}
