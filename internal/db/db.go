package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GHanamaAhmed/cancer-detection/internal/config"
	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Facility{},
		&models.AvailabilityRule{},
		&models.ConsultationService{},
		&models.Connection{},
		&models.Appointment{},
		&models.LesionImage{},
		&models.LesionAnalysis{},
		&models.Message{},
		&models.Device{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(
		`UPDATE facilities SET timezone = ? WHERE timezone IS NULL OR timezone = ''`,
		cfg.DefaultTimezone,
	).Error; err != nil {
		return nil, fmt.Errorf("backfill facility timezone: %w", err)
	}

	// the repository already serializes bookings per doctor; the constraint
	// also covers writes that bypass it
	if err := db.Exec(noOverlapConstraint).Error; err != nil {
		log.Warn("appointment overlap constraint not installed", zap.Error(err))
	}

	return db, nil
}

const noOverlapConstraint = `
CREATE EXTENSION IF NOT EXISTS btree_gist;
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap') THEN
		ALTER TABLE appointments ADD CONSTRAINT appointments_no_overlap
		EXCLUDE USING gist (
			doctor_id WITH =,
			tstzrange(start_time, end_time, '[)') WITH &&
		) WHERE (status IN ('requested', 'confirmed'));
	END IF;
END $$;`
