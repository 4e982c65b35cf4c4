package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"lindel.lk/lims/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "10032025_create_workflow_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Request{}, &models.Quotation{},
					&models.QuotationItem{}, &models.CRF{}, &models.Sample{},
					&models.ParameterAssignment{}, &models.TestResult{}, &models.Review{},
					&models.SequenceCounter{})
			},
		},
		{
			ID: "18032025_add_catalog_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.TestParameter{}, &models.Chemist{})
			},
		},
		{
			ID: "02042025_add_sampling_and_audit",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.EnvironmentalSampling{}, &models.AuditLog{})
			},
		},
		{
			ID: "15042025_index_crf_status",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_crfs_status ON crfs (status)").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec("DROP INDEX IF EXISTS idx_crfs_status").Error
			},
		},
	})

	return m.Migrate()
}
