package migration

import (
	advisingnotedomain "github.com/opencampus/beacon/internal/advisingnote/domain"
	"github.com/opencampus/beacon/internal/config"
	riskdomain "github.com/opencampus/beacon/internal/risk/domain"
	"github.com/opencampus/beacon/internal/seed"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// The sqlite dialect is for local development only; golang-migrate
			// targets the postgres schema, so let gorm derive the tables.
			err := conn.AutoMigrate(
				&studentdomain.Student{},
				&studentdomain.Term{},
				&studentdomain.Course{},
				&studentdomain.TermGPA{},
				&studentdomain.AttendanceRecord{},
				&studentdomain.LMSEvent{},
				&studentdomain.FinancialAid{},
				&studentdomain.Enrollment{},
				&riskdomain.Assessment{},
				&advisingnotedomain.Note{},
			)
			if err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoData(conn)
		}
		return nil
	}),
)
