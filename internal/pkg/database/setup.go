package database

import (
	"fmt"
	"log"
	"time"

	"github.com/cardinsa/cardinsa/app/models"
	"github.com/cardinsa/cardinsa/internal/pkg/env"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

const maxRetries = 5
const retryDelay = 5 * time.Second

func SetupDatabase() {
	var err error
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_NAME", ""),
		env.GetEnv("DB_PORT", "5432"),
		env.GetEnv("DB_SSLMODE", "disable"),
	)

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // required when running behind pgbouncer in transaction mode
		}), &gorm.Config{})
		if err == nil {
			DB.AutoMigrate(
				&models.Company{},
				&models.User{},
				&models.Member{},
				&models.Plan{},
				&models.PlanBenefitSchedule{},
				&models.Policy{},
				&models.PolicyBenefitOverride{},
				&models.MemberBenefitUsage{},
				&models.MemberBenefitUtilization{},
				&models.BenefitAlertLog{},
				&models.Claim{},
				&models.ClaimDocument{},
				&models.Quote{},
				&models.AuditLog{},
				&models.WorkflowTask{},
			)

			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Printf("Retry number %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

// GetDB returns the shared GORM handle. Callers must run SetupDatabase first.
func GetDB() *gorm.DB {
	return DB
}
