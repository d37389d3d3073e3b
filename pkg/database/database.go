package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"estate_portal/internal/model"
	"estate_portal/pkg/logger"
)

var DB *gorm.DB

func InitDB(dsn string) error {
	if dsn == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	// PostgreSQL spesifik konfigürasyon
	pgConfig := postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Prepared statement sorununu çözmek için
	}

	// TranslateError: unique index ihlalleri gorm.ErrDuplicatedKey olarak gelir
	gormConfig := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Error),
		PrepareStmt:    false,
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.New(pgConfig), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Connection pool ayarları
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	DB = db
	logger.GetLogger().Info("Database connected successfully")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// Models lists every table of the application in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.LoginHistory{},
		&model.Area{},
		&model.Developer{},
		&model.Property{},
		&model.PropertyImage{},
		&model.PropertyFile{},
		&model.PropertyView{},
	}
}

func MigrateDatabase(models ...interface{}) error {
	log := logger.GetLogger()
	for _, m := range models {
		if !DB.Migrator().HasTable(m) {
			if err := DB.Migrator().CreateTable(m); err != nil {
				return fmt.Errorf("create table for %T: %w", m, err)
			}
			log.Info("Created table", zap.String("model", fmt.Sprintf("%T", m)))
		} else {
			if err := DB.Migrator().AutoMigrate(m); err != nil {
				return fmt.Errorf("migrate %T: %w", m, err)
			}
			log.Debug("Updated table", zap.String("model", fmt.Sprintf("%T", m)))
		}
	}
	return nil
}
