package database

import (
	"fmt"
	"log"

	"jamb_cbt_backend/internal/config"
	"jamb_cbt_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.SchoolRecord{},
		&model.Subject{},
		&model.Topic{},
		&model.Passage{},
		&model.Question{},
		&model.ExamTemplate{},
		&model.ExamSection{},
		&model.ExamInstance{},
		&model.ExamAttempt{},
		&model.ExamResponse{},
		&model.AuditLog{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Seed the JAMB subject list on an empty database.
	var count int64
	db.Model(&model.Subject{}).Count(&count)
	if count == 0 {
		for _, s := range model.JAMBSubjects {
			db.Create(&model.Subject{Name: s.Name, Code: s.Code})
		}
		log.Printf("Seeded %d JAMB subjects", len(model.JAMBSubjects))
	}

	return db, nil
}
