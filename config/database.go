package config

import (
	"college-chat/config/common"
	"college-chat/entity"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type DBConfig struct {
	*gorm.DB
}

func NewDB(settings *common.Settings, log *logrus.Logger) *DBConfig {
	db := initDatabase(settings, log)
	return &DBConfig{DB: db}
}

func (db *DBConfig) GetDB() *gorm.DB {
	return db.DB
}

func initDatabase(s *common.Settings, log *logrus.Logger) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		s.DBHost, s.DBUser, s.DBPassword, s.DBName, s.DBPort,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		NamingStrategy: entity.NamingStrategy,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	log.Info("Connection opened to database")
	conn, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("failed to get database handle")
	}

	if err := db.AutoMigrate(entity.All()...); err != nil {
		log.WithError(err).Fatal("failed run migration")
	}

	conn.SetMaxIdleConns(10)
	conn.SetMaxOpenConns(100)
	conn.SetConnMaxLifetime(time.Second * time.Duration(300))
	return db
}
