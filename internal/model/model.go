package model

import (
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "Plan":
		return db.AutoMigrate(Plan{})

	case "Server":
		return db.AutoMigrate(Server{})

	case "Run":
		return db.AutoMigrate(Run{})

	case "RunLog":
		return db.AutoMigrate(RunLog{})

	case "BackupRecord":
		return db.AutoMigrate(BackupRecord{})
	}
	return nil
}

// AutoMigrateAll 迁移全部数据表
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		Plan{},
		Server{},
		Run{},
		RunLog{},
		BackupRecord{},
	)
}
