package database

import (
	"github.com/voiceconnect/backend/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.Topic{},
	&models.CallRequest{},
	&models.Message{},
	&models.Report{},
	&models.OtpCode{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}
