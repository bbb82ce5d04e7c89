package services

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/voiceconnect/backend/pkg/internal/database"
	"github.com/voiceconnect/backend/pkg/internal/models"
)

func DoAutoDatabaseCleanup() {
	log.Debug().Msg("Now cleaning up entire database...")

	var count int64
	tx := database.C.
		Where("is_used = ? OR expires_at < ?", true, time.Now()).
		Delete(&models.OtpCode{})
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("An error occurred when running database cleanup...")
	}
	count += tx.RowsAffected

	CleanupExpiredBoosts()

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}
