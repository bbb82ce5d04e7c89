package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/voiceconnect/backend/pkg/internal/database"
	"github.com/voiceconnect/backend/pkg/internal/models"
	"gorm.io/gorm"
)

const OtpCodeLifetime = 5 * time.Minute

func IssueOtpCode(phone string) (models.OtpCode, error) {
	code := models.OtpCode{
		ID:        uuid.NewString(),
		Phone:     phone,
		Code:      fmt.Sprintf("%06d", rand.IntN(1000000)),
		ExpiresAt: time.Now().Add(OtpCodeLifetime),
	}

	if err := database.C.Create(&code).Error; err != nil {
		return code, err
	}

	// SMS delivery is not wired up yet, surface the code in logs instead.
	log.Info().Str("phone", phone).Str("code", code.Code).Msg("Issued one-time code.")

	return code, nil
}

// VerifyOtpCode burns a matching, unexpired code and returns the account
// for the phone number, creating one on first login.
func VerifyOtpCode(phone, code string) (models.Account, error) {
	var account models.Account

	var otp models.OtpCode
	if err := database.C.
		Where("phone = ? AND code = ? AND is_used = ? AND expires_at > ?", phone, code, false, time.Now()).
		Order("created_at DESC").
		First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, fmt.Errorf("invalid or expired one-time code: %w", ErrForbidden)
		}
		return account, err
	}

	otp.IsUsed = true
	if err := database.C.Save(&otp).Error; err != nil {
		return account, err
	}

	return GetOrCreateAccountByPhone(phone)
}

type AccessClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func EncodeAccessToken(account models.Account) (string, error) {
	duration := time.Second * time.Duration(viper.GetInt("security.access_token_duration"))
	claims := AccessClaims{
		UserID: account.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "voiceconnect",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tks, err := token.SignedString([]byte(viper.GetString("security.access_token_secret")))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return tks, nil
}

func ParseAccessToken(tk string) (AccessClaims, error) {
	var claims AccessClaims
	token, err := jwt.ParseWithClaims(tk, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return []byte(viper.GetString("security.access_token_secret")), nil
	})
	if err != nil {
		return claims, err
	}
	if !token.Valid {
		return claims, fmt.Errorf("invalid token")
	}
	return claims, nil
}
