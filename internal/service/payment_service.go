package service

import (
	"context"
	"errors"
	"strings"

	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/qrcode"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/restaurant/internal/pkg/apperr"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type IPaymentService interface {
	// GetPayeeID 未設定過時回傳設定檔的 UPI_ID
	GetPayeeID(ctx context.Context) (string, error)
	// UpdatePayeeID 寫入 app_settings, 重啟後仍保留
	UpdatePayeeID(ctx context.Context, payeeID string) error
	// GeneratePaymentQR 回傳 base64 PNG, 相同輸入結果相同
	GeneratePaymentQR(payeeID string, amount decimal.Decimal) (string, error)
}

type PaymentService struct {
	settingRepo    db.ISettingRepository
	defaultPayeeID string
}

func NewPaymentService(settingRepo db.ISettingRepository, defaultPayeeID string) IPaymentService {
	return &PaymentService{
		settingRepo:    settingRepo,
		defaultPayeeID: defaultPayeeID,
	}
}

func (p *PaymentService) GetPayeeID(ctx context.Context) (string, error) {
	setting, err := p.settingRepo.GetSetting(ctx, constants.SettingKeyUPIID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return p.defaultPayeeID, nil
		}
		return "", apperr.Wrap(apperr.PersistenceCode, err, "Failed to load payment settings.")
	}
	return setting.Value, nil
}

func (p *PaymentService) UpdatePayeeID(ctx context.Context, payeeID string) error {
	payeeID = strings.TrimSpace(payeeID)
	if payeeID == "" {
		return apperr.New(apperr.ValidationCode, "UPI ID is required.")
	}
	if err := p.settingRepo.UpsertSetting(ctx, constants.SettingKeyUPIID, payeeID); err != nil {
		return apperr.Wrap(apperr.PersistenceCode, err, "Failed to save UPI ID.")
	}
	log.Info().Str("upi_id", payeeID).Msg("payee id updated")
	return nil
}

func (p *PaymentService) GeneratePaymentQR(payeeID string, amount decimal.Decimal) (string, error) {
	encoded, err := qrcode.PaymentQRBase64(payeeID, amount)
	if err != nil {
		return "", apperr.Wrap(apperr.InternalErrorCode, err, "Failed to generate payment QR code.")
	}
	return encoded, nil
}
