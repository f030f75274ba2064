package qrcode

import (
	"encoding/base64"
	"fmt"

	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/shopspring/decimal"
	goqrcode "github.com/skip2/go-qrcode"
)

const (
	// 每個 module 10px, 外框 4 個 module (go-qrcode 預設 quiet zone)
	boxSize = 10
	// 最小版本, 內容放不下時自動放大
	minVersion = 1
)

// UPIPaymentURI 付款意圖 URI, 金額固定兩位小數
func UPIPaymentURI(payeeID string, amount decimal.Decimal) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&mc=%s&tid=%s&tr=%s&tn=%s&am=%s&cu=%s&url=",
		payeeID,
		constants.PayeeName,
		constants.UPIMerchantCode,
		constants.UPITerminalID,
		constants.UPIReference,
		constants.UPINote,
		amount.StringFixed(2),
		constants.UPICurrency,
	)
}

// PaymentQRPNG 產生 UPI 付款 QR code PNG
func PaymentQRPNG(payeeID string, amount decimal.Decimal) ([]byte, error) {
	content := UPIPaymentURI(payeeID, amount)

	q, err := goqrcode.New(content, goqrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	if q.VersionNumber < minVersion {
		q, err = goqrcode.NewWithForcedVersion(content, minVersion, goqrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("encode qr code: %w", err)
		}
	}

	// 負數 size 代表每個 module 的像素
	png, err := q.PNG(-boxSize)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	return png, nil
}

// PaymentQRBase64 給 template 內嵌 data URI 使用
func PaymentQRBase64(payeeID string, amount decimal.Decimal) (string, error) {
	png, err := PaymentQRPNG(payeeID, amount)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
