package service

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/mail"
	"github.com/RoyceAzure/lab/restaurant/internal/pkg/apperr"
)

const orderConfirmationSubject = "Order Confirmation"

type IMailService interface {
	// SendOrderConfirmation 錯誤: apperr.EmailDeliveryCode 502
	SendOrderConfirmation(ctx context.Context, data OrderConfirmation) error
}

type MailService struct {
	sender     mail.EmailSender
	recipients []string
	timeout    time.Duration
}

// NewMailService 初始化 mail service
// 參數:
//
//	sender: smtp 寄件實作
//	recipients: 訂單通知收件者
//	timeout: 單封信寄送上限
func NewMailService(sender mail.EmailSender, recipients []string, timeout time.Duration) IMailService {
	return &MailService{
		sender:     sender,
		recipients: recipients,
		timeout:    timeout,
	}
}

func (m *MailService) SendOrderConfirmation(ctx context.Context, data OrderConfirmation) error {
	if len(m.recipients) == 0 {
		return apperr.New(apperr.EmailDeliveryCode, "no order notification recipients configured")
	}

	body, err := GenerateOrderConfirmationText(data)
	if err != nil {
		return apperr.Wrap(apperr.InternalErrorCode, err, "failed to render order confirmation")
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	err = m.sender.SendEmail(ctx, mail.Message{
		To:      m.recipients,
		Subject: orderConfirmationSubject,
		Body:    body,
	})
	if err != nil {
		return apperr.Wrap(apperr.EmailDeliveryCode, err, fmt.Sprintf("failed to send confirmation for order %d", data.OrderID))
	}
	return nil
}

type orderConfirmationTemplateData struct {
	OrderConfirmation
	CurrencySymbol string
}

var orderConfirmationTmpl = template.Must(template.New("orderConfirmation").Parse(orderConfirmationTemplate))

// GenerateOrderConfirmationText 生成純文字訂單通知
func GenerateOrderConfirmationText(data OrderConfirmation) (string, error) {
	var buf bytes.Buffer
	err := orderConfirmationTmpl.Execute(&buf, orderConfirmationTemplateData{
		OrderConfirmation: data,
		CurrencySymbol:    constants.CurrencySymbol,
	})
	if err != nil {
		return "", fmt.Errorf("執行訂單通知模板失敗: %w", err)
	}
	return buf.String(), nil
}

const orderConfirmationTemplate = `Order ID: {{.OrderID}}
Table Number: {{.TableNumber}}
Total Price: {{.CurrencySymbol}}{{.TotalPrice}}
Items: {{.Items}}`
