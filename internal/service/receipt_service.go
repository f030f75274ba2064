package service

import (
	"context"

	"github.com/RoyceAzure/lab/restaurant/internal/domain/model"
	"github.com/RoyceAzure/lab/restaurant/internal/infra/qrcode"
)

type ReceiptView struct {
	Order        *model.Order
	PayeeID      string
	PaymentURI   string
	QRCodeBase64 string
}

type IReceiptService interface {
	// GetReceipt 每次都重新產生 QR code
	//
	// 錯誤:
	//   - apperr.NotFoundCode 404: 訂單不存在
	GetReceipt(ctx context.Context, orderID uint) (*ReceiptView, error)
}

type ReceiptService struct {
	orderService   IOrderService
	paymentService IPaymentService
}

func NewReceiptService(orderService IOrderService, paymentService IPaymentService) IReceiptService {
	return &ReceiptService{
		orderService:   orderService,
		paymentService: paymentService,
	}
}

func (r *ReceiptService) GetReceipt(ctx context.Context, orderID uint) (*ReceiptView, error) {
	order, err := r.orderService.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	payeeID, err := r.paymentService.GetPayeeID(ctx)
	if err != nil {
		return nil, err
	}

	qr, err := r.paymentService.GeneratePaymentQR(payeeID, order.TotalPrice)
	if err != nil {
		return nil, err
	}

	return &ReceiptView{
		Order:        order,
		PayeeID:      payeeID,
		PaymentURI:   qrcode.UPIPaymentURI(payeeID, order.TotalPrice),
		QRCodeBase64: qr,
	}, nil
}
