package midtranspay

import (
	"context"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платежного шлюза Midtrans (Snap API)
type Client struct {
	snap snap.Client
	log  Logger
}

// NewClient создает новый экземпляр клиента Midtrans
func NewClient(serverKey string, production bool, log Logger) *Client {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var c Client
	c.snap.New(serverKey, env)
	c.log = log
	return &c
}

// CreateSession создает платежную сессию Snap для заказа
// Возвращает токен и URL размещенной у провайдера страницы оплаты
func (c *Client) CreateSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: context cancelled: %v", ErrInternal, err)
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.GrossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.ItemID,
				Name:  req.ItemName,
				Price: req.GrossAmount,
				Qty:   1,
			},
		},
		EnabledPayments: []snap.SnapPaymentType{
			snap.PaymentTypeGopay,
			"qris",
			snap.PaymentTypeBCAVA,
			snap.PaymentTypeBNIVA,
			snap.PaymentTypeBRIVA,
		},
	}

	resp, snapErr := c.snap.CreateTransaction(snapReq)
	if snapErr != nil {
		c.log.Error("Midtrans: failed to create snap session for order_id=%s: %v", req.OrderID, snapErr)
		return nil, fmt.Errorf("%w: order_id=%s: %v", ErrGatewayRejected, req.OrderID, snapErr)
	}

	c.log.Info("Midtrans: snap session created for order_id=%s", req.OrderID)

	return &Session{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}
