// FILE: pkg/gateway/midtrans.go
// Package gateway wraps the outbound payment integration. Checkout sessions
// go out through Midtrans Snap; everything inbound arrives on the signed
// webhook and never touches this package.
package gateway

import (
	"context"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// CheckoutSession is the hosted-payment handoff returned to the client.
type CheckoutSession struct {
	OrderRef    string
	Token       string
	RedirectURL string
}

type CheckoutRequest struct {
	OrderRef      string
	PlanId        string
	PlanName      string
	Amount        float64
	Currency      string
	CustomerEmail string
	CustomerName  string
	FinishURL     string
}

// Gateway is the outbound payment contract, kept narrow so tests can stub it.
type Gateway interface {
	CreateCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error)
}

type SnapGateway struct {
	client snap.Client
}

func NewSnapGateway(serverKey string, production bool) *SnapGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	g := &SnapGateway{}
	g.client.New(serverKey, env)
	return g
}

func (g *SnapGateway) CreateCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutSession, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderRef,
			GrossAmt: int64(req.Amount),
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: req.FinishURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.PlanId,
				Price: int64(req.Amount),
				Qty:   1,
				Name:  req.PlanName,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	resp, midErr := g.client.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}
	return &CheckoutSession{
		OrderRef:    req.OrderRef,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}
