// Package gateway talks to the hosted payment gateway.
package gateway

import (
	"context"
	"fmt"
	"net/http"

	paymentserrors "mentorbook/internal/payments/errors"
	"mentorbook/pkg/client"

	"github.com/google/uuid"
)

// OrderParams describes a checkout. Amount is in major units; the gateway
// receives minor units.
type OrderParams struct {
	Amount   int64
	Currency string
	Notes    map[string]string
}

type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type RazorpayGateway struct {
	http  *client.HttpClient
	keyID string
}

// NewRazorpayGateway authenticates every call with the key pair.
func NewRazorpayGateway(baseURL, keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		http:  client.NewHttpClient(baseURL).WithBasicAuth(keyID, keySecret),
		keyID: keyID,
	}
}

func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, params OrderParams) (*GatewayOrder, error) {
	body := map[string]any{
		"amount":   params.Amount * 100,
		"currency": params.Currency,
		"receipt":  "rcpt_" + uuid.NewString()[:8],
		"notes":    params.Notes,
	}

	resp, err := g.http.Do(ctx, http.MethodPost, "/orders", body, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", paymentserrors.ErrGateway, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d: %s", paymentserrors.ErrGateway, resp.StatusCode, gatewayError(resp))
	}

	var order GatewayOrder
	if err := resp.DecodeJSON(&order); err != nil {
		return nil, fmt.Errorf("%w: failed to decode order: %v", paymentserrors.ErrGateway, err)
	}
	return &order, nil
}

func gatewayError(resp *client.Response) string {
	var body struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := resp.DecodeJSON(&body); err != nil || body.Error.Description == "" {
		return string(resp.Body)
	}
	return body.Error.Code + ": " + body.Error.Description
}
