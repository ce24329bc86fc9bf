package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

var ErrInvalidCharge = errors.New("invalid charge request")

type ChargeRequest struct {
	// SourceToken is a card token (tokn_...) or a payment source (src_...).
	SourceToken    string
	Amount         int64
	Currency       string
	IdempotencyKey string
	Metadata       map[string]any
}

type Charge struct {
	ID             string    `json:"id"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	Last4          string    `json:"last4,omitempty"`
	FailureCode    string    `json:"failure_code,omitempty"`
	FailureMessage string    `json:"failure_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (c *Charge) Successful() bool {
	return c.Status == "successful"
}

// OmiseGateway builds a client per call. omise.Client keeps its context as
// mutable state, so it cannot be shared between concurrent requests.
type OmiseGateway struct {
	publicKey string
	secretKey string
}

func NewOmiseGateway(publicKey, secretKey string) (*OmiseGateway, error) {
	if _, err := omise.NewClient(publicKey, secretKey); err != nil {
		return nil, fmt.Errorf("omise client: %w", err)
	}
	return &OmiseGateway{publicKey: publicKey, secretKey: secretKey}, nil
}

func (g *OmiseGateway) client(ctx context.Context) (*omise.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := omise.NewClient(g.publicKey, g.secretKey)
	if err != nil {
		return nil, fmt.Errorf("omise client: %w", err)
	}
	c.WithContext(ctx)
	return c, nil
}

func (g *OmiseGateway) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	if req.Amount <= 0 || req.SourceToken == "" || req.Currency == "" {
		return nil, ErrInvalidCharge
	}

	metadata := map[string]any{}
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	if req.IdempotencyKey != "" {
		metadata["idempotency_key"] = req.IdempotencyKey
	}

	op := &operations.CreateCharge{
		Amount:   req.Amount,
		Currency: strings.ToLower(req.Currency),
		Metadata: metadata,
	}
	if strings.HasPrefix(req.SourceToken, "src_") {
		op.Source = req.SourceToken
	} else {
		op.Card = req.SourceToken
	}

	client, err := g.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("create charge: %w", err)
	}
	ch := &omise.Charge{}
	if err := client.Do(ch, op); err != nil {
		return nil, fmt.Errorf("create charge: %w", err)
	}
	return toCharge(ch), nil
}

func (g *OmiseGateway) GetCharge(ctx context.Context, id string) (*Charge, error) {
	client, err := g.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve charge %s: %w", id, err)
	}
	ch := &omise.Charge{}
	if err := client.Do(ch, &operations.RetrieveCharge{ChargeID: id}); err != nil {
		return nil, fmt.Errorf("retrieve charge %s: %w", id, err)
	}
	return toCharge(ch), nil
}

func toCharge(ch *omise.Charge) *Charge {
	out := &Charge{
		ID:        ch.ID,
		Amount:    ch.Amount,
		Currency:  strings.ToUpper(ch.Currency),
		Status:    string(ch.Status),
		CreatedAt: ch.Created,
	}
	if ch.Card != nil {
		out.Last4 = ch.Card.LastDigits
	}
	if ch.FailureCode != nil {
		out.FailureCode = *ch.FailureCode
	}
	if ch.FailureMessage != nil {
		out.FailureMessage = *ch.FailureMessage
	}
	return out
}

var ErrNotConfigured = errors.New("payment gateway not configured")

// Unconfigured stands in when no gateway keys are set. Every call fails
// with ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) CreateCharge(context.Context, ChargeRequest) (*Charge, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) GetCharge(context.Context, string) (*Charge, error) {
	return nil, ErrNotConfigured
}
