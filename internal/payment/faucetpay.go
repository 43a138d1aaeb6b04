package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"mainet/internal/domain"

	"github.com/shopspring/decimal"
)

const FaucetPayAPIURL = "https://faucetpay.io/api/v1/gettransaction"

// FaucetPayClient queries the FaucetPay gettransaction endpoint
type FaucetPayClient struct {
	baseURL     string
	apiKey      string
	targetEmail string
	httpClient  *http.Client
}

func NewFaucetPayClient(httpClient *http.Client, apiKey, targetEmail string) *FaucetPayClient {
	return &FaucetPayClient{
		baseURL:     FaucetPayAPIURL,
		apiKey:      apiKey,
		targetEmail: targetEmail,
		httpClient:  httpClient,
	}
}

// WithBaseURL points the client at another endpoint
func (c *FaucetPayClient) WithBaseURL(u string) *FaucetPayClient {
	c.baseURL = u
	return c
}

type faucetPayResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Transaction struct {
		ToEmail       string          `json:"to_email"`
		FromAddress   string          `json:"from_address"`
		Amount        decimal.Decimal `json:"amount"`
		Currency      string          `json:"currency"`
		Status        string          `json:"status"`
		Date          string          `json:"date"`
		Confirmations int             `json:"confirmations"`
	} `json:"transaction"`
}

func (c *FaucetPayClient) Verify(ctx context.Context, transactionID string, _ decimal.Decimal) (Result, error) {
	q := url.Values{"api_key": {c.apiKey}, "hash": {transactionID}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("faucetpay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("faucetpay API error: %s - %s", resp.Status, string(body))
	}

	var data faucetPayResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Result{}, fmt.Errorf("faucetpay decode: %w", err)
	}

	if !data.Success {
		reason := data.Message
		if reason == "" {
			reason = "transaction not found"
		}
		return Result{Status: domain.VerificationNotFound, Reason: reason}, nil
	}
	tx := data.Transaction
	if tx.ToEmail != c.targetEmail {
		return Result{Status: domain.VerificationNotFound, Reason: "transaction not sent to our email"}, nil
	}

	status := domain.VerificationPending
	if tx.Status == "completed" {
		status = domain.VerificationVerified
	}
	currency := tx.Currency
	if currency == "" {
		currency = "USD"
	}

	return Result{
		Status:   status,
		Amount:   tx.Amount,
		Currency: currency,
		Detail: map[string]any{
			"provider":       "faucetpay",
			"provider_state": tx.Status,
			"from_address":   tx.FromAddress,
			"date":           tx.Date,
			"confirmations":  tx.Confirmations,
		},
	}, nil
}
