package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"mainet/internal/domain"

	"github.com/shopspring/decimal"
)

const PayeerAPIURL = "https://payeer.com/ajax/api/api.php"

// PayeerClient queries the Payeer merchant API (action historyInfo)
type PayeerClient struct {
	baseURL    string
	account    string
	apiID      string
	apiSecret  string
	httpClient *http.Client
}

func NewPayeerClient(httpClient *http.Client, account, apiID, apiSecret string) *PayeerClient {
	return &PayeerClient{
		baseURL:    PayeerAPIURL,
		account:    account,
		apiID:      apiID,
		apiSecret:  apiSecret,
		httpClient: httpClient,
	}
}

// WithBaseURL points the client at another endpoint
func (c *PayeerClient) WithBaseURL(u string) *PayeerClient {
	c.baseURL = u
	return c
}

type payeerResponse struct {
	AuthError any             `json:"auth_error"`
	Errors    json.RawMessage `json:"errors"`
	Info      json.RawMessage `json:"info"` // object when found, empty list otherwise
}

type payeerInfo struct {
	To          string          `json:"to"`
	From        string          `json:"from"`
	CreditedSum decimal.Decimal `json:"creditedSum"`
	CreditedCur string          `json:"creditedCur"`
	Status      string          `json:"status"`
	Date        string          `json:"date"`
	Comment     string          `json:"comment"`
}

func (c *PayeerClient) Verify(ctx context.Context, transactionID string, _ decimal.Decimal) (Result, error) {
	form := url.Values{
		"account":   {c.account},
		"apiId":     {c.apiID},
		"apiPass":   {c.apiSecret},
		"action":    {"historyInfo"},
		"historyId": {transactionID},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("payeer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("payeer API error: %s - %s", resp.Status, string(body))
	}

	var data payeerResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Result{}, fmt.Errorf("payeer decode: %w", err)
	}

	var info payeerInfo
	if !authOK(data.AuthError) || json.Unmarshal(data.Info, &info) != nil || info.To == "" {
		return Result{Status: domain.VerificationNotFound, Reason: payeerError(data.Errors)}, nil
	}
	if info.To != c.account {
		return Result{Status: domain.VerificationNotFound, Reason: "transaction not sent to our account"}, nil
	}

	status := domain.VerificationPending
	if info.Status == "success" {
		status = domain.VerificationVerified
	}
	currency := info.CreditedCur
	if currency == "" {
		currency = "USD"
	}

	return Result{
		Status:   status,
		Amount:   info.CreditedSum,
		Currency: currency,
		Detail: map[string]any{
			"provider":       "payeer",
			"provider_state": info.Status,
			"from_account":   info.From,
			"date":           info.Date,
			"comment":        info.Comment,
		},
	}, nil
}

// authOK accepts auth_error as 0, "0" or absent
func authOK(v any) bool {
	return v == nil || fmt.Sprint(v) == "0"
}

// payeerError extracts the first message of the errors field, which is a list
// of strings on failure and false on success.
func payeerError(raw json.RawMessage) string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return "transaction not found"
}
