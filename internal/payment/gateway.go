package payment

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"io"
	"net/http"
	"strings"
	"time"
)

type InvoiceRequest struct {
	ExternalID         string `json:"external_id"`
	Amount             int64  `json:"amount"`
	PayerEmail         string `json:"payer_email,omitempty"`
	Description        string `json:"description"`
	InvoiceDuration    int64  `json:"invoice_duration,omitempty"`
	SuccessRedirectURL string `json:"success_redirect_url,omitempty"`
	FailureRedirectURL string `json:"failure_redirect_url,omitempty"`
	Currency           string `json:"currency"`
}

type Invoice struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Status     string    `json:"status"`
	Amount     int64     `json:"amount"`
	InvoiceURL string    `json:"invoice_url"`
	ExpiryDate time.Time `json:"expiry_date"`
}

type Gateway interface {
	CreateInvoice(ctx context.Context, req *InvoiceRequest) (*Invoice, error)
}

type Config struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

// Client talks to a Xendit compatible invoice API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

var ErrGateway = errors.New("payment gateway error")

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("payment base URL is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("payment secret key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		secretKey:  cfg.SecretKey,
		httpClient: httpClient,
	}, nil
}

func (c *Client) CreateInvoice(ctx context.Context, in *InvoiceRequest) (*Invoice, error) {
	if in.Currency == "" {
		in.Currency = "IDR"
	}

	body, err := json.Marshal(in)
	if err != nil {
		return nil, errors.Wrap(err, "encode invoice request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/invoices", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.secretKey, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "create invoice")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read invoice response")
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		msg := gjson.GetBytes(raw, "message").String()
		code := gjson.GetBytes(raw, "error_code").String()
		return nil, errors.Wrap(ErrGateway, fmt.Sprintf("status %d: %s %s", resp.StatusCode, code, msg))
	}

	inv := &Invoice{}
	if err = json.Unmarshal(raw, inv); err != nil {
		return nil, errors.Wrap(err, "decode invoice response")
	}
	return inv, nil
}

type CallbackStatus string

const (
	CallbackStatusPaid    CallbackStatus = "PAID"
	CallbackStatusSettled CallbackStatus = "SETTLED"
	CallbackStatusExpired CallbackStatus = "EXPIRED"
)

// CallbackTokenHeader carries the shared secret on invoice callbacks.
const CallbackTokenHeader = "X-Callback-Token"

type Callback struct {
	InvoiceID  string
	ExternalID string
	Status     CallbackStatus
	PaidAmount int64
	PaidAt     time.Time
}

var ErrMalformedCallback = errors.New("malformed callback")

func ParseCallback(body []byte) (*Callback, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedCallback
	}

	r := gjson.ParseBytes(body)
	cb := &Callback{
		InvoiceID:  r.Get("id").String(),
		ExternalID: r.Get("external_id").String(),
		Status:     CallbackStatus(strings.ToUpper(r.Get("status").String())),
		PaidAmount: r.Get("paid_amount").Int(),
	}
	if cb.ExternalID == "" || cb.Status == "" {
		return nil, errors.Wrap(ErrMalformedCallback, "external_id and status are required")
	}

	if paidAt := r.Get("paid_at"); paidAt.Exists() {
		t, err := time.Parse(time.RFC3339, paidAt.String())
		if err != nil {
			return nil, errors.Wrap(ErrMalformedCallback, "paid_at")
		}
		cb.PaidAt = t
	}

	return cb, nil
}

func VerifyCallbackToken(expected, got string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}
