package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"transitpay/internal/domain"
)

// Client is a thin wrapper around the Paystack REST API for transaction
// verification and listing.
type Client struct {
	SecretKey string
	BaseURL   string
	HTTPC     *http.Client
}

func NewClient(secretKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &Client{
		SecretKey: secretKey,
		BaseURL:   baseURL,
		HTTPC:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Verify calls GET /transaction/verify/{reference}. It returns the parsed
// transaction data plus the verbatim data payload for persistence.
func (c *Client) Verify(ctx context.Context, reference string) (TransactionData, json.RawMessage, error) {
	var out TransactionData
	if c.SecretKey == "" {
		return out, nil, domain.ConfigError{Key: "PAYSTACK_SECRET_KEY"}
	}
	if reference == "" {
		return out, nil, domain.ValidationError{Field: "reference", Msg: "reference is required"}
	}

	endpoint := fmt.Sprintf("%s/transaction/verify/%s", c.BaseURL, url.PathEscape(reference))
	raw, err := c.get(ctx, endpoint)
	if err != nil {
		return out, nil, err
	}

	var resp verifyResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return out, nil, domain.UpstreamError{Op: "verify", Err: err}
	}
	if !resp.Status {
		return out, nil, domain.PaymentFailedError{Reference: reference, Msg: resp.Message}
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return out, nil, domain.UpstreamError{Op: "verify", Err: err}
	}
	return out, resp.Data, nil
}

// ListTransactions pulls a page of provider transactions between two dates,
// used by the admin re-sync job.
func (c *Client) ListTransactions(ctx context.Context, from, to time.Time, page int) ([]TransactionData, error) {
	if c.SecretKey == "" {
		return nil, domain.ConfigError{Key: "PAYSTACK_SECRET_KEY"}
	}
	if page <= 0 {
		page = 1
	}

	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("perPage", "100")

	raw, err := c.get(ctx, c.BaseURL+"/transaction?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Status  bool              `json:"status"`
		Message string            `json:"message"`
		Data    []TransactionData `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, domain.UpstreamError{Op: "list", Err: err}
	}
	if !resp.Status {
		return nil, domain.UpstreamError{Op: "list", Err: fmt.Errorf("%s", resp.Message)}
	}
	return resp.Data, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.UpstreamError{Op: "request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Accept", "application/json")

	httpc := c.HTTPC
	if httpc == nil {
		httpc = http.DefaultClient
	}
	res, err := httpc.Do(req)
	if err != nil {
		return nil, domain.UpstreamError{Op: "request", Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, domain.UpstreamError{Op: "read", Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, domain.UpstreamError{Op: "request", Err: fmt.Errorf("status %d", res.StatusCode)}
	}
	return body, nil
}
