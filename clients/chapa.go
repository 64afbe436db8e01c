package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ChapaClientWrapper provides an interface for Chapa gateway operations.
// This interface allows for easier testing by mocking gateway interactions.
type ChapaClientWrapper interface {
	Initialize(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error)
	Verify(ctx context.Context, txRef string) (*VerifyResponse, error)
}

// GatewayError is returned for any network failure or non-200 response
// from the payment gateway. It carries the raw status and body for
// diagnostics; callers decide how to surface it.
type GatewayError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chapa request failed: %v", e.Err)
	}
	return fmt.Sprintf("chapa returned status %d: %s", e.StatusCode, e.Body)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// InitializeRequest is the payload for POST /transaction/initialize.
type InitializeRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	TxRef       string  `json:"tx_ref"`
	CallbackURL string  `json:"callback_url"`
}

// InitializeResponse carries the gateway-confirmed transaction reference
// and the hosted checkout URL the payer is redirected to.
type InitializeResponse struct {
	TxRef       string
	CheckoutURL string
}

// VerifyResponse carries the remote transaction status ("success",
// "failed", ...) plus the raw payload for auditing.
type VerifyResponse struct {
	Status     string
	RawPayload json.RawMessage
}

// ChapaClient implements ChapaClientWrapper over the Chapa REST API.
type ChapaClient struct {
	SecretKey  string
	BaseURL    string
	HTTPClient *http.Client
}

// NewChapaClient creates and returns a new instance of ChapaClient.
// The secret key is injected once at construction and used as a bearer
// credential on every call.
func NewChapaClient(secretKey, baseURL string) *ChapaClient {
	if baseURL == "" {
		baseURL = "https://api.chapa.co/v1"
	}

	return &ChapaClient{
		SecretKey:  secretKey,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *ChapaClient) makeRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)

	return c.HTTPClient.Do(req)
}

// chapaEnvelope is the common response wrapper used by Chapa endpoints.
type chapaEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize creates a new transaction on the gateway and returns the
// checkout URL the payer must visit. It performs exactly one outbound
// call, no retries, and never touches local storage.
func (c *ChapaClient) Initialize(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initialize request: %w", err)
	}

	resp, err := c.makeRequest(ctx, http.MethodPost, "/transaction/initialize", bytes.NewBuffer(payload))
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // cap at 1MB
	if err != nil {
		return nil, &GatewayError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(rawBody)}
	}

	var envelope chapaEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(rawBody), Err: err}
	}

	var data struct {
		TxRef       string `json:"tx_ref"`
		CheckoutURL string `json:"checkout_url"`
	}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(rawBody), Err: err}
		}
	}

	// Some gateway responses omit tx_ref in the data object; the reference
	// we generated is authoritative in that case.
	if data.TxRef == "" {
		data.TxRef = req.TxRef
	}

	return &InitializeResponse{
		TxRef:       data.TxRef,
		CheckoutURL: data.CheckoutURL,
	}, nil
}

// Verify fetches the remote status for a transaction reference. Success
// is signaled by transport status 200 plus the data.status field.
func (c *ChapaClient) Verify(ctx context.Context, txRef string) (*VerifyResponse, error) {
	resp, err := c.makeRequest(ctx, http.MethodGet, "/transaction/verify/"+txRef, nil)
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &GatewayError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(rawBody)}
	}

	var envelope chapaEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(rawBody), Err: err}
	}

	var data struct {
		Status string `json:"status"`
	}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(rawBody), Err: err}
		}
	}

	return &VerifyResponse{
		Status:     data.Status,
		RawPayload: json.RawMessage(rawBody),
	}, nil
}
