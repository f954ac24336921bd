package riskmodel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"consultation-registry/internal/platform/httpclient"
	"consultation-registry/internal/ports/prediction"
)

var (
	ErrModelNotConfigured = errors.New("risk model client not configured")
	ErrModelUnauthorized  = errors.New("risk model unauthorized")
	ErrModelUpstream      = errors.New("risk model upstream error")
)

// Config del cliente del clasificador de riesgo.
// BaseURL y APIKey normalmente vienen de env vars (ver NewClientFromEnv).
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header donde viaja la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

// NewClientFromEnv lee PREDICT_BASE_URL / PREDICT_API_KEY.
// Sin base URL el cliente queda no-configurado (IsConfigured() == false);
// el alta de consultas fallará con error tipado, no con un riesgo inventado.
func NewClientFromEnv() *Client {
	c, err := NewClient(Config{
		BaseURL: os.Getenv("PREDICT_BASE_URL"),
		APIKey:  os.Getenv("PREDICT_API_KEY"),
	})
	if err != nil {
		return &Client{}
	}
	return c
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

// Predict manda la muestra codificada al clasificador y devuelve
// clase de riesgo + confianza.
func (c *Client) Predict(ctx context.Context, in prediction.Sample) (prediction.Assessment, error) {
	if !c.IsConfigured() {
		return prediction.Assessment{}, ErrModelNotConfigured
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers[c.apiKeyHeader] = c.apiKey
	}

	var out prediction.Assessment
	err := c.http.DoJSON(ctx, http.MethodPost, "/predict", headers, in, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				return prediction.Assessment{}, ErrModelUnauthorized
			default:
				return prediction.Assessment{}, fmt.Errorf("%w: status=%d", ErrModelUpstream, httpErr.StatusCode)
			}
		}
		return prediction.Assessment{}, fmt.Errorf("%w: %v", ErrModelUpstream, err)
	}

	return out, nil
}
