// Package zalando is a thin client for the marketplace partner API.
package zalando

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"backoffice/pkg/upstream"

	"go.uber.org/zap"
)

const system = "zalando"

// AttributeTypes maps the lookup names exposed by the dashboard to the
// marketplace attribute types.
var AttributeTypes = map[string]string{
	"brandcode":         "brand_code",
	"target_genders":    "target_genders",
	"target_age_groups": "target_age_groups",
	"size":              "size",
	"season_code":       "season_code",
	"color_code":        "color_code.primary",
}

// TokenSource provides bearer tokens for the marketplace API.
type TokenSource interface {
	ZalandoToken(ctx context.Context) (string, error)
}

// Config holds the API host and the merchant machine id.
type Config struct {
	Host      string
	MachineID string
	Timeout   time.Duration
}

// Client talks to the marketplace.
type Client struct {
	cfg      Config
	tokens   TokenSource
	logger   *zap.Logger
	recorder upstream.Recorder
}

// NewClient creates a new Client.
func NewClient(cfg Config, tokens TokenSource, logger *zap.Logger, rec upstream.Recorder) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, tokens: tokens, logger: logger, recorder: rec}
}

func (c *Client) endpoint(resource string) (string, error) {
	if c.cfg.Host == "" || c.cfg.MachineID == "" {
		return "", fmt.Errorf("zalando host and machine id are required: %w", upstream.ErrNotConfigured)
	}
	return strings.TrimRight(c.cfg.Host, "/") + "/" + c.cfg.MachineID + "/" + resource, nil
}

type itemsEnvelope struct {
	Items json.RawMessage `json:"items"`
}

// Items fetches resource and returns its "items" member.
func (c *Client) Items(ctx context.Context, resource string) (json.RawMessage, error) {
	endpoint, err := c.endpoint(resource)
	if err != nil {
		return nil, err
	}
	token, err := c.tokens.ZalandoToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain zalando token: %w", err)
	}

	body, _, err := upstream.Do(ctx, system, c.recorder, upstream.Request{
		Method:  "GET",
		URL:     endpoint,
		Bearer:  token,
		Timeout: c.cfg.Timeout,
	})
	if err != nil {
		c.logger.Warn("zalando request failed", zap.String("resource", resource), zap.Error(err))
		return nil, err
	}

	var env itemsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode zalando %s response: %w", resource, err)
	}
	return env.Items, nil
}

// Outlines lists the article outlines (article types).
func (c *Client) Outlines(ctx context.Context) (json.RawMessage, error) {
	return c.Items(ctx, "outlines")
}

// Attributes lists the values of one attribute type, addressed by its
// dashboard lookup name.
func (c *Client) Attributes(ctx context.Context, name string) (json.RawMessage, error) {
	attrType, ok := AttributeTypes[name]
	if !ok {
		return nil, fmt.Errorf("unknown attribute lookup %q: %w", name, upstream.ErrNotFound)
	}
	return c.Items(ctx, "attribute-types/"+attrType+"/attributes")
}

// SubmitProduct posts a product submission and returns the marketplace
// status code.
func (c *Client) SubmitProduct(ctx context.Context, payload any) (int, error) {
	endpoint, err := c.endpoint("product-submissions")
	if err != nil {
		return 0, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode product submission: %w", err)
	}
	token, err := c.tokens.ZalandoToken(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to obtain zalando token: %w", err)
	}

	_, code, err := upstream.Do(ctx, system, c.recorder, upstream.Request{
		Method:  "POST",
		URL:     endpoint,
		Bearer:  token,
		Body:    body,
		Timeout: c.cfg.Timeout,
	})
	if err != nil {
		c.logger.Warn("zalando submission failed", zap.Int("status", code), zap.Error(err))
		return code, err
	}
	return code, nil
}
