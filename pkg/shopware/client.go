// Package shopware is a thin client for the commerce platform REST API.
package shopware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"backoffice/pkg/upstream"

	"go.uber.org/zap"
)

const system = "shopware"

// Config holds the API host and basic-auth credentials.
type Config struct {
	Host    string
	User    string
	Key     string
	Timeout time.Duration
}

func (c Config) complete() bool {
	return c.Host != "" && c.User != "" && c.Key != ""
}

// Client talks to the commerce platform.
type Client struct {
	cfg      Config
	logger   *zap.Logger
	recorder upstream.Recorder
}

// NewClient creates a new Client. Missing configuration is reported when a
// request is attempted.
func NewClient(cfg Config, logger *zap.Logger, rec upstream.Recorder) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, logger: logger, recorder: rec}
}

// Get fetches resource and returns the raw response body.
func (c *Client) Get(ctx context.Context, resource string) ([]byte, error) {
	if !c.cfg.complete() {
		return nil, fmt.Errorf("shopware host, user and key are required: %w", upstream.ErrNotConfigured)
	}

	endpoint := strings.TrimRight(c.cfg.Host, "/") + "/" + strings.TrimLeft(resource, "/")
	body, _, err := upstream.Do(ctx, system, c.recorder, upstream.Request{
		Method:   "GET",
		URL:      endpoint,
		User:     c.cfg.User,
		Password: c.cfg.Key,
		Timeout:  c.cfg.Timeout,
	})
	if err != nil {
		c.logger.Warn("shopware request failed", zap.String("resource", resource), zap.Error(err))
		return nil, err
	}
	return body, nil
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// Data fetches resource and returns its unwrapped "data" member.
func (c *Client) Data(ctx context.Context, resource string) (json.RawMessage, error) {
	body, err := c.Get(ctx, resource)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode shopware %s response: %w", resource, err)
	}
	return env.Data, nil
}

// Decode fetches resource and decodes its "data" member into out.
func (c *Client) Decode(ctx context.Context, resource string, out any) error {
	data, err := c.Data(ctx, resource)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode shopware %s data: %w", resource, err)
	}
	return nil
}

// Resource paths of the commerce platform.
const (
	ResourceOrders         = "orders"
	ResourceCustomerGroups = "customerGroups"
	ResourcePayments       = "paymentMethods"
	ResourceDocumentTypes  = "ShopmasterDocumentType"
	ResourceDocument       = "ShopmasterDocument"
	ResourceArticles       = "articles"
	ResourceVariantsAdv    = "variants_adv"
	ResourceOutlines       = "outlines"
	ResourceZalandoToken   = "zalando_auth/token"
)

// RecentOrders is the order list query: the 20 most recent orders.
func RecentOrders() string {
	q := url.Values{}
	q.Set("limit", "20")
	q.Set("sort[0][property]", "orderTime")
	q.Set("sort[0][direction]", "DESC")
	return ResourceOrders + "?" + q.Encode()
}

// OrderPath is the resource path of one order.
func OrderPath(id string) string {
	return ResourceOrders + "/" + url.PathEscape(id)
}

// CustomerGroupPath is the resource path of one customer group.
func CustomerGroupPath(id string) string {
	return ResourceCustomerGroups + "/" + url.PathEscape(id)
}

// DocumentPath is the resource path of one order document.
func DocumentPath(typeID, orderID string) string {
	q := url.Values{}
	q.Set("type", typeID)
	q.Set("orderId", orderID)
	return ResourceDocument + "?" + q.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// ZalandoToken returns the marketplace access token brokered by the
// commerce platform.
func (c *Client) ZalandoToken(ctx context.Context) (string, error) {
	body, err := c.Get(ctx, ResourceZalandoToken)
	if err != nil {
		return "", err
	}
	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("failed to decode zalando token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("zalando token response has no access token")
	}
	return tok.AccessToken, nil
}
