package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// NullRef is the all-zero Ref_Key the accounting system uses for "no reference".
const NullRef = "00000000-0000-0000-0000-000000000000"

// Record is one flat field/value row from a paged collection read.
type Record map[string]interface{}

// Gateway is the narrow interface the sync engine consumes. The real
// accounting system speaks a paged OData-style query protocol; tests swap
// in a fake.
type Gateway interface {
	// FetchPage reads up to top records from a named collection starting
	// at offset skip. An optional filter expression restricts the rows.
	FetchPage(ctx context.Context, entity string, top, skip int, filter string) ([]Record, error)
	// CreateDocument submits a new document and returns its assigned Ref_Key.
	CreateDocument(ctx context.Context, entity string, fields Record) (string, error)
	// Ping probes connectivity so a sync can fail fast before paging.
	Ping(ctx context.Context) error
}

// Config holds the endpoint settings for one accounting-system instance.
type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type pageResponse struct {
	Value []Record `json:"value"`
}

func (c *Client) FetchPage(ctx context.Context, entity string, top, skip int, filter string) ([]Record, error) {
	q := url.Values{}
	q.Set("$format", "json")
	q.Set("$top", strconv.Itoa(top))
	q.Set("$skip", strconv.Itoa(skip))
	if filter != "" {
		q.Set("$filter", filter)
	}

	endpoint := fmt.Sprintf("%s/%s?%s", c.cfg.BaseURL, entity, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.auth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", entity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", entity, resp.StatusCode)
	}

	var page pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("fetch %s: decode page: %w", entity, err)
	}
	return page.Value, nil
}

func (c *Client) CreateDocument(ctx context.Context, entity string, fields Record) (string, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s?$format=json", c.cfg.BaseURL, entity)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	c.auth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", entity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("create %s: unexpected status %d", entity, resp.StatusCode)
	}

	var created struct {
		RefKey string `json:"Ref_Key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("create %s: decode response: %w", entity, err)
	}
	if created.RefKey == "" || created.RefKey == NullRef {
		return "", fmt.Errorf("create %s: no Ref_Key in response", entity)
	}
	return created.RefKey, nil
}

func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL, nil)
	if err != nil {
		return err
	}
	c.auth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erp unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("erp auth rejected: status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("erp unavailable: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) auth(req *http.Request) {
	if c.cfg.Username != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}
}
