package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
)

// Client talks to the Cloudinary REST API: uploads return a stable public
// URL, deletions take public IDs derived from those URLs.
type Client struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
}

func New(cloudName, apiKey, apiSecret string) *Client {
	return &Client{
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		baseURL:    "https://api.cloudinary.com/v1_1",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimRight(base, "/")
	return c
}

type uploadResp struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// sign builds the request signature: SHA-1 over the sorted non-auth params
// concatenated with the API secret.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

// Upload sends one binary payload and returns its public URL.
func (c *Client) Upload(ctx context.Context, folder, filename string, data []byte) (string, error) {
	if c.cloudName == "" || c.apiKey == "" || c.apiSecret == "" {
		return "", errors.New("cloudinary credentials missing")
	}
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}

	ts := fmt.Sprintf("%d", time.Now().Unix())
	params := map[string]string{"timestamp": ts}
	if folder != "" {
		params["folder"] = folder
	}
	sig := c.sign(params)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	_ = mw.WriteField("api_key", c.apiKey)
	_ = mw.WriteField("timestamp", ts)
	_ = mw.WriteField("signature", sig)
	if folder != "" {
		_ = mw.WriteField("folder", folder)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportErr("upload", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return "", c.readError("upload", res)
	}
	var out uploadResp
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.SecureURL == "" {
		return "", errors.New("cloudinary: response missing secure_url")
	}
	return out.SecureURL, nil
}

// Destroy removes the stored resources behind the given public URLs.
func (c *Client) Destroy(ctx context.Context, urls []string) error {
	for _, u := range urls {
		id := PublicIDFromURL(u)
		if id == "" {
			continue
		}
		if err := c.destroyByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) destroyByID(ctx context.Context, publicID string) error {
	ts := fmt.Sprintf("%d", time.Now().Unix())
	sig := c.sign(map[string]string{"public_id": publicID, "timestamp": ts})

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("api_key", c.apiKey)
	form.Set("timestamp", ts)
	form.Set("signature", sig)

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr("destroy", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return c.readError("destroy", res)
	}
	return nil
}

type resourcesResp struct {
	Resources []struct {
		PublicID string `json:"public_id"`
	} `json:"resources"`
	NextCursor string `json:"next_cursor"`
}

// DestroyFolder enumerates every resource under the folder prefix and
// deletes them, following pagination cursors.
func (c *Client) DestroyFolder(ctx context.Context, folder string) error {
	cursor := ""
	for {
		page, err := c.listByPrefix(ctx, folder, cursor)
		if err != nil {
			return err
		}
		for _, r := range page.Resources {
			if err := c.destroyByID(ctx, r.PublicID); err != nil {
				return err
			}
		}
		if page.NextCursor == "" {
			return nil
		}
		cursor = page.NextCursor
	}
}

func (c *Client) listByPrefix(ctx context.Context, prefix, cursor string) (*resourcesResp, error) {
	endpoint := fmt.Sprintf("%s/%s/resources/image/upload?max_results=500", c.baseURL, c.cloudName)
	if prefix != "" {
		endpoint += "&prefix=" + url.QueryEscape(prefix)
	}
	if cursor != "" {
		endpoint += "&next_cursor=" + url.QueryEscape(cursor)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportErr("list", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, c.readError("list", res)
	}
	var out resourcesResp
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// transportErr marks a failure to reach the media host so handlers can map
// it to 503 instead of a generic 500.
func transportErr(op string, err error) error {
	return fmt.Errorf("cloudinary %s: %w: %v", op, domain.ErrUnavailable, err)
}

func (c *Client) readError(op string, res *http.Response) error {
	body, _ := io.ReadAll(res.Body)
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return fmt.Errorf("cloudinary %s status %d: %s", op, res.StatusCode, e.Error.Message)
	}
	return fmt.Errorf("cloudinary %s status %d: %s", op, res.StatusCode, string(body))
}

// PublicIDFromURL recovers the public ID (folder/filename without
// extension) from a delivery URL.
func PublicIDFromURL(u string) string {
	parts := strings.Split(u, "/")
	if len(parts) < 2 {
		return ""
	}
	name := parts[len(parts)-1]
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" {
		return ""
	}
	folder := parts[len(parts)-2]
	// delivery URLs carry version segments like v1699999999 before the folder
	if strings.HasPrefix(folder, "v") || folder == "upload" {
		return name
	}
	return folder + "/" + name
}
