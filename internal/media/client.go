// Package media uploads check-in photos to Cloudinary, which stores the
// image and renders the watermark.
package media

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

type Client struct {
	cld     *cloudinary.Cloudinary
	folder  string
	timeout time.Duration
}

// NewClient configures an upload client. baseURL replaces the SDK's
// upload prefix when set, for proxies and tests.
func NewClient(baseURL, cloudName, apiKey, apiSecret string, timeout time.Duration) (*Client, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("configure cloudinary: %w", err)
	}
	if baseURL = strings.TrimRight(baseURL, "/"); baseURL != "" {
		cld.Config.API.UploadPrefix = baseURL
		cld.Upload.Config.API.UploadPrefix = baseURL
	}
	return &Client{cld: cld, folder: "checkins", timeout: timeout}, nil
}

// WatermarkTransformation limits the image width to 800px and overlays
// text at the bottom edge.
func WatermarkTransformation(text string) string {
	return "c_limit,w_800/co_white,g_south,l_text:Arial_20:" + escapeOverlay(text) + ",o_60,y_10"
}

// Commas and slashes inside overlay text must be double escaped so they
// are not read as transformation separators.
func escapeOverlay(text string) string {
	escaped := url.PathEscape(text)
	escaped = strings.ReplaceAll(escaped, "%2C", "%252C")
	return strings.ReplaceAll(escaped, "%2F", "%252F")
}

// UploadPhoto stores the image with the watermark applied and returns its
// public HTTPS URL.
func (c *Client) UploadPhoto(ctx context.Context, photo []byte, filename, watermark string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.cld.Upload.Upload(ctx, bytes.NewReader(photo), uploader.UploadParams{
		PublicID:       uuid.NewString(),
		Folder:         c.folder,
		Transformation: WatermarkTransformation(watermark),
	})
	if err != nil {
		return "", fmt.Errorf("upload photo %s: %w", filename, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload photo %s: %s", filename, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("upload photo %s: response has no secure_url", filename)
	}
	return res.SecureURL, nil
}
