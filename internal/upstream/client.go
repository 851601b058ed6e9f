// Package upstream is the client for the third-party API that receives help
// and volunteer submissions. The API key travels in a request header and is
// never exposed to the browser.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/TechHelpSeniors/techhelp-proxy/types"
	"github.com/gabriel-vasile/mimetype"
)

const (
	// DefaultTimeout bounds a single submission, including reading the response.
	DefaultTimeout = 30 * time.Second
	// DefaultAPIKeyHeader carries the secret key.
	DefaultAPIKeyHeader = "X-API-Key"
	// AttachmentField is the multipart field shared by all uploaded files.
	AttachmentField = "additionalMaterials"

	submitPath = "/api/submit"
)

// invalidResponseBody replaces an upstream body that is not JSON.
var invalidResponseBody = json.RawMessage(`{"error":"Invalid response from API"}`)

// Response is what the upstream API answered. Body is always valid JSON.
type Response struct {
	StatusCode int
	Body       json.RawMessage
	// Multipart reports whether the request was sent as multipart/form-data.
	Multipart bool
}

// Client represents a client for the submissions API
type Client struct {
	baseURL      string
	apiKeyHeader string
	httpClient   *http.Client
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithAPIKeyHeader overrides the header the key is sent in.
func WithAPIKeyHeader(header string) ClientOption {
	return func(c *Client) {
		if header != "" {
			c.apiKeyHeader = header
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKeyHeader: DefaultAPIKeyHeader,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SubmitURL is the endpoint submissions are posted to.
func (c *Client) SubmitURL() string {
	return c.baseURL + submitPath
}

// Submit forwards s in a single attempt. Submissions carrying at least one
// named attachment are sent as multipart/form-data, all others as JSON.
// A non-nil error means the request never produced a response; any HTTP
// status, including 4xx and 5xx, is returned in Response.
func (c *Client) Submit(ctx context.Context, apiKey string, s *types.Submission) (*Response, error) {
	attachments := s.NamedAttachments()

	var (
		body        *bytes.Buffer
		contentType string
		err         error
	)
	if len(attachments) > 0 {
		body, contentType, err = encodeMultipart(s, attachments)
	} else {
		body, contentType, err = encodeJSON(s)
	}
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.SubmitURL(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(c.apiKeyHeader, apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       decodeBody(raw),
		Multipart:  len(attachments) > 0,
	}, nil
}

func encodeJSON(s *types.Submission) (*bytes.Buffer, string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal submission: %w", err)
	}
	return bytes.NewBuffer(data), "application/json", nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipart(s *types.Submission, attachments []types.Attachment) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, f := range s.Fields() {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f[0], err)
		}
	}

	for _, a := range attachments {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			AttachmentField, quoteEscaper.Replace(a.Filename)))
		h.Set("Content-Type", mimetype.Detect(a.Content).String())

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part for %s: %w", a.Filename, err)
		}
		if _, err := part.Write(a.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write attachment %s: %w", a.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

func decodeBody(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return invalidResponseBody
	}
	return json.RawMessage(trimmed)
}
