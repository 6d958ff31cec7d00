package docdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/quickbite-app/quickbite-backend/pkg/config"
	pkgerrors "github.com/quickbite-app/quickbite-backend/pkg/errors"
)

const (
	headerProject = "X-Docdb-Project"
	headerAPIKey  = "X-Docdb-Key"
)

// Client is a thin REST client for the hosted document-database/storage
// service. It owns transport concerns only; callers decode the loosely-typed
// documents it returns.
type Client struct {
	endpoint  string
	projectID string
	apiKey    string
	database  string
	bucket    string
	http      *http.Client
}

// New builds a document-service client from configuration.
func New(cfg config.DocdbConfig) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("docdb endpoint is required")
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("docdb project id is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("docdb database id is required")
	}
	return &Client{
		endpoint:  endpoint,
		projectID: cfg.ProjectID,
		apiKey:    cfg.APIKey,
		database:  cfg.Database,
		bucket:    cfg.Bucket,
		http:      &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// ListDocuments returns documents from a collection matching the queries.
func (c *Client) ListDocuments(ctx context.Context, collection string, queries ...Query) (DocumentList, error) {
	values := url.Values{}
	for _, q := range queries {
		encoded, err := q.encode()
		if err != nil {
			return DocumentList{}, err
		}
		values.Add("queries[]", encoded)
	}

	path := c.collectionPath(collection) + "/documents"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	var list DocumentList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return DocumentList{}, err
	}
	return list, nil
}

// GetDocument fetches a single document by id.
func (c *Client) GetDocument(ctx context.Context, collection, documentID string) (Document, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id is required")
	}
	var doc Document
	if err := c.do(ctx, http.MethodGet, c.documentPath(collection, documentID), nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// CreateDocument inserts a document. An empty documentID asks the service to
// generate one.
func (c *Client) CreateDocument(ctx context.Context, collection, documentID string, data map[string]any) (Document, error) {
	if documentID == "" {
		documentID = "unique()"
	}
	payload := map[string]any{
		"documentId": documentID,
		"data":       data,
	}
	var doc Document
	if err := c.do(ctx, http.MethodPost, c.collectionPath(collection)+"/documents", payload, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateDocument applies a partial update to an existing document.
func (c *Client) UpdateDocument(ctx context.Context, collection, documentID string, data map[string]any) (Document, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id is required")
	}
	payload := map[string]any{"data": data}
	var doc Document
	if err := c.do(ctx, http.MethodPatch, c.documentPath(collection, documentID), payload, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document permanently.
func (c *Client) DeleteDocument(ctx context.Context, collection, documentID string) error {
	if strings.TrimSpace(documentID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "document id is required")
	}
	return c.do(ctx, http.MethodDelete, c.documentPath(collection, documentID), nil, nil)
}

// FileViewURL renders a public view URL for a stored file.
func (c *Client) FileViewURL(fileID string) string {
	return fmt.Sprintf("%s/storage/buckets/%s/files/%s/view?project=%s",
		c.endpoint, url.PathEscape(c.bucket), url.PathEscape(fileID), url.QueryEscape(c.projectID))
}

// InitialsAvatarURL renders the generated-initials avatar for a display name.
func (c *Client) InitialsAvatarURL(name string) string {
	if strings.TrimSpace(name) == "" {
		name = "User"
	}
	return fmt.Sprintf("%s/avatars/initials?name=%s&project=%s",
		c.endpoint, url.QueryEscape(name), url.QueryEscape(c.projectID))
}

// Ping verifies the service is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) collectionPath(collection string) string {
	return fmt.Sprintf("/databases/%s/collections/%s", url.PathEscape(c.database), url.PathEscape(collection))
}

func (c *Client) documentPath(collection, documentID string) string {
	return c.collectionPath(collection) + "/documents/" + url.PathEscape(documentID)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerProject, c.projectID)
	if c.apiKey != "" {
		req.Header.Set(headerAPIKey, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "document service unreachable")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding document service response")
	}
	return nil
}

type remoteError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	var remote remoteError
	_ = json.NewDecoder(resp.Body).Decode(&remote)

	message := remote.Message
	if message == "" {
		message = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, message)
	case resp.StatusCode >= 500:
		return pkgerrors.New(pkgerrors.CodeDependency, message)
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	}
}
