// Package api implements the HTTP client for the external persons REST
// backend. The backend is the sole authority over Person identity and
// persistence; this client only shapes requests and decodes responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cedoromal/persons-admin/internal/person"
)

// ErrNotFound is returned when the backend reports a missing record.
var ErrNotFound = errors.New("person not found")

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// UploadDescriptor is the one-time upload target issued by the backend for
// a CSV import attempt. It is consumed exactly once and never persisted.
type UploadDescriptor struct {
	UploadLink string `json:"uploadLink"`
	ObjName    string `json:"objName"`
}

// Client talks to the persons backend.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a Client for the given backend origin and path prefix.
// A nil httpClient gets a default with the given timeout.
func New(baseURL, pathPrefix string, timeout time.Duration, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend URL %q is not absolute", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + pathPrefix

	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{base: u, http: httpClient}, nil
}

// List fetches the persons matching the filter criteria. The backend
// defines the ordering; results are returned as received.
func (c *Client) List(ctx context.Context, f person.Filter) ([]person.Person, error) {
	var out []person.Person
	if err := c.do(ctx, http.MethodGet, "/persons", f.Query(), nil, "", &out); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	if out == nil {
		out = []person.Person{}
	}
	return out, nil
}

// Get fetches a single person by ID. Returns ErrNotFound for a missing
// record.
func (c *Client) Get(ctx context.Context, id int64) (person.Person, error) {
	var out person.Person
	if err := c.do(ctx, http.MethodGet, "/persons/"+strconv.FormatInt(id, 10), nil, nil, "", &out); err != nil {
		if errors.Is(err, ErrNotFound) {
			return person.Person{}, ErrNotFound
		}
		return person.Person{}, fmt.Errorf("get person %d: %w", id, err)
	}
	return out, nil
}

// Create persists a new person. The backend assigns the identity, which is
// reflected in the returned record.
func (c *Client) Create(ctx context.Context, p person.Person) (person.Person, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return person.Person{}, fmt.Errorf("encode person: %w", err)
	}

	var out person.Person
	if err := c.do(ctx, http.MethodPost, "/persons", nil, bytes.NewReader(body), "application/json", &out); err != nil {
		return person.Person{}, fmt.Errorf("create person: %w", err)
	}
	return out, nil
}

// Update replaces the person identified by p.PersonID.
func (c *Client) Update(ctx context.Context, p person.Person) error {
	if p.IsNew() {
		return errors.New("update requires a personId")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode person: %w", err)
	}

	path := "/persons/" + strconv.FormatInt(p.PersonID, 10)
	if err := c.do(ctx, http.MethodPut, path, nil, bytes.NewReader(body), "application/json", nil); err != nil {
		return fmt.Errorf("update person %d: %w", p.PersonID, err)
	}
	return nil
}

// Delete removes the person with the given ID.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/persons/"+strconv.FormatInt(id, 10), nil, nil, "", nil); err != nil {
		return fmt.Errorf("delete person %d: %w", id, err)
	}
	return nil
}

// UploadTarget requests a one-time upload descriptor for a CSV import.
func (c *Client) UploadTarget(ctx context.Context) (UploadDescriptor, error) {
	var out UploadDescriptor
	if err := c.do(ctx, http.MethodGet, "/persons/csv", nil, nil, "", &out); err != nil {
		return UploadDescriptor{}, fmt.Errorf("request upload target: %w", err)
	}
	if out.UploadLink == "" || out.ObjName == "" {
		return UploadDescriptor{}, errors.New("request upload target: backend returned an incomplete descriptor")
	}
	return out, nil
}

// Ingest asks the backend to process the previously uploaded object. The
// object name is the raw request body, mirroring the backend contract.
func (c *Client) Ingest(ctx context.Context, objName string) error {
	if err := c.do(ctx, http.MethodPost, "/persons/csv", nil, strings.NewReader(objName), "text/plain", nil); err != nil {
		return fmt.Errorf("ingest %s: %w", objName, err)
	}
	return nil
}

// do issues a request against the backend and decodes a JSON response into
// out when out is non-nil. Non-2xx statuses become StatusError, except 404
// which maps to ErrNotFound.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Bounded read: error bodies are for messages, not payloads.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
