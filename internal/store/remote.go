package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/types"
)

// DefaultResourcePath is where the application collection lives under the
// API base URL.
const DefaultResourcePath = "/JobApplication"

const (
	defaultRemoteTimeout = 10 * time.Second
	maxResponseBytes     = 4 << 20
	listAllPageSize      = 50
	listAllConcurrency   = 4
)

// RemoteOptions configures a RemoteStore.
type RemoteOptions struct {
	BaseURL      string
	ResourcePath string
	Timeout      time.Duration
	// RequestsPerSecond paces outgoing calls; zero means unlimited.
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
	Logger            logrus.FieldLogger
	Now               func() time.Time
}

// RemoteStore talks to a REST collection:
//
//	POST   {base}{resource}/All   {offset, limit}        -> {items, totalCount}
//	POST   {base}{resource}/      {company, position, status} -> record
//	PUT    {base}{resource}/      {id, dateApplied, company, position, status} -> record
//	DELETE {base}{resource}/{id}
//
// The server owns ids and timestamps. Records seen in any response are
// remembered so that Update can send the full record the PUT endpoint expects.
type RemoteStore struct {
	endpoint  string
	client    *http.Client
	limiter   *rate.Limiter
	validator *types.Validator
	log       logrus.FieldLogger

	mu   sync.Mutex
	seen map[types.ID]types.Application
}

// NewRemoteStore validates opts and builds a RemoteStore.
func NewRemoteStore(opts RemoteOptions) (*RemoteStore, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &TransportError{Op: "configure", URL: opts.BaseURL, Message: "invalid base URL", Cause: err}
	}

	resource := opts.ResourcePath
	if resource == "" {
		resource = DefaultResourcePath
	}
	if !strings.HasPrefix(resource, "/") {
		resource = "/" + resource
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultRemoteTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &RemoteStore{
		endpoint:  strings.TrimRight(opts.BaseURL, "/") + strings.TrimRight(resource, "/"),
		client:    client,
		limiter:   rate.NewLimiter(limit, burst),
		validator: types.NewValidator(opts.Now),
		log:       log.WithField("endpoint", strings.TrimRight(opts.BaseURL, "/")+resource),
		seen:      make(map[types.ID]types.Application),
	}, nil
}

type pageRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type createRequest struct {
	Company     string       `json:"company"`
	Position    string       `json:"position"`
	Status      types.Status `json:"status"`
	DateApplied types.Date   `json:"dateApplied,omitzero"`
	Notes       string       `json:"notes,omitempty"`
}

type updateRequest struct {
	ID          types.ID     `json:"id"`
	DateApplied types.Date   `json:"dateApplied"`
	Company     string       `json:"company"`
	Position    string       `json:"position"`
	Status      types.Status `json:"status"`
	Notes       string       `json:"notes,omitempty"`
}

// ListPage fetches one page. offset must be >= 0 and limit > 0.
func (s *RemoteStore) ListPage(ctx context.Context, offset, limit int) (types.PagedResult, error) {
	if offset < 0 {
		return types.PagedResult{}, &ErrInvalidArgument{Field: "offset", Message: "must be >= 0"}
	}
	if limit <= 0 {
		return types.PagedResult{}, &ErrInvalidArgument{Field: "limit", Message: "must be > 0"}
	}

	var page types.PagedResult
	if _, err := s.do(ctx, "list", http.MethodPost, s.endpoint+"/All", pageRequest{Offset: offset, Limit: limit}, &page); err != nil {
		return types.PagedResult{}, err
	}
	if page.Items == nil {
		page.Items = []types.Application{}
	}
	s.remember(page.Items...)
	return page, nil
}

// ListAll fetches the first page, then the remaining pages concurrently, and
// returns all records in server order. A server that returns fewer records
// than requested sets the page stride. Fewer records than the reported total
// is an error rather than a silently partial list.
func (s *RemoteStore) ListAll(ctx context.Context) ([]types.Application, error) {
	first, err := s.ListPage(ctx, 0, listAllPageSize)
	if err != nil {
		return nil, err
	}
	if first.TotalCount <= len(first.Items) {
		return first.Items, nil
	}

	stride := len(first.Items)
	if stride == 0 {
		return nil, s.incomplete(0, first.TotalCount)
	}

	pages := (first.TotalCount + stride - 1) / stride
	results := make([][]types.Application, pages)
	results[0] = first.Items

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listAllConcurrency)
	for p := 1; p < pages; p++ {
		p := p
		g.Go(func() error {
			page, err := s.ListPage(gctx, p*stride, stride)
			if err != nil {
				return err
			}
			results[p] = page.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]types.Application, 0, first.TotalCount)
	for _, items := range results {
		all = append(all, items...)
	}
	if len(all) < first.TotalCount {
		return nil, s.incomplete(len(all), first.TotalCount)
	}
	return all, nil
}

func (s *RemoteStore) incomplete(got, total int) error {
	return &TransportError{
		Op:      "list",
		URL:     s.endpoint + "/All",
		Message: fmt.Sprintf("incomplete listing: got %d of %d records", got, total),
	}
}

// Create validates f and posts it. The server assigns id and timestamps.
func (s *RemoteStore) Create(ctx context.Context, f types.NewApplication) (types.Application, error) {
	if err := s.validator.ValidateNew(f); err != nil {
		return types.Application{}, err
	}
	f = f.Normalize()
	if f.Status == "" {
		f.Status = types.DefaultStatus
	}

	body := createRequest{
		Company:     f.Company,
		Position:    f.Position,
		Status:      f.Status,
		DateApplied: f.DateApplied,
		Notes:       f.Notes,
	}

	var created types.Application
	decoded, err := s.do(ctx, "create", http.MethodPost, s.endpoint+"/", body, &created)
	if err != nil {
		return types.Application{}, err
	}
	if !decoded || created.ID == "" {
		return types.Application{}, &TransportError{Op: "create", URL: s.endpoint + "/", Message: "response did not contain the created record"}
	}
	s.remember(created)
	return created, nil
}

// Update merges p into the last seen version of the record and puts the
// full record. Ids never returned by this store fail with *ErrNotFound.
func (s *RemoteStore) Update(ctx context.Context, id types.ID, p types.ApplicationPatch) (types.Application, error) {
	if err := s.validator.ValidatePatch(p); err != nil {
		return types.Application{}, err
	}

	s.mu.Lock()
	current, ok := s.seen[id]
	s.mu.Unlock()
	if !ok {
		return types.Application{}, &ErrNotFound{ID: id}
	}

	merged := p.Apply(current)
	body := updateRequest{
		ID:          merged.ID,
		DateApplied: merged.DateApplied,
		Company:     merged.Company,
		Position:    merged.Position,
		Status:      merged.Status,
		Notes:       merged.Notes,
	}

	var updated types.Application
	decoded, err := s.do(ctx, "update", http.MethodPut, s.endpoint+"/", body, &updated)
	if isNotFoundStatus(err) {
		s.forget(id)
		return types.Application{}, &ErrNotFound{ID: id}
	}
	if err != nil {
		return types.Application{}, err
	}
	if !decoded || updated.ID == "" {
		updated = merged
	}
	s.remember(updated)
	return updated, nil
}

// Delete removes the record. A 404 from the server returns false.
func (s *RemoteStore) Delete(ctx context.Context, id types.ID) (bool, error) {
	target := s.endpoint + "/" + url.PathEscape(string(id))
	_, err := s.do(ctx, "delete", http.MethodDelete, target, nil, nil)
	if isNotFoundStatus(err) {
		s.forget(id)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.forget(id)
	return true, nil
}

func (s *RemoteStore) remember(apps ...types.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range apps {
		if a.ID != "" {
			s.seen[a.ID] = a
		}
	}
}

func (s *RemoteStore) forget(id types.ID) {
	s.mu.Lock()
	delete(s.seen, id)
	s.mu.Unlock()
}

// do sends a JSON request and decodes a JSON response into out. It reports
// whether a response body was decoded. Every failure is a *TransportError.
func (s *RemoteStore) do(ctx context.Context, op, method, target string, body, out interface{}) (bool, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return false, &TransportError{Op: op, URL: target, Cause: err}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return false, &TransportError{Op: op, URL: target, Message: "failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return false, &TransportError{Op: op, URL: target, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.WithError(err).WithField("op", op).Warn("request failed")
		return false, &TransportError{Op: op, URL: target, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return false, &TransportError{Op: op, URL: target, StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.WithFields(logrus.Fields{"op": op, "status": resp.StatusCode}).Warn("request rejected")
		return false, &TransportError{Op: op, URL: target, StatusCode: resp.StatusCode, Message: snippet(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, &TransportError{Op: op, URL: target, StatusCode: resp.StatusCode, Message: "failed to decode response", Cause: err}
	}
	return true, nil
}

func snippet(data []byte) string {
	const max = 200
	r := []rune(strings.TrimSpace(string(data)))
	if len(r) > max {
		return string(r[:max]) + "..."
	}
	return string(r)
}

// String identifies the store in logs.
func (s *RemoteStore) String() string {
	return fmt.Sprintf("remote(%s)", s.endpoint)
}
