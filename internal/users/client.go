package users

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jask/adminconsole/internal/errs"
	"github.com/jask/adminconsole/internal/observable"
)

const (
	DefaultBaseURL = "https://dummyjson.com/users"
	maxErrorBody   = 4 << 10
)

// HTTPDoer is the transport used by Client. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Token     string
	ListLimit int // appended as ?limit=N to list requests when > 0
	Timeout   time.Duration
	HTTP      HTTPDoer
	Log       *slog.Logger
}

// Client mirrors the remote users collection. It is the only writer of the
// published collection; local state changes only after the server confirms.
type Client struct {
	base  string
	token string
	limit int
	http  HTTPDoer
	log   *slog.Logger
	users *observable.Value[[]Record]

	seqMu     sync.Mutex
	issued    uint64
	published uint64
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	doer := opts.HTTP
	if doer == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		doer = &http.Client{Timeout: timeout}
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		base:  base,
		token: opts.Token,
		limit: opts.ListLimit,
		http:  doer,
		log:   log.With("component", "users"),
		users: observable.New([]Record{}),
	}
}

// Users is the published collection. Subscribers receive the current list
// immediately and every later change.
func (c *Client) Users() *observable.Value[[]Record] { return c.users }

// FetchAll reads the whole collection and publishes it in server order.
//
// Overlapping calls are sequenced: a response from an earlier-issued call that
// lands after a later-issued one is returned to its caller but not published.
func (c *Client) FetchAll(ctx context.Context) (ListResponse, error) {
	seq := c.nextSeq()

	target := c.base
	if c.limit > 0 {
		target += "?limit=" + strconv.Itoa(c.limit)
	}
	var res ListResponse
	if err := c.do(ctx, "list users", http.MethodGet, target, nil, &res); err != nil {
		return ListResponse{}, err
	}
	if res.Users == nil {
		res.Users = []Record{}
	}

	if c.publishIfLatest(seq, res.Users) {
		c.log.Info("users fetched", "count", len(res.Users))
	} else {
		c.log.Debug("stale users response dropped", "seq", seq)
	}
	return res, nil
}

// FetchOne reads a single record. It never touches the published collection.
func (c *Client) FetchOne(ctx context.Context, id int) (Record, error) {
	var rec Record
	if err := c.do(ctx, "get user", http.MethodGet, c.itemURL(id), nil, &rec); err != nil {
		if errs.IsNotFound(err) {
			return Record{}, fmt.Errorf("%w: %w", errs.NewNotFoundError(fmt.Sprintf("user %d not found", id)), err)
		}
		return Record{}, err
	}
	return rec, nil
}

// Create posts rec (its ID is ignored) and appends the echoed fields to the
// published collection under a locally assigned id of len(collection)+1.
// The local id wins over any id the server echoes. Returns the server echo.
func (c *Client) Create(ctx context.Context, rec Record) (Record, error) {
	body := Patch{FirstName: &rec.FirstName, LastName: &rec.LastName, Email: &rec.Email}
	var echo Patch
	if err := c.do(ctx, "add user", http.MethodPost, c.base+"/add", body, &echo); err != nil {
		return Record{}, err
	}

	var added Record
	c.users.Update(func(cur []Record) []Record {
		local := echo
		local.ID = nil
		added = local.Apply(Record{ID: len(cur) + 1})
		next := make([]Record, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, added)
	})
	c.log.Info("user added", "local_id", added.ID)
	return echo.Apply(Record{}), nil
}

// Update sends p and merges the server's echo into the record with the same id.
// An id missing from the collection is a silent no-op locally.
func (c *Client) Update(ctx context.Context, id int, p Patch) (Patch, error) {
	var echo Patch
	if err := c.do(ctx, "update user", http.MethodPut, c.itemURL(id), p, &echo); err != nil {
		return Patch{}, err
	}

	matched := false
	c.users.Update(func(cur []Record) []Record {
		next := make([]Record, len(cur))
		for i, r := range cur {
			if r.ID == id && !matched {
				r = echo.Apply(r)
				matched = true
			}
			next[i] = r
		}
		return next
	})
	c.log.Info("user updated", "id", id, "matched", matched)
	return echo, nil
}

// Delete removes the record remotely, then locally.
func (c *Client) Delete(ctx context.Context, id int) error {
	if err := c.do(ctx, "delete user", http.MethodDelete, c.itemURL(id), nil, nil); err != nil {
		return err
	}
	c.users.Update(func(cur []Record) []Record {
		next := make([]Record, 0, len(cur))
		for _, r := range cur {
			if r.ID != id {
				next = append(next, r)
			}
		}
		return next
	})
	c.log.Info("user deleted", "id", id)
	return nil
}

func (c *Client) itemURL(id int) string {
	return c.base + "/" + strconv.Itoa(id)
}

func (c *Client) nextSeq() uint64 {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	c.issued++
	return c.issued
}

func (c *Client) publishIfLatest(seq uint64, list []Record) bool {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	if seq < c.published {
		return false
	}
	c.published = seq
	c.users.Set(list)
	return true
}

func (c *Client) do(ctx context.Context, op, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := c.log.With("request_id", reqID, "method", method, "path", pathOf(target))
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("api request failed", "error", err)
		return &errs.TransportError{Op: op, Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()
	log.Debug("api request", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("api request rejected", "status", resp.StatusCode)
		return &errs.TransportError{
			Op:         op,
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return &errs.TransportError{Op: op, Method: method, URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

func pathOf(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	return u.Path
}
