package users_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/adminconsole/internal/errs"
	"github.com/jask/adminconsole/internal/logger"
	"github.com/jask/adminconsole/internal/stubapi"
	"github.com/jask/adminconsole/internal/users"
	"github.com/jask/adminconsole/pkg/helpers"
)

func testLog() *slog.Logger {
	return slog.New(logger.NewTestHandler(slog.LevelDebug))
}

func newStubClient(t *testing.T, seed ...users.Record) (*users.Client, *stubapi.Server) {
	t.Helper()
	stub := stubapi.New(testLog(), seed...)
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)
	c := users.NewClient(users.Options{BaseURL: srv.URL + "/users", Log: testLog(), Timeout: 2 * time.Second})
	return c, stub
}

func twoUsers() []users.Record {
	return []users.Record{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		{ID: 2, FirstName: "Alan", LastName: "Turing", Email: "alan@example.com"},
	}
}

func TestFetchAllPublishesServerOrder(t *testing.T) {
	ctx := context.Background()
	c, _ := newStubClient(t, twoUsers()...)

	var seen [][]users.Record
	c.Users().Subscribe(func(rs []users.Record) { seen = append(seen, rs) })
	require.Len(t, seen, 1)
	require.Empty(t, seen[0])

	res, err := c.FetchAll(ctx)
	require.NoError(t, err)
	require.Equal(t, twoUsers(), res.Users)
	require.Equal(t, 2, res.Total)
	require.Equal(t, twoUsers(), c.Users().Get())
	require.Len(t, seen, 2)
}

func TestFetchAllFailureLeavesCollection(t *testing.T) {
	ctx := context.Background()
	c, stub := newStubClient(t, twoUsers()...)
	_, err := c.FetchAll(ctx)
	require.NoError(t, err)

	stub.FailNext(http.MethodGet, http.StatusInternalServerError)
	_, err = c.FetchAll(ctx)
	require.Error(t, err)
	te, ok := errs.AsTransport(err)
	require.True(t, ok)
	require.Equal(t, http.StatusInternalServerError, te.StatusCode)
	require.Equal(t, twoUsers(), c.Users().Get())
}

func TestFetchAllHonoursListLimit(t *testing.T) {
	stub := stubapi.New(testLog(), stubapi.DefaultSeed()...)
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)
	c := users.NewClient(users.Options{BaseURL: srv.URL + "/users/", ListLimit: 3, Log: testLog()})

	res, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Users, 3)
	require.Equal(t, len(stubapi.DefaultSeed()), res.Total)
}

func TestFetchOne(t *testing.T) {
	ctx := context.Background()
	c, _ := newStubClient(t, twoUsers()...)

	rec, err := c.FetchOne(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Turing", rec.LastName)
	require.Empty(t, c.Users().Get(), "FetchOne must not publish")

	_, err = c.FetchOne(ctx, 99)
	require.Error(t, err)
	require.True(t, errs.IsNotFound(err))
}

func TestCreateAssignsLocalSequentialID(t *testing.T) {
	ctx := context.Background()
	seed := []users.Record{
		{ID: 10, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		{ID: 20, FirstName: "Alan", LastName: "Turing", Email: "alan@example.com"},
	}
	c, stub := newStubClient(t, seed...)
	_, err := c.FetchAll(ctx)
	require.NoError(t, err)

	echo, err := c.Create(ctx, users.Record{FirstName: "New", LastName: "Person", Email: "new@example.com"})
	require.NoError(t, err)
	require.Equal(t, 21, echo.ID, "server assigns its own id")

	got := c.Users().Get()
	require.Len(t, got, 3)
	require.Equal(t, users.Record{ID: 3, FirstName: "New", LastName: "Person", Email: "new@example.com"}, got[2])
	require.Len(t, stub.Snapshot(), 3)
}

func TestCreateFailureLeavesCollection(t *testing.T) {
	ctx := context.Background()
	c, stub := newStubClient(t, twoUsers()...)
	_, err := c.FetchAll(ctx)
	require.NoError(t, err)

	stub.FailNext(http.MethodPost, http.StatusBadRequest)
	_, err = c.Create(ctx, users.Record{FirstName: "X"})
	require.Error(t, err)
	require.Equal(t, twoUsers(), c.Users().Get())
}

func TestUpdateMergesEcho(t *testing.T) {
	ctx := context.Background()
	c, _ := newStubClient(t, twoUsers()...)
	_, err := c.FetchAll(ctx)
	require.NoError(t, err)

	echo, err := c.Update(ctx, 1, users.Patch{FirstName: helpers.Ptr("Augusta")})
	require.NoError(t, err)
	require.Equal(t, "Augusta", helpers.Value(echo.FirstName))

	got := c.Users().Get()
	require.Equal(t, users.Record{ID: 1, FirstName: "Augusta", LastName: "Lovelace", Email: "ada@example.com"}, got[0])
	require.Equal(t, twoUsers()[1], got[1])
}

func TestUpdateUnknownLocalIDIsNoop(t *testing.T) {
	ctx := context.Background()
	c, _ := newStubClient(t, twoUsers()...)
	_, err := c.FetchAll(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Delete(ctx, 1))

	_, err = c.Update(ctx, 1, users.Patch{FirstName: helpers.Ptr("Updated")})
	require.True(t, errs.IsNotFound(err))
	require.Len(t, c.Users().Get(), 1)
}

func TestUpdateServerOnlyRecordLeavesMirror(t *testing.T) {
	ctx := context.Background()
	c, _ := newStubClient(t, twoUsers()...)

	_, err := c.Update(ctx, 2, users.Patch{Email: helpers.Ptr("a@b.c")})
	require.NoError(t, err)
	require.Empty(t, c.Users().Get())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c, stub := newStubClient(t, twoUsers()...)
	_, err := c.FetchAll(ctx)
	require.NoError(t, err)

	stub.FailNext(http.MethodDelete, http.StatusInternalServerError)
	require.Error(t, c.Delete(ctx, 1))
	require.Len(t, c.Users().Get(), 2)

	require.NoError(t, c.Delete(ctx, 1))
	require.Equal(t, []users.Record{twoUsers()[1]}, c.Users().Get())

	err = c.Delete(ctx, 1)
	require.True(t, errs.IsNotFound(err))
	require.Len(t, c.Users().Get(), 1)
}

func TestNetworkFailureIsTransportError(t *testing.T) {
	c := users.NewClient(users.Options{BaseURL: "http://127.0.0.1:1/users", Log: testLog(), Timeout: time.Second})
	_, err := c.FetchAll(context.Background())
	te, ok := errs.AsTransport(err)
	require.True(t, ok)
	require.Zero(t, te.StatusCode)
	require.Error(t, te.Err)
}

// scriptedDoer answers each request with the next scripted body, optionally
// waiting on a gate first.
type scriptedDoer struct {
	reqs  chan *http.Request
	steps []scriptedStep
	n     int
}

type scriptedStep struct {
	gate chan struct{}
	body string
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	step := d.steps[d.n]
	d.n++
	if d.reqs != nil {
		d.reqs <- req
	}
	if step.gate != nil {
		<-step.gate
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(step.body)),
	}, nil
}

func TestStaleFetchIsNotPublished(t *testing.T) {
	gate := make(chan struct{})
	doer := &scriptedDoer{
		reqs: make(chan *http.Request, 2),
		steps: []scriptedStep{
			{gate: gate, body: `{"users":[{"id":1,"firstName":"Old"}]}`},
			{body: `{"users":[{"id":1,"firstName":"New"}]}`},
		},
	}
	c := users.NewClient(users.Options{BaseURL: "http://api/users", HTTP: doer, Log: testLog()})

	type result struct {
		res users.ListResponse
		err error
	}
	slow := make(chan result, 1)
	go func() {
		res, err := c.FetchAll(context.Background())
		slow <- result{res, err}
	}()
	<-doer.reqs

	_, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	<-doer.reqs
	require.Equal(t, "New", c.Users().Get()[0].FirstName)

	close(gate)
	got := <-slow
	require.NoError(t, got.err)
	require.Equal(t, "Old", got.res.Users[0].FirstName, "caller still gets its own response")
	require.Equal(t, "New", c.Users().Get()[0].FirstName)
}

func TestRequestHeaders(t *testing.T) {
	doer := &scriptedDoer{reqs: make(chan *http.Request, 1), steps: []scriptedStep{{body: `{"users":[]}`}}}
	c := users.NewClient(users.Options{BaseURL: "http://api/users", Token: "secret", HTTP: doer, Log: testLog()})

	_, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	req := <-doer.reqs
	require.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
	require.Equal(t, "application/json", req.Header.Get("Accept"))
	require.Len(t, req.Header.Get("X-Request-ID"), 36)
	require.NotNil(t, c.Users().Get())
}
