package riot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// newTestClient points a client at handler with no request spacing and a
// recording sleep.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", "americas", append([]Option{WithBaseURL(srv.URL)}, opts...)...)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	var slept []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestThrottledThenOK(t *testing.T) {
	var calls atomic.Int32
	c, slept := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "5")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`["BR1_1","BR1_2"]`))
	})

	ids, err := c.MatchIDs(context.Background(), "p1", 420, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"BR1_1", "BR1_2"}, ids)
	assert.EqualValues(t, 2, calls.Load(), "exactly one retry after the 429")
	assert.Equal(t, []time.Duration{7 * time.Second}, *slept, "retry-after plus margin")
	assert.EqualValues(t, 2, c.Requests())
}

func TestThrottledMissingRetryAfterUsesDefault(t *testing.T) {
	var calls atomic.Int32
	c, slept := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	})

	_, err := c.MatchIDs(context.Background(), "p1", 0, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{12 * time.Second}, *slept)
}

func TestThrottledRetryCap(t *testing.T) {
	var calls atomic.Int32
	c, slept := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}, WithMaxRetries(2))

	m, err := c.Match(context.Background(), "EUW1_1")
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.EqualValues(t, 3, calls.Load(), "first attempt plus two retries")
	assert.Len(t, *slept, 2)
}

func TestForbiddenIsFatal(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	m, err := c.Match(context.Background(), "KR_1")
	assert.Nil(t, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthFailed))
	assert.True(t, IsFatal(err))
}

func TestNotFoundAndServerErrorAreNoData(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		tl, err := c.Timeline(context.Background(), "NA1_9")
		assert.NoError(t, err, "status %d", status)
		assert.Nil(t, tl, "status %d", status)
	}
}

func TestNetworkFailureIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient("k", "asia", WithBaseURL(srv.URL))
	c.limiter = rate.NewLimiter(rate.Inf, 1)

	m, err := c.Match(context.Background(), "KR_1")
	assert.NoError(t, err)
	assert.Nil(t, m)
}

func TestUndecodableBodyIsNoData(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"info":`))
	})
	m, err := c.Match(context.Background(), "NA1_1")
	assert.NoError(t, err)
	assert.Nil(t, m)
}

func TestTokenHeaderAndRawBody(t *testing.T) {
	body := `{"metadata":{"matchId":"NA1_5"},"info":{"queueId":420,"gameDuration":1800}}`
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Riot-Token") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "/lol/match/v5/matches/NA1_5", r.URL.Path)
		w.Write([]byte(body))
	})

	m, err := c.Match(context.Background(), "NA1_5")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 420, m.Info.QueueID)
	assert.Equal(t, body, string(m.Raw()))
}

func TestSpacingNeverBelowMinimum(t *testing.T) {
	c := NewClient("k", "europe", WithSpacing(100*time.Millisecond))
	assert.Equal(t, rate.Every(MinSpacing), c.limiter.Limit())

	c = NewClient("k", "europe", WithSpacing(2*time.Second))
	assert.Equal(t, rate.Every(2*time.Second), c.limiter.Limit())
}

func TestCancelledWhileThrottled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c.sleep = sleepCtx

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := c.Match(ctx, "NA1_1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatchIDsQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lol/match/v5/matches/by-puuid/abc/ids", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("start"))
		assert.Equal(t, "30", r.URL.Query().Get("count"))
		assert.Equal(t, "440", r.URL.Query().Get("queue"))
		w.Write([]byte(`["X"]`))
	})
	ids, err := c.MatchIDs(context.Background(), "abc", 440, 0, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, ids)
}

func TestMasteryPointsDefaultsToZero(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/lol/champion-mastery/v4/champion-masteries/by-puuid/p1/by-champion/157" {
			w.Write([]byte(`{"championId":157,"championLevel":7,"championPoints":250000}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	pts, err := c.MasteryPoints(context.Background(), "na1", "p1", 157)
	require.NoError(t, err)
	assert.Equal(t, 250000, pts)

	pts, err = c.MasteryPoints(context.Background(), "na1", "p1", 1)
	require.NoError(t, err)
	assert.Zero(t, pts)
}
