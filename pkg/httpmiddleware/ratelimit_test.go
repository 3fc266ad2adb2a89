package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hitCart sends one request through the limited handler, posing as client.
func hitCart(t *testing.T, h http.Handler, client string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.RemoteAddr = client
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func limitedHandler(max int) http.Handler {
	return RateLimit(RateLimitConfig{Max: max, Window: time.Minute})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)
}

func TestRateLimit_BurstWithinLimit(t *testing.T) {
	h := limitedHandler(5)

	for i := range 5 {
		w := hitCart(t, h, "192.168.1.1:12345")
		assert.Equal(t, http.StatusOK, w.Code, "request %d must pass", i+1)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimit_ExhaustedClientGets429(t *testing.T) {
	h := limitedHandler(2)

	for range 2 {
		require.Equal(t, http.StatusOK, hitCart(t, h, "10.0.0.1:9999").Code)
	}

	w := hitCart(t, h, "10.0.0.1:9999")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// The body carries the API error envelope.
	var code int
	var message string
	d := jx.DecodeBytes(w.Body.Bytes())
	require.NoError(t, d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "code":
			code, err = d.Int()
		case "message":
			message, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}))
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "rate limit exceeded", message)
}

func TestRateLimit_ClientsAreIndependent(t *testing.T) {
	h := limitedHandler(1)

	assert.Equal(t, http.StatusOK, hitCart(t, h, "10.0.0.1:1234").Code)
	// A different client has its own window.
	assert.Equal(t, http.StatusOK, hitCart(t, h, "10.0.0.2:1234").Code)
	// The first client is exhausted regardless of its source port.
	assert.Equal(t, http.StatusTooManyRequests, hitCart(t, h, "10.0.0.1:5678").Code)
}

func TestRateLimit_KeyedBySessionHeader(t *testing.T) {
	// Cart traffic behind one storefront proxy arrives from a single IP;
	// keying on the session header keeps shoppers independent.
	h := RateLimit(RateLimitConfig{
		Max:    1,
		Window: time.Minute,
		KeyFunc: func(r *http.Request) string {
			return r.Header.Get("X-Session-ID")
		},
	})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(session string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items", nil)
		req.RemoteAddr = "203.0.113.7:443"
		req.Header.Set("X-Session-ID", session)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("shopper-a"))
	assert.Equal(t, http.StatusTooManyRequests, send("shopper-a"))
	assert.Equal(t, http.StatusOK, send("shopper-b"))
}

func TestRateLimit_ForwardedForTakesPrecedence(t *testing.T) {
	h := limitedHandler(1)

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.RemoteAddr = remoteAddr
		req.Header.Set("X-Forwarded-For", "203.0.113.50, 70.41.3.18")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("192.168.1.1:4444"))
	// Same forwarded client, different proxy hop: still the same budget.
	assert.Equal(t, http.StatusTooManyRequests, send("192.168.1.2:5555"))
}

func TestRateLimiter_SlidingWindowRotation(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 2, Window: time.Minute})
	base := time.Unix(1_700_000_000, 0).Truncate(time.Minute)

	_, _, allowed := rl.allow("shopper", base)
	require.True(t, allowed)
	_, _, allowed = rl.allow("shopper", base.Add(time.Second))
	require.True(t, allowed)
	_, _, allowed = rl.allow("shopper", base.Add(2*time.Second))
	assert.False(t, allowed, "third request inside the window must be rejected")

	// Two full windows later the client's history has aged out.
	_, _, allowed = rl.allow("shopper", base.Add(2*time.Minute))
	assert.True(t, allowed)
}

func TestRateLimiter_CleanupEvictsStaleClients(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	now := time.Unix(1_700_000_000, 0)

	rl.allow("stale", now)
	rl.allow("fresh", now.Add(2*time.Minute))
	rl.cleanup(now.Add(2 * time.Minute))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.entries, "stale")
	assert.Contains(t, rl.entries, "fresh")
}
