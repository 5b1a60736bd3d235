package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"stockresearch/internal/auth"
	"stockresearch/internal/cache"
	"stockresearch/internal/handler"
	"stockresearch/internal/research"
	"stockresearch/internal/router"
	"stockresearch/internal/service"
)

type codeRecorder struct {
	mu    sync.Mutex
	codes map[string]string
}

func (r *codeRecorder) SendCode(_ context.Context, email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.codes == nil {
		r.codes = make(map[string]string)
	}
	r.codes[email] = code
	return nil
}

func (r *codeRecorder) code(email string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.codes[email]
}

type harness struct {
	server *httptest.Server
	sender *codeRecorder
	dir    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := cache.NewMemory()
	sender := &codeRecorder{}
	authService := service.NewAuthService(
		auth.NewChallengeStore(store),
		auth.NewSessionStore(store),
		auth.NewJWTService("cli-test-secret"),
		sender,
		service.WithCodeHashCost(bcrypt.MinCost),
	)
	catalog := research.NewStaticCatalog(nil)

	e := echo.New()
	router.Register(e, zerolog.Nop(), authService,
		handler.NewAuthHandler(authService, handler.CookieConfig{MaxAge: time.Hour}, zerolog.Nop()),
		handler.NewResearchHandler(service.NewResearchService(catalog, research.NewEngine(catalog), time.Now())),
	)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &harness{server: srv, sender: sender, dir: t.TempDir()}
}

// run executes one client invocation, like a fresh process.
func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{
		"--server", h.server.URL,
		"--db", filepath.Join(h.dir, "client.db"),
		"--config", h.dir,
	}, args...)
	err := Execute(context.Background(), full, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func (h *harness) login(t *testing.T, email string) string {
	t.Helper()
	out, _, err := h.run(t, "login", email)
	require.NoError(t, err)
	assert.Contains(t, out, "One-time login code sent. Check your email inbox.")

	out, _, err = h.run(t, "verify", h.sender.code(email))
	require.NoError(t, err)
	return out
}

func assertOrder(t *testing.T, out string, symbols ...string) {
	t.Helper()
	last := -1
	for _, s := range symbols {
		idx := strings.Index(out, s+" ·")
		require.GreaterOrEqual(t, idx, 0, "%s missing from board", s)
		assert.Greater(t, idx, last, "%s out of order", s)
		last = idx
	}
}

func TestCLI_BoardLifecycle(t *testing.T) {
	h := newHarness(t)

	out := h.login(t, "a@b.c")
	assert.Contains(t, out, "Logged in as a@b.c")
	assert.Contains(t, out, "NVDA · NVIDIA Corporation")
	assert.Contains(t, out, "Stock of the Day")

	_, _, err := h.run(t, "research", "msft")
	require.NoError(t, err)
	out, stderr, err := h.run(t, "research", " aapl ")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Researching...")
	assertOrder(t, out, "AAPL", "MSFT", "NVDA")

	// A fresh run restores the saved board in order.
	out, _, err = h.run(t, "board")
	require.NoError(t, err)
	assertOrder(t, out, "AAPL", "MSFT", "NVDA")
	assert.NotContains(t, out, "Researching...")

	// The daily pick cannot be removed.
	out, _, err = h.run(t, "remove", "nvda")
	require.NoError(t, err)
	assertOrder(t, out, "AAPL", "MSFT", "NVDA")

	out, _, err = h.run(t, "remove", "msft")
	require.NoError(t, err)
	assert.NotContains(t, out, "MSFT ·")

	out, stderr, err = h.run(t, "research", "zzzz")
	var reported *ReportedError
	require.True(t, errors.As(err, &reported))
	assert.Contains(t, stderr, "Ticker not found")
	assertOrder(t, out, "AAPL", "NVDA")

	out, _, err = h.run(t, "search", "micro")
	require.NoError(t, err)
	assert.Contains(t, out, "MSFT")
	assert.Contains(t, out, "AMD")
}

func TestCLI_LogoutKeepsSavedTickers(t *testing.T) {
	h := newHarness(t)
	h.login(t, "a@b.c")
	_, _, err := h.run(t, "research", "ibm")
	require.NoError(t, err)

	out, _, err := h.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")

	out, _, err = h.run(t, "session")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")

	out, _, err = h.run(t, "board")
	var reported *ReportedError
	require.True(t, errors.As(err, &reported))
	assert.Contains(t, out, "Not signed in")

	// Suggestions fail quietly without a session.
	out, stderr, err := h.run(t, "search", "ap")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))
	assert.Empty(t, strings.TrimSpace(stderr))

	out = h.login(t, "a@b.c")
	assertOrder(t, out, "IBM", "NVDA")
}

func TestCLI_VerifyWrongCode(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run(t, "login", "a@b.c")
	require.NoError(t, err)

	wrong := "000000"
	if h.sender.code("a@b.c") == wrong {
		wrong = "000001"
	}
	_, stderr, err := h.run(t, "verify", wrong)
	require.Error(t, err)
	assert.Contains(t, stderr, "Invalid code. Please try again.")

	out, _, err := h.run(t, "session")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestCLI_UsersHaveSeparateBoards(t *testing.T) {
	h := newHarness(t)
	h.login(t, "one@x.io")
	_, _, err := h.run(t, "research", "jpm")
	require.NoError(t, err)
	_, _, err = h.run(t, "logout")
	require.NoError(t, err)

	out := h.login(t, "two@x.io")
	assert.NotContains(t, out, "JPM ·")
	assertOrder(t, out, "NVDA")
}
