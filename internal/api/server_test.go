package api

import (
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitaplik/kitaplik-server/internal/auth"
	"github.com/kitaplik/kitaplik-server/internal/cache"
	"github.com/kitaplik/kitaplik-server/internal/search"
	"github.com/kitaplik/kitaplik-server/internal/service"
	"github.com/kitaplik/kitaplik-server/internal/store/sqlite"
)

const testTokenKey = "abababababababababababababababababababababababababababababababab"

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

func setupTestServer(t *testing.T, extRPS float64, extBurst int) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c, err := cache.Open("", logger)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	idx, err := search.NewIndex(search.Options{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	dispatcher := cache.NewDispatcher(c, logger)

	services := &Services{
		Book:        service.NewBookService(st, idx, c, dispatcher, logger),
		Shelf:       service.NewShelfService(st, dispatcher, logger),
		ReadingList: service.NewReadingListService(st, c, dispatcher, logger),
		Resolver:    service.NewResolverService(st, dispatcher, logger),
		Challenge:   service.NewChallengeService(st, c, dispatcher, logger),
		Rating:      service.NewRatingService(st, dispatcher, logger),
		Quote:       service.NewQuoteService(st, logger),
		Stats:       service.NewStatsService(st, c, logger),
		APIKey:      service.NewAPIKeyService(st, logger),
	}

	verifier, err := auth.NewVerifier(testTokenKey)
	require.NoError(t, err)

	s := NewServer(Options{
		Store:          st,
		Services:       services,
		Index:          idx,
		Verifier:       verifier,
		CORSOrigins:    []string{"*"},
		ExtensionRPS:   extRPS,
		ExtensionBurst: extBurst,
		Logger:         logger,
	})

	return &testServer{Server: s, api: humatest.Wrap(t, s.api)}
}

// issueToken plays the identity service and mints a token for userID.
func issueToken(t *testing.T, userID string) string {
	t.Helper()

	keyBytes, err := hex.DecodeString(testTokenKey)
	require.NoError(t, err)
	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	require.NoError(t, err)

	now := time.Now()
	token := paseto.NewToken()
	token.SetIssuer("kitaplik-id")
	token.SetAudience("kitaplik-server")
	token.SetSubject(userID)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(time.Hour))
	_ = token.Set("user_id", userID)
	_ = token.Set("email", userID+"@example.com")

	return token.V4Encrypt(key, nil)
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

// === Tests ===

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, 100, 100)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	health := decode[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
}

func TestBooks_RequireAuth(t *testing.T) {
	ts := setupTestServer(t, 100, 100)

	resp := ts.api.Get("/api/v1/books")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/books", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestBooks_CreateAndGet(t *testing.T) {
	ts := setupTestServer(t, 100, 100)
	token := issueToken(t, "user-1")

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title":      "Tutunamayanlar",
		"author":     "Oğuz Atay",
		"page_count": 724,
	}, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, "create failed: %s", resp.Body.String())

	created := decode[bookBody](t, resp.Body.Bytes())
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "to-read", created.Status)

	resp = ts.api.Get("/api/v1/books/"+created.ID, bearer(token))
	assert.Equal(t, http.StatusOK, resp.Code)

	got := decode[bookBody](t, resp.Body.Bytes())
	assert.Equal(t, "Tutunamayanlar", got.Title)
}

type bookBody struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

func TestBooks_HiddenAcrossUsers(t *testing.T) {
	ts := setupTestServer(t, 100, 100)

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title": "Kürk Mantolu Madonna",
	}, bearer(issueToken(t, "owner")))
	require.Equal(t, http.StatusOK, resp.Code)
	created := decode[bookBody](t, resp.Body.Bytes())

	// Another user sees 404, indistinguishable from a missing book.
	resp = ts.api.Get("/api/v1/books/"+created.ID, bearer(issueToken(t, "stranger")))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/books/no-such-book", bearer(issueToken(t, "stranger")))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBooks_ValidationError(t *testing.T) {
	ts := setupTestServer(t, 100, 100)
	token := issueToken(t, "user-1")

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title": strings.Repeat("x", 501),
	}, bearer(token))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestExtension_KeyLifecycle(t *testing.T) {
	ts := setupTestServer(t, 100, 100)
	token := issueToken(t, "user-1")

	// Create a key over the bearer-authenticated API.
	resp := ts.api.Post("/api/v1/keys", map[string]any{
		"name": "firefox",
	}, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, "create key failed: %s", resp.Body.String())

	created := decode[CreateAPIKeyResponse](t, resp.Body.Bytes())
	require.NotEmpty(t, created.Plaintext)
	assert.True(t, strings.HasPrefix(created.Plaintext, "ktp_"))

	// The key authenticates extension requests.
	resp = ts.api.Post("/ext/v1/books", map[string]any{
		"title":  "Saatleri Ayarlama Enstitüsü",
		"author": "Ahmet Hamdi Tanpınar",
	}, "X-API-Key: "+created.Plaintext)
	require.Equal(t, http.StatusOK, resp.Code, "ext import failed: %s", resp.Body.String())

	imported := decode[bookBody](t, resp.Body.Bytes())

	// Imported books land in the key owner's library.
	resp = ts.api.Get("/api/v1/books/"+imported.ID, bearer(token))
	assert.Equal(t, http.StatusOK, resp.Code)

	// Revoking the key cuts access immediately.
	resp = ts.api.Delete("/api/v1/keys/"+created.Key.ID, bearer(token))
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Post("/ext/v1/books", map[string]any{
		"title": "whatever",
	}, "X-API-Key: "+created.Plaintext)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestExtension_Lookup(t *testing.T) {
	ts := setupTestServer(t, 100, 100)
	token := issueToken(t, "user-1")

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title":  "Beyaz Kale",
		"author": "Orhan Pamuk",
	}, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/keys", map[string]any{"name": "ext"}, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	key := decode[CreateAPIKeyResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/ext/v1/lookup", map[string]any{
		"title":  "Beyaz Kale",
		"author": "Orhan Pamuk",
	}, "X-API-Key: "+key.Plaintext)
	require.Equal(t, http.StatusOK, resp.Code)

	lookup := decode[ExtLookupResponse](t, resp.Body.Bytes())
	require.NotNil(t, lookup.Book)
	assert.Equal(t, "Beyaz Kale", lookup.Book.Title)
	require.NotNil(t, lookup.Confidence)
	assert.True(t, lookup.Confidence.AutoLinkable)

	// A title nothing resembles yields no match.
	resp = ts.api.Post("/ext/v1/lookup", map[string]any{
		"title": "Zzz Qqq Www",
	}, "X-API-Key: "+key.Plaintext)
	require.Equal(t, http.StatusOK, resp.Code)

	lookup = decode[ExtLookupResponse](t, resp.Body.Bytes())
	assert.Nil(t, lookup.Book)
}

func TestExtension_RateLimited(t *testing.T) {
	// One request of burst, then effectively no refill.
	ts := setupTestServer(t, 0.001, 1)
	token := issueToken(t, "user-1")

	resp := ts.api.Post("/api/v1/keys", map[string]any{"name": "ext"}, bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	key := decode[CreateAPIKeyResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/ext/v1/lookup", map[string]any{"title": "x"}, "X-API-Key: "+key.Plaintext)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/ext/v1/lookup", map[string]any{"title": "x"}, "X-API-Key: "+key.Plaintext)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}

func TestSearch_ScopedToUser(t *testing.T) {
	ts := setupTestServer(t, 100, 100)

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title": "İnce Memed", "author": "Yaşar Kemal",
	}, bearer(issueToken(t, "user-1")))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/search?q=memed", bearer(issueToken(t, "user-1")))
	require.Equal(t, http.StatusOK, resp.Code)
	result := decode[search.Result](t, resp.Body.Bytes())
	assert.Equal(t, uint64(1), result.Total)

	resp = ts.api.Get("/api/v1/search?q=memed", bearer(issueToken(t, "user-2")))
	require.Equal(t, http.StatusOK, resp.Code)
	result = decode[search.Result](t, resp.Body.Bytes())
	assert.Equal(t, uint64(0), result.Total)
}
