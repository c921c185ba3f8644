package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sternrassler/pokeforge-client/internal/testutil"
	"github.com/Sternrassler/pokeforge-client/pkg/pokeforge"
)

// runCLI executes the CLI against mock with an isolated HOME.
func runCLI(t *testing.T, mock *testutil.MockAPI, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	full := append([]string{"--base-url", mock.URL(), "--retries", "0", "--log-level", "disabled"}, args...)
	err := Run(context.Background(), full, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func sampleCards(n int) []pokeforge.Card {
	cards := make([]pokeforge.Card, n)
	for i := range cards {
		cards[i] = pokeforge.Card{
			ID:     fmt.Sprintf("base1-%d", i+1),
			Name:   fmt.Sprintf("Card %d", i+1),
			Number: fmt.Sprintf("%d", i+1),
			SetID:  "base1",
			Rarity: "Common",
		}
	}
	return cards
}

func TestHealth(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/health", testutil.MockResponse{StatusCode: http.StatusOK})

	out, _, err := runCLI(t, mock, "health", "-o", "json")
	require.NoError(t, err)

	var status map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "ok", status["status"])
}

func TestHealth_Failure(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/health", testutil.NewServerErrorResponse())

	_, _, err := runCLI(t, mock, "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health check failed")
}

func TestCardsList_Table(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.Handle("/Cards", testutil.PaginateHandler(sampleCards(30)))

	out, _, err := runCLI(t, mock, "cards", "list", "--set", "base1", "--sort", "number", "--order", "desc")
	require.NoError(t, err)

	assert.Contains(t, out, "base1-1")
	assert.Contains(t, out, "base1-20")
	assert.NotContains(t, out, "base1-21")
	assert.Contains(t, out, "Showing page 1 of 2 (30 total)")

	q := mock.LastRequest().URL.Query()
	assert.Equal(t, "base1", q.Get("setId"))
	assert.Equal(t, "Number", q.Get("sortBy"))
	assert.Equal(t, "Desc", q.Get("sortOrder"))
}

func TestCardsList_AllJSON(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.Handle("/Cards", testutil.PaginateHandler(sampleCards(45)))

	out, _, err := runCLI(t, mock, "cards", "list", "--all", "--page-size", "10", "-o", "json")
	require.NoError(t, err)

	var result struct {
		Data []pokeforge.Card `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Data, 45)
	assert.Equal(t, "base1-45", result.Data[44].ID)
	assert.Equal(t, 5, mock.RequestCount())
}

func TestCardsList_InvalidSort(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	_, _, err := runCLI(t, mock, "cards", "list", "--sort", "price")
	assert.EqualError(t, err, `invalid sort field "price" (want name, number, rarity or set)`)
	assert.Equal(t, 0, mock.RequestCount())
}

func TestCardsGet_YAML(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/Cards/base1-4", testutil.NewJSONResponse(
		`{"data":{"id":"base1-4","name":"Charizard","hp":120,"imageUrlStandard":"https://img/4.png"}}`))

	out, _, err := runCLI(t, mock, "cards", "get", "base1-4", "-o", "yaml")
	require.NoError(t, err)

	var card map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &card))
	assert.Equal(t, "Charizard", card["name"])
	assert.Equal(t, 120, card["hp"])
	assert.Equal(t, "https://img/4.png", card["imageUrlStandard"])
}

func TestCardsGet_NotFound(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/Cards/nope", testutil.NewJSONResponse(`{"data":null}`))

	_, _, err := runCLI(t, mock, "cards", "get", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Card not found")
}

func TestCardsVariantsAndFilters(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/Cards/c1/variants", testutil.NewJSONResponse(`{"variants":[{"id":"c1-h","variantTypeName":"Holo"}]}`))
	mock.SetResponse("/Cards/filters", testutil.NewJSONResponse(`{"data":{"rarities":["Common","Rare"]}}`))

	out, _, err := runCLI(t, mock, "cards", "variants", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "Holo")

	out, _, err = runCLI(t, mock, "cards", "filters")
	require.NoError(t, err)
	assert.Contains(t, out, "Common, Rare")
}

func TestCardsSearch(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.Handle("/Cards/search", testutil.PaginateHandler(sampleCards(2)))

	_, _, err := runCLI(t, mock, "cards", "search", "pika", "--set", "base1")
	require.NoError(t, err)

	q := mock.LastRequest().URL.Query()
	assert.Equal(t, "pika", q.Get("q"))
	assert.Equal(t, "base1", q.Get("setId"))
}

func TestSetsGet_BySlug(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/Sets/slug/base-set", testutil.NewJSONResponse(
		`{"data":{"id":"base1","name":"Base Set","releaseDate":"1999-01-09","totalCards":102}}`))

	out, _, err := runCLI(t, mock, "sets", "get", "--slug", "base-set")
	require.NoError(t, err)
	assert.Contains(t, out, "Base Set")
	assert.Contains(t, out, "1999-01-09")
}

func TestBlogList_UsesLimit(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.Handle("/Blog", testutil.PaginateHandler([]pokeforge.BlogPost{{ID: "p1", Title: "Launch"}}))

	out, _, err := runCLI(t, mock, "blog", "list", "--limit", "5", "--category", "news")
	require.NoError(t, err)
	assert.Contains(t, out, "Launch")

	q := mock.LastRequest().URL.Query()
	assert.Equal(t, "5", q.Get("limit"))
	assert.Equal(t, "news", q.Get("category"))
}

func TestCollectionsItems(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.Handle("/Collections/c1/items", testutil.PaginateHandler([]pokeforge.CollectionItem{
		{ID: "i1", Card: pokeforge.CollectionItemCard{ID: "card-1", Name: "Pikachu"}, Quantity: 2, Condition: pokeforge.NearMint},
	}))

	out, _, err := runCLI(t, mock, "--token", "secret", "collections", "items", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "Pikachu")
	assert.Contains(t, out, "NM")
	assert.Equal(t, "Bearer secret", mock.LastRequest().Header.Get("Authorization"))
}

func TestCollectionsList_InvalidType(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	_, _, err := runCLI(t, mock, "collections", "list", "--type", "binder")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid collection type")
}

func TestFavoritesCheck(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/Favorites/check", testutil.NewJSONResponse(`{"isFavorited":true}`))

	out, _, err := runCLI(t, mock, "favorites", "check", "card-1", "-o", "json")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, true, result["isFavorited"])
}

func TestArtistsList(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.Handle("/Artists", testutil.PaginateHandler([]pokeforge.Artist{{Name: "Mitsuhiro Arita", TotalCards: 250}}))

	out, _, err := runCLI(t, mock, "artists", "list", "--search", "arita")
	require.NoError(t, err)
	assert.Contains(t, out, "Mitsuhiro Arita")
}

func TestInvalidOutputFormat(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	_, _, err := runCLI(t, mock, "health", "-o", "xml")
	assert.EqualError(t, err, `unsupported output format "xml" (want table, json or yaml)`)
}

func TestConfigPrecedence(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/Favorites/check", testutil.NewJSONResponse(`{"isFavorited":false}`))

	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".pokeforge"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".pokeforge", "config.yaml"),
		[]byte("base-url: "+mock.URL()+"\ntoken: file-token\nretries: 0\nlog-level: disabled\n"), 0o600))

	run := func(args ...string) {
		t.Helper()
		var stdout, stderr bytes.Buffer
		require.NoError(t, Run(context.Background(), args, &stdout, &stderr))
	}

	run("favorites", "check", "c1")
	assert.Equal(t, "Bearer file-token", mock.LastRequest().Header.Get("Authorization"))

	t.Setenv("POKEFORGE_TOKEN", "env-token")
	run("favorites", "check", "c1")
	assert.Equal(t, "Bearer env-token", mock.LastRequest().Header.Get("Authorization"))

	run("--token", "flag-token", "favorites", "check", "c1")
	assert.Equal(t, "Bearer flag-token", mock.LastRequest().Header.Get("Authorization"))
}

func TestExplicitConfigMissing(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	_, _, err := runCLI(t, mock, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestMetricsFlag(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/health", testutil.MockResponse{StatusCode: http.StatusOK})

	_, stderr, err := runCLI(t, mock, "--metrics", "health")
	require.NoError(t, err)
	assert.Contains(t, stderr, "pokeforge_requests_total")
}

const defaultTestTimeout = 2 * time.Second

func newProxyApp(t *testing.T, mock *testutil.MockAPI) (*App, *pokeforge.Client) {
	t.Helper()
	app := newApp(&bytes.Buffer{}, &bytes.Buffer{})
	app.settings = Settings{BaseURL: mock.URL(), Token: "operator-token", Timeout: defaultTestTimeout, Retries: 0, Output: OutputFormatJSON}
	pf, err := app.client()
	require.NoError(t, err)
	t.Cleanup(app.close)
	return app, pf
}

func TestProxy(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.Handle("/Cards", testutil.PaginateHandler(sampleCards(3)))
	mock.SetResponse("/health", testutil.MockResponse{StatusCode: http.StatusOK})
	mock.SetResponse("/Sets/limited", testutil.NewRateLimitResponse(7))

	app, pf := newProxyApp(t, mock)
	mux := app.proxyMux(pf)

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("proxied get keeps query", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/Cards?setId=base1&pageSize=2", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), `"base1-2"`)

		q := mock.LastRequest().URL.Query()
		assert.Equal(t, "base1", q.Get("setId"))
		assert.Equal(t, "2", q.Get("pageSize"))
	})

	t.Run("configured token not forwarded", func(t *testing.T) {
		mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/Cards", nil))
		assert.Empty(t, mock.LastRequest().Header.Get("Authorization"))

		req := httptest.NewRequest(http.MethodGet, "/api/Cards", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		mux.ServeHTTP(httptest.NewRecorder(), req)
		assert.Empty(t, mock.LastRequest().Header.Get("Authorization"))
	})

	t.Run("caller token forwarded", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/Cards", nil)
		req.Header.Set("Authorization", "Bearer caller")
		mux.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "Bearer caller", mock.LastRequest().Header.Get("Authorization"))
	})

	t.Run("upstream error mapped", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/Sets/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	})

	t.Run("rate limit keeps retry-after", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/Sets/limited", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "7", w.Header().Get("Retry-After"))
	})

	t.Run("non-get rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/Cards", strings.NewReader("{}")))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, http.MethodGet, w.Header().Get("Allow"))
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "pokeforge_requests_total")
	})
}

func TestProxy_NotReady(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/health", testutil.NewServerErrorResponse())

	app, pf := newProxyApp(t, mock)

	w := httptest.NewRecorder()
	app.proxyMux(pf).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLogging_ComponentLogger(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/health", testutil.NewServerErrorResponse())
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), []string{"--base-url", mock.URL(), "--retries", "0", "--log-level", "warn", "health"}, &stdout, &stderr)
	require.Error(t, err)

	assert.Contains(t, stderr.String(), `"component":"pokeforge-cli"`)
	assert.Contains(t, stderr.String(), "PokeForge request error")
}
