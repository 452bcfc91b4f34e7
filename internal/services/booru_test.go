package services

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/Tuukari/smotrelka34/internal/config"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// testBooruConfig 把三个后端都指向同一个测试服务器
func testBooruConfig(baseURL string) config.Config {
	cfg := config.Config{
		SafebooruURL:   baseURL,
		GelbooruURL:    baseURL,
		GelbooruAPIKey: "gel-key",
		GelbooruUserID: "7",
		Rule34URL:      baseURL,
	}
	cfg.Backends = cfg.BuildBackends()
	return cfg
}

type upstreamRequest struct {
	Method string
	Query  url.Values
	Header http.Header
}

func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *upstreamRequest) {
	t.Helper()
	captured := &upstreamRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Query = r.URL.Query()
		captured.Header = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func TestFetchPostsExplicitURLs(t *testing.T) {
	body := `[{"id": 1, "file_url": "https://cdn.example/a.jpg", "preview_url": "https://cdn.example/a_t.jpg", "tags": "cat dog", "width": 800, "height": 600}]`

	for _, source := range []string{"safebooru", "gelbooru", "rule34"} {
		t.Run(source, func(t *testing.T) {
			server, _ := newUpstream(t, http.StatusOK, body)
			s := NewBooruService(testBooruConfig(server.URL), testLogger(), server.Client())

			posts := s.FetchPosts(context.Background(), source, 1, "cat")
			assert.Len(t, posts, 1)
			assert.Equal(t, "https://cdn.example/a.jpg", posts[0].FileURL)
			assert.Equal(t, "https://cdn.example/a_t.jpg", posts[0].PreviewURL)
			assert.Equal(t, "cat dog", posts[0].Tags)
			assert.Equal(t, int64(1), *posts[0].ID)
			assert.Equal(t, int64(800), *posts[0].Width)
			assert.Equal(t, int64(600), *posts[0].Height)
		})
	}
}

func TestFetchPostsFallbackURLs(t *testing.T) {
	body := `[{"id": 5, "directory": "ab12", "image": "img.png", "tags": "x"}]`

	cases := map[string][2]string{
		"safebooru": {"https://safebooru.org/images/ab12/img.png", "https://safebooru.org/thumbnails/ab12/thumbnail_img.png"},
		"gelbooru":  {"https://img3.gelbooru.com/images/ab12/img.png", "https://img3.gelbooru.com/thumbnails/ab12/thumbnail_img.png"},
		"rule34":    {"https://wimg.rule34.xxx/images/ab12/img.png", "https://wimg.rule34.xxx/thumbnails/ab12/thumbnail_img.png"},
	}

	for source, want := range cases {
		t.Run(source, func(t *testing.T) {
			server, _ := newUpstream(t, http.StatusOK, body)
			s := NewBooruService(testBooruConfig(server.URL), testLogger(), server.Client())

			posts := s.FetchPosts(context.Background(), source, 1, "")
			assert.Len(t, posts, 1)
			assert.Equal(t, want[0], posts[0].FileURL)
			assert.Equal(t, want[1], posts[0].PreviewURL)
		})
	}
}

func TestFetchPostsDropsIncomplete(t *testing.T) {
	body := `[
		{"id": 1, "file_url": "https://cdn.example/1.jpg", "preview_url": "https://cdn.example/1_t.jpg"},
		{"id": 2, "file_url": "https://cdn.example/2.jpg"},
		{"id": 3, "preview_url": "https://cdn.example/3_t.jpg"},
		{"id": 4, "directory": "d", "image": "4.jpg"},
		{"id": 5, "image": "5.jpg"}
	]`
	server, _ := newUpstream(t, http.StatusOK, body)
	s := NewBooruService(testBooruConfig(server.URL), testLogger(), server.Client())

	posts := s.FetchPosts(context.Background(), "safebooru", 1, "")
	assert.Len(t, posts, 2)
	assert.Equal(t, int64(1), *posts[0].ID)
	assert.Equal(t, int64(4), *posts[1].ID)
}

func TestFetchPostsEnvelope(t *testing.T) {
	t.Run("Object With Post List", func(t *testing.T) {
		body := `{"@attributes": {"count": 2}, "post": [
			{"id": "10", "file_url": "https://g/10.jpg", "preview_url": "https://g/10_t.jpg", "width": "100"},
			{"id": "11", "file_url": "https://g/11.jpg", "preview_url": "https://g/11_t.jpg"}
		]}`
		server, _ := newUpstream(t, http.StatusOK, body)
		s := NewBooruService(testBooruConfig(server.URL), testLogger(), server.Client())

		posts := s.FetchPosts(context.Background(), "gelbooru", 1, "")
		assert.Len(t, posts, 2)
		assert.Equal(t, int64(10), *posts[0].ID)
		assert.Equal(t, int64(100), *posts[0].Width)
		assert.Nil(t, posts[1].Width)
		assert.Equal(t, int64(11), *posts[1].ID)
	})

	t.Run("Object Without Post List", func(t *testing.T) {
		server, _ := newUpstream(t, http.StatusOK, `{"@attributes": {"count": 0}}`)
		s := NewBooruService(testBooruConfig(server.URL), testLogger(), server.Client())

		posts := s.FetchPosts(context.Background(), "gelbooru", 1, "")
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("Scalar Payload", func(t *testing.T) {
		server, _ := newUpstream(t, http.StatusOK, `"nothing"`)
		s := NewBooruService(testBooruConfig(server.URL), testLogger(), server.Client())

		assert.Empty(t, s.FetchPosts(context.Background(), "safebooru", 1, ""))
	})
}

func TestFetchPostsFailSoft(t *testing.T) {
	t.Run("Non Success Status", func(t *testing.T) {
		server, _ := newUpstream(t, http.StatusInternalServerError, `[{"file_url": "a", "preview_url": "b"}]`)
		s := NewBooruService(testBooruConfig(server.URL), testLogger(), server.Client())

		posts := s.FetchPosts(context.Background(), "safebooru", 1, "")
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		server, _ := newUpstream(t, http.StatusOK, `<posts></posts>`)
		s := NewBooruService(testBooruConfig(server.URL), testLogger(), server.Client())

		assert.Empty(t, s.FetchPosts(context.Background(), "safebooru", 1, ""))
	})

	t.Run("Empty Body", func(t *testing.T) {
		server, _ := newUpstream(t, http.StatusOK, ``)
		s := NewBooruService(testBooruConfig(server.URL), testLogger(), server.Client())

		assert.Empty(t, s.FetchPosts(context.Background(), "rule34", 1, ""))
	})

	t.Run("Connection Refused", func(t *testing.T) {
		s := NewBooruService(testBooruConfig("http://127.0.0.1:1/index.php"), testLogger(), nil)

		posts := s.FetchPosts(context.Background(), "safebooru", 1, "")
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})
}

func TestFetchPostsQuery(t *testing.T) {
	t.Run("Default Backend Without Credentials", func(t *testing.T) {
		server, captured := newUpstream(t, http.StatusOK, `[]`)
		s := NewBooruService(testBooruConfig(server.URL), testLogger(), server.Client())

		s.FetchPosts(context.Background(), "unknown-source", 3, "blue_sky rating:safe")

		q := captured.Query
		assert.Equal(t, http.MethodGet, captured.Method)
		assert.Equal(t, UserAgent, captured.Header.Get("User-Agent"))
		assert.Equal(t, "dapi", q.Get("page"))
		assert.Equal(t, "post", q.Get("s"))
		assert.Equal(t, "index", q.Get("q"))
		assert.Equal(t, "3", q.Get("pid"))
		assert.Equal(t, "40", q.Get("limit"))
		assert.Equal(t, "blue_sky rating:safe", q.Get("tags"))
		assert.Equal(t, "1", q.Get("json"))
		assert.False(t, q.Has("api_key"))
		assert.False(t, q.Has("user_id"))
	})

	t.Run("Page Zero Passed Through", func(t *testing.T) {
		server, captured := newUpstream(t, http.StatusOK, `[]`)
		s := NewBooruService(testBooruConfig(server.URL), testLogger(), server.Client())

		s.FetchPosts(context.Background(), "safebooru", 0, "")
		assert.Equal(t, "0", captured.Query.Get("pid"))
	})

	t.Run("Credentials Attached", func(t *testing.T) {
		server, captured := newUpstream(t, http.StatusOK, `[]`)
		s := NewBooruService(testBooruConfig(server.URL), testLogger(), server.Client())

		s.FetchPosts(context.Background(), "gelbooru", 1, "")

		q := captured.Query
		assert.Equal(t, "gel-key", q.Get("api_key"))
		assert.Equal(t, "7", q.Get("user_id"))
	})
}

func TestFetchPostsPreservesOrder(t *testing.T) {
	body := `[
		{"id": 3, "file_url": "f3", "preview_url": "p3"},
		{"id": 1, "file_url": "f1", "preview_url": "p1"},
		{"id": 2, "file_url": "f2", "preview_url": "p2"}
	]`
	server, _ := newUpstream(t, http.StatusOK, body)
	s := NewBooruService(testBooruConfig(server.URL), testLogger(), server.Client())

	posts := s.FetchPosts(context.Background(), "safebooru", 1, "")
	var ids []int64
	for _, p := range posts {
		ids = append(ids, *p.ID)
	}
	assert.Equal(t, []int64{3, 1, 2}, ids)
}

func TestFetchPostsDebugLog(t *testing.T) {
	body := `[{"id": 1, "file_url": "f1", "preview_url": "p1"}]`
	// rule34 在测试配置里没有凭据
	cases := map[string]bool{
		"safebooru": false,
		"gelbooru":  true,
		"rule34":    true,
	}
	for source, logged := range cases {
		t.Run(source, func(t *testing.T) {
			server, _ := newUpstream(t, http.StatusOK, body)
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			s := NewBooruService(testBooruConfig(server.URL), logger, server.Client())

			s.FetchPosts(context.Background(), source, 1, "")
			assert.Equal(t, logged, strings.Contains(buf.String(), "Upstream post"))
		})
	}
}
