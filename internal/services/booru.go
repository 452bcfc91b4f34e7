package services

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
	"time"

	"github.com/Tuukari/smotrelka34/internal/config"
	"github.com/Tuukari/smotrelka34/internal/models"
)

const (
	// PageSize 每次向上游请求的帖子数
	PageSize  = 40
	UserAgent = "BooruViewer/1.0"
)

// BooruService 上游 booru API 适配器
type BooruService struct {
	cfg    config.Config
	client *http.Client
	logger *slog.Logger
}

// NewBooruService 创建适配器，client 为 nil 时按配置超时新建
func NewBooruService(cfg config.Config, logger *slog.Logger, client *http.Client) *BooruService {
	if client == nil {
		timeout := cfg.UpstreamTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &BooruService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// FetchPosts 查询上游并归一化，任何失败都返回空列表而不是错误
func (s *BooruService) FetchPosts(ctx context.Context, source string, page int, tags string) []models.Post {
	backend := s.cfg.Backend(source)
	posts, err := s.fetch(ctx, backend, page, tags)
	if err != nil {
		s.logger.Warn("Error fetching posts", "source", backend.Name, "error", err)
		return []models.Post{}
	}
	return posts
}

func (s *BooruService) fetch(ctx context.Context, backend config.Backend, page int, tags string) ([]models.Post, error) {
	reqURL, err := buildQuery(backend, page, tags)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstream status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	raw, err := decodePayload(body)
	if err != nil {
		return nil, err
	}

	posts := make([]models.Post, 0, len(raw))
	for _, p := range raw {
		post, ok := normalizePost(backend, p)
		if backend.Name != config.DefaultBackend {
			s.logger.Debug("Upstream post", "source", backend.Name, "id", p["id"], "file_url", post.FileURL, "preview_url", post.PreviewURL)
		}
		if ok {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func buildQuery(backend config.Backend, page int, tags string) (string, error) {
	u, err := url.Parse(backend.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("page", "dapi")
	q.Set("s", "post")
	q.Set("q", "index")
	q.Set("pid", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(PageSize))
	q.Set("tags", tags)
	q.Set("json", "1")
	if backend.HasCredentials() {
		q.Set("api_key", backend.APIKey)
		q.Set("user_id", backend.UserID)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// decodePayload 接受裸数组或 {"post": [...]} 两种外层结构，其他形状视为空
func decodePayload(body []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	var list []any
	switch v := data.(type) {
	case []any:
		list = v
	case map[string]any:
		if inner, ok := v["post"].([]any); ok {
			list = inner
		}
	}

	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if p, ok := item.(map[string]any); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// normalizePost 缺少 file_url/preview_url 时用 directory+image 按模板补全，仍缺则丢弃
func normalizePost(backend config.Backend, p map[string]any) (models.Post, bool) {
	fileURL := stringField(p, "file_url")
	previewURL := stringField(p, "preview_url")

	dir := stringField(p, "directory")
	image := stringField(p, "image")
	canBuild := dir != "" && image != ""

	if fileURL == "" && canBuild {
		fileURL = backend.BuildImageURL(dir, image)
	}
	if previewURL == "" && canBuild {
		previewURL = backend.BuildThumbURL(dir, image)
	}

	post := models.Post{
		ID:         intField(p, "id"),
		PreviewURL: previewURL,
		FileURL:    fileURL,
		Tags:       stringField(p, "tags"),
		Width:      intField(p, "width"),
		Height:     intField(p, "height"),
	}
	return post, fileURL != "" && previewURL != ""
}

func stringField(p map[string]any, key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

func intField(p map[string]any, key string) *int64 {
	var (
		n   int64
		err error
	)
	switch v := p[key].(type) {
	case json.Number:
		n, err = v.Int64()
	case string:
		n, err = strconv.ParseInt(v, 10, 64)
	default:
		return nil
	}
	if err != nil {
		return nil
	}
	return &n
}
