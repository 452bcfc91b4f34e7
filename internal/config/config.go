package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultBackend 未知来源时使用的后端
const DefaultBackend = "safebooru"

// Backend 一个 booru 上游的地址、凭据与图片 URL 模板
type Backend struct {
	Name     string `validate:"required"`
	BaseURL  string `validate:"required,url"`
	ImageURL string `validate:"required"` // {dir} 和 {image} 会被替换
	ThumbURL string `validate:"required"`
	APIKey   string
	UserID   string
}

// HasCredentials 是否需要附带 api_key/user_id
func (b Backend) HasCredentials() bool {
	return b.APIKey != "" || b.UserID != ""
}

// BuildImageURL 根据 directory/image 拼出原图地址
func (b Backend) BuildImageURL(dir, image string) string {
	return expand(b.ImageURL, dir, image)
}

// BuildThumbURL 根据 directory/image 拼出缩略图地址
func (b Backend) BuildThumbURL(dir, image string) string {
	return expand(b.ThumbURL, dir, image)
}

func expand(tmpl, dir, image string) string {
	return strings.NewReplacer("{dir}", dir, "{image}", image).Replace(tmpl)
}

type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV"`
	Port            string        `mapstructure:"PORT" validate:"required"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL" validate:"required"`
	SessionSecret   string        `mapstructure:"SESSION_SECRET"`
	SiteNotice      string        `mapstructure:"SITE_NOTICE"`
	UpstreamTimeout time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`

	SafebooruURL   string `mapstructure:"SAFEBOORU_URL"`
	GelbooruURL    string `mapstructure:"GELBOORU_URL"`
	GelbooruAPIKey string `mapstructure:"GELBOORU_API_KEY"`
	GelbooruUserID string `mapstructure:"GELBOORU_USER_ID"`
	Rule34URL      string `mapstructure:"RULE34_URL"`
	Rule34APIKey   string `mapstructure:"RULE34_API_KEY"`
	Rule34UserID   string `mapstructure:"RULE34_USER_ID"`

	// 启动时生成一次，之后只读
	Backends map[string]Backend `mapstructure:"-" validate:"required,dive"`

	// 未设置 SESSION_SECRET 时为 true，调用方负责告警
	GeneratedSecret bool `mapstructure:"-"`
}

// Backend 返回指定名称的后端，未知名称回退到默认后端
func (c Config) Backend(name string) Backend {
	if b, ok := c.Backends[name]; ok {
		return b
	}
	return c.Backends[DefaultBackend]
}

func LoadConfig() (config Config, err error) {
	v := viper.New()
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("PORT", "5001")
	v.SetDefault("DATABASE_URL", "sqlite://smotrelka.db")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SITE_NOTICE", "")
	v.SetDefault("UPSTREAM_TIMEOUT", "15s")
	v.SetDefault("SAFEBOORU_URL", "https://safebooru.org/index.php")
	v.SetDefault("GELBOORU_URL", "https://gelbooru.com/index.php")
	v.SetDefault("GELBOORU_API_KEY", "")
	v.SetDefault("GELBOORU_USER_ID", "")
	v.SetDefault("RULE34_URL", "https://api.rule34.xxx/index.php")
	v.SetDefault("RULE34_API_KEY", "")
	v.SetDefault("RULE34_USER_ID", "")

	v.AutomaticEnv()

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unable to decode config: %w", err)
	}

	// Heroku 风格的 postgres:// 前缀
	if strings.HasPrefix(config.DatabaseURL, "postgres://") {
		config.DatabaseURL = "postgresql://" + strings.TrimPrefix(config.DatabaseURL, "postgres://")
	}

	if config.SessionSecret == "" {
		buf := make([]byte, 32)
		if _, err = rand.Read(buf); err != nil {
			return config, fmt.Errorf("generate session secret: %w", err)
		}
		config.SessionSecret = hex.EncodeToString(buf)
		config.GeneratedSecret = true
	}

	config.Backends = config.BuildBackends()

	if err = validator.New().Struct(config); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// BuildBackends 根据地址与凭据字段生成后端表
func (c Config) BuildBackends() map[string]Backend {
	return map[string]Backend{
		"safebooru": {
			Name:     "safebooru",
			BaseURL:  c.SafebooruURL,
			ImageURL: "https://safebooru.org/images/{dir}/{image}",
			ThumbURL: "https://safebooru.org/thumbnails/{dir}/thumbnail_{image}",
		},
		"gelbooru": {
			Name:     "gelbooru",
			BaseURL:  c.GelbooruURL,
			ImageURL: "https://img3.gelbooru.com/images/{dir}/{image}",
			ThumbURL: "https://img3.gelbooru.com/thumbnails/{dir}/thumbnail_{image}",
			APIKey:   c.GelbooruAPIKey,
			UserID:   c.GelbooruUserID,
		},
		"rule34": {
			Name:     "rule34",
			BaseURL:  c.Rule34URL,
			ImageURL: "https://wimg.rule34.xxx/images/{dir}/{image}",
			ThumbURL: "https://wimg.rule34.xxx/thumbnails/{dir}/thumbnail_{image}",
			APIKey:   c.Rule34APIKey,
			UserID:   c.Rule34UserID,
		},
	}
}
