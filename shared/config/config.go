package config

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	HttpAddr      string   `yaml:"http_addr" validate:"required"`
	LogLevel      string   `yaml:"log_level"`
	LogJSON       bool     `yaml:"log_json"`
	SecureCookies bool     `yaml:"secure_cookies"`
	CorsOrigins   []string `yaml:"cors_origins"`

	JwtTTL time.Duration `yaml:"jwt_ttl" validate:"required"`

	ThreadsPerPage  int `yaml:"threads_per_page" validate:"required,gt=0"`
	CommentsPerPage int `yaml:"comments_per_page"`
	RepliesPerPage  int `yaml:"replies_per_page"`
	PhotosPerPage   int `yaml:"photos_per_page"`

	MaxCoverSize          int64    `yaml:"max_cover_size" validate:"required,gt=0"`
	AllowedImageMimeTypes []string `yaml:"allowed_image_mime_types" validate:"required,min=1"`

	Storage Storage `yaml:"storage"`
	Blobs   Blobs   `yaml:"blobs"`
	GC      GC      `yaml:"gc"`

	// Emails granted the admin role on login. Compared case-insensitively.
	AdminEmails []string `yaml:"admin_emails"`

	// Per-identity limits for content creation, requests per second / burst.
	RateLimits RateLimits `yaml:"rate_limits"`
}

type Storage struct {
	Driver     string `yaml:"driver" validate:"required,oneof=memory pg sqlite redis"`
	Namespace  string `yaml:"namespace"`
	SqlitePath string `yaml:"sqlite_path" validate:"required_if=Driver sqlite"`
	RedisURL   string `yaml:"redis_url" validate:"required_if=Driver redis"`
}

type Blobs struct {
	Driver   string `yaml:"driver" validate:"required,oneof=fs minio"`
	RootPath string `yaml:"root_path" validate:"required_if=Driver fs"`
	Bucket   string `yaml:"bucket" validate:"required_if=Driver minio"`
	Endpoint string `yaml:"endpoint" validate:"required_if=Driver minio"`
	UseSSL   bool   `yaml:"use_ssl"`
}

type GC struct {
	Interval        time.Duration `yaml:"interval"`
	SafetyThreshold time.Duration `yaml:"safety_threshold"`
}

type RateLimits struct {
	ContentRate  float64 `yaml:"content_rate"`
	ContentBurst int     `yaml:"content_burst"`
	UploadRate   float64 `yaml:"upload_rate"`
	UploadBurst  int     `yaml:"upload_burst"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Minio struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key" validate:"required"`
	Pg     Pg     `yaml:"pg"`
	Minio  Minio  `yaml:"minio"`
}

func (s *Config) JwtKey() string {
	return s.private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func (s *Config) Pg() Pg {
	return s.private.Pg
}

func (s *Config) Minio() Minio {
	return s.private.Minio
}

// IsAdminEmail reports whether email is on the admin whitelist.
func (s *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, e := range s.Public.AdminEmails {
		if strings.ToLower(strings.TrimSpace(e)) == email {
			return true
		}
	}
	return false
}

func (p *Public) applyDefaults() {
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	if p.CommentsPerPage <= 0 {
		p.CommentsPerPage = 10
	}
	if p.RepliesPerPage <= 0 {
		p.RepliesPerPage = 10
	}
	if p.PhotosPerPage <= 0 {
		p.PhotosPerPage = 12
	}
	if p.Storage.Namespace == "" {
		p.Storage.Namespace = "apex"
	}
	if p.GC.SafetyThreshold <= 0 {
		p.GC.SafetyThreshold = time.Hour
	}
	if p.RateLimits.ContentRate <= 0 {
		p.RateLimits.ContentRate = 1.0 / 10
	}
	if p.RateLimits.ContentBurst <= 0 {
		p.RateLimits.ContentBurst = 5
	}
	if p.RateLimits.UploadRate <= 0 {
		p.RateLimits.UploadRate = 1.0 / 30
	}
	if p.RateLimits.UploadBurst <= 0 {
		p.RateLimits.UploadBurst = 3
	}
}

func mustLoadPath(configPath string, output any) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic(fmt.Sprintf("can't unmarshal config file %s: %v", configPath, err))
	}
}

func mustValidate(v any) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(v); err != nil {
		panic(fmt.Sprintf("invalid config: %v", err))
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	public.applyDefaults()
	mustValidate(&public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)
	mustValidate(&private)

	return &Config{public, private}
}

// New builds a Config without touching disk. Used by tests and the CLI.
func New(public Public, private Private) *Config {
	public.applyDefaults()
	return &Config{public, private}
}
