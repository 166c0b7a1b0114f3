package initializers

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

type DBConfig struct {
	Driver   string
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type StorageConfig struct {
	Driver      string
	UploadDir   string
	S3Bucket    string
	S3PublicURL string
}

type MailConfig struct {
	From        string
	Password    string
	SMTPHost    string
	SMTPAddress string
	FrontendURL string
}

type Config struct {
	JWTSecret        string
	HTTPPort         string
	HTTPSPort        string
	TLSCertFile      string
	TLSKeyFile       string
	CORSOrigins      []string
	AllowAdminSignup bool
	OrderWebhookURL  string
	DB               DBConfig
	Storage          StorageConfig
	Mail             MailConfig
}

// LoadConfig reads the process environment. JWT_SECRET is mandatory.
func LoadConfig() (Config, error) {
	cfg := Config{
		JWTSecret:        os.Getenv("JWT_SECRET"),
		HTTPPort:         getEnv("HTTP_PORT", "5000"),
		HTTPSPort:        getEnv("HTTPS_PORT", "443"),
		TLSCertFile:      getEnv("TLS_CERT_FILE", "server.crt"),
		TLSKeyFile:       getEnv("TLS_KEY_FILE", "server.key"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		AllowAdminSignup: getBool("ALLOW_ADMIN_SIGNUP", true),
		OrderWebhookURL:  os.Getenv("ORDER_WEBHOOK_URL"),
		DB: DBConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			DSN:      os.Getenv("DB_DSN"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     os.Getenv("DB_PORT"),
			User:     getEnv("DB_USER", "root"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "svd_mebel"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
			S3Bucket:    os.Getenv("S3_BUCKET"),
			S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
		},
		Mail: MailConfig{
			From:        os.Getenv("FROM_EMAIL"),
			Password:    os.Getenv("FROM_EMAIL_PASSWORD"),
			SMTPHost:    os.Getenv("FROM_EMAIL_SMTP"),
			SMTPAddress: os.Getenv("SMTP_ADDRESS"),
			FrontendURL: os.Getenv("FRONTEND_URL"),
		},
	}

	if cfg.JWTSecret == "" {
		return cfg, ErrMissingJWTSecret
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
