package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath     string
	OutputDir  string
	InboxDir   string
	ArchiveDir string

	LogoPath       string
	LogoPublicPath string

	RegistryAPIBaseURL   string
	RegistryAPIToken     string
	RegistryRateLimitRPS int
	RegistryTimeoutMs    int

	ImageTimeoutMs    int
	ImageRetries      int
	ImageRetryDelayMs int
	ImageRateLimitRPS int
	RenderDirectURLs  bool
	CDNHosts          []string

	ChromeBin       string
	RenderTimeoutMs int
	RenderScale     float64
	VerifyPDF       bool

	DeliverProvider string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	SMTPFrom        string

	GmailClientID     string
	GmailClientSecret string
	GmailRedirectURI  string
	GmailRefreshToken string
	GmailSender       string

	WatcherIntervalSec int
	WatcherBatch       int
	WatcherAutoDeliver bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "memberdoc.db")),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		InboxDir:   getEnv("INBOX_DIR", filepath.Join(cwd, "data", "inbox")),
		ArchiveDir: getEnv("ARCHIVE_DIR", filepath.Join(cwd, "data", "archive")),

		LogoPath:       getEnv("LOGO_PATH", filepath.Join(cwd, "assets", "federation-logo.png")),
		LogoPublicPath: getEnv("LOGO_PUBLIC_PATH", "/assets/federation-logo.png"),

		RegistryAPIBaseURL:   getEnv("REGISTRY_API_BASE_URL", "https://member.fti.or.th/api/v1"),
		RegistryAPIToken:     getEnv("REGISTRY_API_TOKEN", ""),
		RegistryRateLimitRPS: getEnvInt("REGISTRY_RATE_LIMIT_RPS", 5),
		RegistryTimeoutMs:    getEnvInt("REGISTRY_TIMEOUT_MS", 30000),

		ImageTimeoutMs:    getEnvInt("IMAGE_TIMEOUT_MS", 15000),
		ImageRetries:      getEnvInt("IMAGE_RETRIES", 2),
		ImageRetryDelayMs: getEnvInt("IMAGE_RETRY_DELAY_MS", 1000),
		ImageRateLimitRPS: getEnvInt("IMAGE_RATE_LIMIT_RPS", 10),
		RenderDirectURLs:  getEnvBool("RENDER_DIRECT_URLS", false),
		CDNHosts:          getEnvList("IMAGE_CDN_HOSTS", "res.cloudinary.com"),

		ChromeBin:       getEnv("CHROME_BIN", ""),
		RenderTimeoutMs: getEnvInt("RENDER_TIMEOUT_MS", 60000),
		RenderScale:     getEnvFloat("RENDER_SCALE", 2.0),
		VerifyPDF:       getEnvBool("VERIFY_PDF", true),

		DeliverProvider: getEnv("DELIVER_PROVIDER", "smtp"),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnvInt("SMTP_PORT", 587),
		SMTPUser:        getEnv("SMTP_USER", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:        getEnv("SMTP_FROM", "membership@fti.or.th"),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRedirectURI:  getEnv("GMAIL_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		GmailSender:       getEnv("GMAIL_SENDER", "membership@fti.or.th"),

		WatcherIntervalSec: getEnvInt("WATCHER_INTERVAL_SEC", 30),
		WatcherBatch:       getEnvInt("WATCHER_BATCH", 20),
		WatcherAutoDeliver: getEnvBool("WATCHER_AUTO_DELIVER", false),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	value := getEnv(key, fallback)
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
