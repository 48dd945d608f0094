package configuration

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hradmin/pkg/logging"
)

const (
	ReconcileRefetch = "refetch"
	ReconcileLocal   = "local"
)

var singleton = sync.OnceValue(func() *Configuration {
	c, err := Load([]string{".env", ".env.local"})
	if err != nil {
		panic(err)
	}
	return c
})

// LoadEnv loads the env files that exist, falling back to the go.mod root when none of
// them exist relative to the working directory.
func LoadEnv(envFiles []string) (int, error) {
	existing := existingFiles(envFiles)
	if len(existing) == 0 {
		if root, ok := findModuleRoot(); ok {
			rooted := make([]string, len(envFiles))
			for i, file := range envFiles {
				rooted[i] = filepath.Join(root, file)
			}
			existing = existingFiles(rooted)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func existingFiles(files []string) []string {
	out := make([]string, 0, len(files))
	for _, file := range files {
		if fs.FileExists(file) {
			out = append(out, file)
		}
	}
	return out
}

func findModuleRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if fs.FileExists(filepath.Join(dir, "go.mod")) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

type APIOptions struct {
	BaseURL         string        `env:"API_BASE_URL" envDefault:"http://localhost:3200/api"`
	Token           string        `env:"API_TOKEN"`
	Timeout         time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	RequestIDHeader string        `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
}

// Authorization returns the Authorization header value, adding the Bearer scheme to a
// bare token.
func (a *APIOptions) Authorization() string {
	token := strings.TrimSpace(a.Token)
	if token == "" || strings.Contains(token, " ") {
		return token
	}
	return "Bearer " + token
}

func (a *APIOptions) Validate() error {
	u, err := url.Parse(strings.TrimSpace(a.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL: %q", a.BaseURL)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", a.Timeout)
	}
	return nil
}

type ListOptions struct {
	PageSize          int    `env:"PAGE_SIZE" envDefault:"50"`
	MaxPageSize       int    `env:"MAX_PAGE_SIZE" envDefault:"500"`
	ReconcileStrategy string `env:"RECONCILE_STRATEGY" envDefault:"refetch"`
}

func (l *ListOptions) Validate() error {
	if l.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", l.PageSize)
	}
	if l.MaxPageSize < l.PageSize {
		return fmt.Errorf("MAX_PAGE_SIZE (%d) must not be below PAGE_SIZE (%d)", l.MaxPageSize, l.PageSize)
	}
	strategy := strings.ToLower(strings.TrimSpace(l.ReconcileStrategy))
	switch strategy {
	case "":
		strategy = ReconcileRefetch
	case ReconcileRefetch, ReconcileLocal:
	default:
		return fmt.Errorf("invalid RECONCILE_STRATEGY=%q (expected refetch|local)", l.ReconcileStrategy)
	}
	l.ReconcileStrategy = strategy
	return nil
}

type MockAPIOptions struct {
	Port int `env:"MOCK_API_PORT" envDefault:"3200"`

	// AllowedOrigins lists the browser origins allowed to call the mock API.
	AllowedOrigins []string `env:"MOCK_API_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

type PrometheusOptions struct {
	Path string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type Configuration struct {
	API        APIOptions
	List       ListOptions
	MockAPI    MockAPIOptions
	Prometheus PrometheusOptions

	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string `env:"LOG_PATH"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	return logging.ParseLevel(c.LogLevel)
}

func Use() *Configuration {
	return singleton()
}

// Load reads env files and the process environment into a fresh Configuration.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 && len(envFiles) > 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api configuration error: %w", err)
	}
	if err := c.List.Validate(); err != nil {
		return fmt.Errorf("list configuration error: %w", err)
	}

	if strings.TrimSpace(c.LogPath) == "" {
		c.logger = logging.ConsoleLogger(c.LogrusLogLevel())
		return nil
	}
	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger
	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
		c.logFile = nil
	}
}
