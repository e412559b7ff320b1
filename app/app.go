package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/saga-aleeka/saga-store/db"
	"github.com/saga-aleeka/saga-store/lims"
	"github.com/saga-aleeka/saga-store/metrics"
)

// Aliases so handlers read a little shorter.
type Ctx = gin.Context
type H = gin.H

const (
	ServiceName = "SAGA Store API"
	Version     = "1.0.0"
)

// App aggregates the process-wide resources: built once at startup, injected
// into controllers, torn down in Close.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	LIMS   lims.Adapter
	Log    *zap.Logger
	Config Config
}

// Config comes from environment variables. Store settings are mandatory;
// redis and the LIMS endpoint are optional capabilities.
type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr string
	RedisPwd  string

	LIMSAPIURL string
	LIMSAPIKey string

	AdminSecret    string
	WebOrigin      string
	Port           string
	Env            string
	RequestTimeout time.Duration
	CacheTTL       time.Duration
}

func (c Config) dsn() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

// missingStoreConfig names the required store settings that are absent.
// Startup refuses to continue with any of them missing rather than failing
// on the first request.
func missingStoreConfig(c Config) []string {
	var missing []string
	if c.DBHost == "" {
		missing = append(missing, "DB_HOST")
	}
	if c.DBUser == "" {
		missing = append(missing, "DB_USER")
	}
	if c.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	return missing
}

func MustNew() *App {
	cfg := loadConfig()
	logger := newLogger(cfg)

	if missing := missingStoreConfig(cfg); len(missing) > 0 {
		logger.Fatal("store configuration missing", zap.Strings("missing", missing))
	}

	dbConn, err := db.Connect(cfg.dsn())
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	logger.Info("database connected", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	// Redis backs the occupancy cache. Unset means caching off; set but
	// unreachable is a deployment mistake, so fail.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
	}

	adapter := lims.New(lims.Config{APIURL: cfg.LIMSAPIURL, APIKey: cfg.LIMSAPIKey})
	if adapter == nil {
		logger.Info("LIMS adapter not configured, sync endpoints will report so")
	} else {
		logger.Info("LIMS adapter enabled", zap.String("url", cfg.LIMSAPIURL))
	}

	if strings.EqualFold(cfg.Env, "prod") {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	useCORS(r, cfg.WebOrigin)
	r.Use(RequestTimeout(cfg.RequestTimeout))
	_ = metrics.Register(nil)
	r.Use(metrics.Middleware())

	return &App{
		Router: r, DB: dbConn, RDB: rdb, LIMS: adapter, Log: logger, Config: cfg,
	}
}

func (a *App) Close() {
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
	_ = a.Log.Sync()
}

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	getDuration := func(k string, def time.Duration) time.Duration {
		if v := os.Getenv(k); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				return d
			}
		}
		return def
	}
	return Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     get("DB_PORT", "5432"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPwd:  os.Getenv("REDIS_PASSWORD"),

		LIMSAPIURL: os.Getenv("LIMS_API_URL"),
		LIMSAPIKey: os.Getenv("LIMS_API_KEY"),

		AdminSecret:    os.Getenv("ADMIN_SECRET"),
		WebOrigin:      get("WEB_ORIGIN", "http://localhost:5173"),
		Port:           get("PORT", "8000"),
		Env:            get("APP_ENV", "dev"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 15*time.Second),
		CacheTTL:       getDuration("CACHE_TTL", 30*time.Second),
	}
}
