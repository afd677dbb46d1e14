package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// 評価時に本を引く方法
const (
	RatingLookupByID   = "id"
	RatingLookupByName = "name"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string // サーバーポート（8080）
	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error

	DBDriver         string // postgres/sqlite
	SQLitePath       string // DB_DRIVER=sqliteのときだけ
	DatabaseURL      string // あればPOSTGRES_*より優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret     string        // JWT署名シークレット
	JWTTTL        time.Duration // アクセストークンの有効期限
	ResetTokenTTL time.Duration // パスワード再設定トークンの有効期限

	RedisAddr string        // 空ならキャッシュなし
	CacheTTL  time.Duration // 3600s

	RabbitMQURL string        // 空ならプロセス内タイマーで通知
	NotifyDelay time.Duration // 600s

	KafkaBrokers    []string // 空ならイベント送信なし
	KafkaOrderTopic string

	SendGridAPIKey string // 空ならログに出すだけ
	MailFrom       string
	MailFromName   string

	ImageDir     string
	ImageBaseURL string

	RatingBookLookup string // id/name
}

// Loadは環境変数（.envがあれば先に読む）
func Load() (Config, error) {
	// .envは無くてもよい
	_ = godotenv.Load()

	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	jwtTTL, err := durationDefault("JWT_TTL", time.Hour)
	if err != nil {
		return Config{}, err
	}
	resetTTL, err := durationDefault("RESET_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := durationDefault("CACHE_TTL", 3600*time.Second)
	if err != nil {
		return Config{}, err
	}
	notifyDelay, err := durationDefault("NOTIFY_DELAY", 600*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:     getenv("PORT", "8080"),
		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:         strings.ToLower(getenv("DB_DRIVER", DriverPostgres)),
		SQLitePath:       getenv("SQLITE_PATH", "bookstore.db"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "bookstore"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTTTL:        jwtTTL,
		ResetTokenTTL: resetTTL,

		RedisAddr: os.Getenv("REDIS_ADDR"),
		CacheTTL:  cacheTTL,

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
		NotifyDelay: notifyDelay,

		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic: getenv("KAFKA_ORDER_TOPIC", "bookstore.orders"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getenv("MAIL_FROM", "no-reply@bookstore.local"),
		MailFromName:   getenv("MAIL_FROM_NAME", "BookStore"),

		ImageDir:     getenv("IMAGE_DIR", "./uploads"),
		ImageBaseURL: getenv("IMAGE_BASE_URL", "/uploads"),

		RatingBookLookup: strings.ToLower(getenv("RATING_BOOK_LOOKUP", RatingLookupByID)),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return Config{}, fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverSQLite)
	}
	if cfg.RatingBookLookup != RatingLookupByID && cfg.RatingBookLookup != RatingLookupByName {
		return Config{}, fmt.Errorf("RATING_BOOK_LOOKUP must be %q or %q", RatingLookupByID, RatingLookupByName)
	}

	return cfg, nil
}

// DSNを組み立てる（DATABASE_URLがあればそのまま）
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

// ":8080" 形式
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

// "600s" / "10m" のほか、数字だけなら秒として扱う
func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
