package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	// Access codes. The student code is required; the editor code is
	// optional and checked first during resolution.
	StudentCode string
	EditorCode  string

	StoreDriver string // mongo|sqlite|postgres|memory

	MongoURI        string
	MongoDB         string
	MongoCollection string
	SQLDSN          string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
	ResultTo string // where graded reports are delivered

	// Retry tuning. Content-store operations get the larger budget;
	// verification and mail delivery get the smaller one.
	ContentAttempts int
	AuthAttempts    int
	RetryDelay      time.Duration

	CORSOrigins []string
}

func FromEnv() Config {
	return Config{
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		StudentCode: os.Getenv("STUDENT_CODE"),
		EditorCode:  os.Getenv("EDITOR_CODE"),

		StoreDriver: envOr("STORE_DRIVER", "mongo"),

		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDB:         envOr("MONGO_DB", "react-test"),
		MongoCollection: envOr("MONGO_COLLECTION", "questions"),
		SQLDSN:          os.Getenv("SQL_DSN"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: envInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),
		ResultTo: os.Getenv("RESULT_TO"),

		ContentAttempts: envInt("CONTENT_ATTEMPTS", 5),
		AuthAttempts:    envInt("AUTH_ATTEMPTS", 3),
		RetryDelay:      time.Duration(envInt("RETRY_DELAY_MS", 2000)) * time.Millisecond,

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
