package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/williamthazard/react-test/internal/access"
	api "github.com/williamthazard/react-test/internal/api/http"
	"github.com/williamthazard/react-test/internal/config"
	"github.com/williamthazard/react-test/internal/mail"
	"github.com/williamthazard/react-test/internal/retry"
	"github.com/williamthazard/react-test/internal/service"
	"github.com/williamthazard/react-test/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st := openStore(ctx, cfg)
	sender := openSender(cfg)

	svc := service.New(service.Options{
		Codes:        access.Config{StudentCode: cfg.StudentCode, EditorCode: cfg.EditorCode},
		Store:        st,
		Sender:       sender,
		ResultTo:     cfg.ResultTo,
		ContentRetry: retry.Config{Attempts: cfg.ContentAttempts, Delay: cfg.RetryDelay},
		DeliverRetry: retry.Config{Attempts: cfg.AuthAttempts, Delay: cfg.RetryDelay},
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(ar chi.Router) {
		api.Routes(ar, svc)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (store=%s)", cfg.HTTPAddr, cfg.StoreDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// openStore selects the content-store driver. Missing credentials degrade
// to the in-memory store so the app still serves the default test instead
// of blocking everyone at the door.
func openStore(ctx context.Context, cfg config.Config) store.Store {
	switch cfg.StoreDriver {
	case "mongo":
		if cfg.MongoURI == "" {
			log.Println("MONGO_URI unset; falling back to in-memory store")
			return store.NewMemoryStore()
		}
		st, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoCollection)
		if err != nil {
			log.Printf("mongo store unavailable (%v); falling back to in-memory store", err)
			return store.NewMemoryStore()
		}
		return st
	case "sqlite", "postgres":
		st, err := store.OpenSQL(ctx, store.Driver(cfg.StoreDriver), cfg.SQLDSN)
		if err != nil {
			log.Printf("sql store unavailable (%v); falling back to in-memory store", err)
			return store.NewMemoryStore()
		}
		return st
	case "memory":
		return store.NewMemoryStore()
	default:
		log.Printf("unknown store driver %q; using in-memory store", cfg.StoreDriver)
		return store.NewMemoryStore()
	}
}

func openSender(cfg config.Config) mail.Sender {
	sender, err := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	if err != nil {
		log.Println("mail transport not configured; result delivery disabled")
		return mail.Disabled{}
	}
	return sender
}
