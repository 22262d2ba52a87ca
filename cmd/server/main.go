package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"willena/internal/cache"
	"willena/internal/catalog"
	"willena/internal/events"
	"willena/internal/httpapi"
	"willena/internal/logger"
	"willena/internal/service"
	"willena/internal/store"
)

const sourceRemote = "remote"

func main() {
	// .env is optional; real deployments configure through the environment.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env failed: %v\n", err)
	}

	log, err := logger.New(envOrDefault("WILLENA_LOG_MODE", "dev"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	addr := resolveListenAddr()

	cat, err := catalog.Load(os.Getenv("WILLENA_CATALOG_FILE"))
	if err != nil {
		log.Fatal("load catalog failed", "error", err)
	}
	log.Info("catalog loaded", "lists", len(cat.Entries()))

	src, st, err := buildEventSource(log)
	if err != nil {
		log.Fatal("init event source failed", "error", err)
	}
	if closer, ok := st.(io.Closer); ok && closer != nil {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Warn("store close failed", "error", err)
			}
		}()
	}

	fetcher := events.NewFetcher(src,
		events.WithReuseWindow(envSeconds("WILLENA_FETCH_WINDOW_SECONDS", events.DefaultReuseWindow)),
	)
	agg := cache.New(log,
		cache.WithFreshFor(envSeconds("WILLENA_CACHE_TTL_SECONDS", cache.DefaultFreshFor)),
	)

	svc := service.New(cat, fetcher, agg, log)
	if st != nil {
		svc.SetStore(st)
		log.Info("local event recording enabled")
	}

	handler := httpapi.NewHandler(svc, log)
	router := httpapi.NewRouter(handler, log)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("willena progress engine listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown failed", "error", err)
	}
	agg.Flush()
	log.Info("shutdown complete")
}

// buildEventSource picks where raw rows come from. The remote mode talks
// to the event-store API; the local modes own a store and also enable the
// recording endpoints.
func buildEventSource(log *logger.Logger) (events.Source, store.Store, error) {
	engine := strings.ToLower(envOrDefault("WILLENA_EVENT_SOURCE", store.EngineSQLite))
	if engine == sourceRemote {
		baseURL := strings.TrimSpace(os.Getenv("WILLENA_EVENT_API_URL"))
		if baseURL == "" {
			return nil, nil, errors.New("WILLENA_EVENT_API_URL is required when WILLENA_EVENT_SOURCE=remote")
		}
		timeout := envSeconds("WILLENA_EVENT_TIMEOUT_SECONDS", 10*time.Second)
		log.Info("using remote event store", "url", baseURL, "timeout", timeout.String())
		return events.NewClient(baseURL, timeout), nil, nil
	}

	dataFile := envOrDefault("WILLENA_DATA_FILE", defaultDataFile(engine))
	st, err := store.NewByEngine(engine, dataFile)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using local event store", "engine", engine, "file", dataFile)
	return events.NewStoreSource(st), st, nil
}

func resolveListenAddr() string {
	defaultHost, defaultPort := parseListenAddr(envOrDefault("WILLENA_ADDR", ":8080"))
	if defaultPort <= 0 {
		defaultPort = 8080
	}

	defaultHost = strings.TrimSpace(envOrDefault("WILLENA_HOST", defaultHost))
	defaultPort = parseEnvInt("WILLENA_PORT", defaultPort)

	host := flag.String("host", defaultHost, "server listen host, e.g. 0.0.0.0")
	port := flag.Int("port", defaultPort, "server listen port, e.g. 8080")
	flag.Parse()

	return joinListenAddr(strings.TrimSpace(*host), *port)
}

func parseListenAddr(addr string) (string, int) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", 0
	}
	if strings.HasPrefix(addr, ":") {
		return "", parseEnvIntValue(strings.TrimPrefix(addr, ":"), 0)
	}
	if host, port, err := net.SplitHostPort(addr); err == nil {
		return host, parseEnvIntValue(port, 0)
	}
	if portOnly := parseEnvIntValue(addr, 0); portOnly > 0 {
		return "", portOnly
	}
	return addr, 0
}

func joinListenAddr(host string, port int) string {
	if port <= 0 {
		port = 8080
	}
	if host == "" {
		return fmt.Sprintf(":%d", port)
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func defaultDataFile(engine string) string {
	switch engine {
	case store.EngineJSON:
		return "data/willena.json"
	default:
		return "data/willena.db"
	}
}

func envOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	seconds := parseEnvInt(key, 0)
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func parseEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	return parseEnvIntValue(raw, fallback)
}

func parseEnvIntValue(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}
