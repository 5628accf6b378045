package cmd

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/mcostache/hemeroteca/pkg/api"
	"github.com/mcostache/hemeroteca/pkg/config"
	"github.com/mcostache/hemeroteca/pkg/log"
	"github.com/mcostache/hemeroteca/pkg/preview"
	"github.com/mcostache/hemeroteca/pkg/search"
	"github.com/mcostache/hemeroteca/pkg/storage"
	"github.com/mcostache/hemeroteca/pkg/version"
	"github.com/urfave/cli/v3"
)

//go:embed web/templates/*.html
var templateFS embed.FS

//go:embed web/static/*
var staticFS embed.FS

// WebCommand creates the web command with both API and UI
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start web server with both API endpoints and HTML interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides config)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (overrides config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return startWebServer(ctx, c.String("config"), c.String("host"), c.String("port"))
		},
	}
}

// WebServer holds the server dependencies. The config, search service and
// API mux are swapped atomically when the config file changes on disk.
type WebServer struct {
	store     *storage.Storage
	templates *template.Template
	logger    *log.Logger

	mu      sync.RWMutex
	config  *config.Config
	service *search.Service
	apiMux  *http.ServeMux
}

func (s *WebServer) currentService() (*search.Service, *config.Config) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.service, s.config
}

func (s *WebServer) currentAPIMux() *http.ServeMux {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiMux
}

// reload rebuilds the search service and the API routes from a freshly
// parsed config.
func (s *WebServer) reload(cfg *config.Config) {
	service := search.NewService(s.store, preview.New(s.store, cfg.PreviewRadius), search.Options{
		PerPage:          cfg.ResultsPerPage,
		CacheTTL:         cfg.CountCacheTTL.Duration,
		AcceptedSpecials: cfg.AcceptedSpecialCharacters,
	})

	apiMux := http.NewServeMux()
	api.NewServer(service, s.store).RegisterRoutes(apiMux)

	s.mu.Lock()
	s.config = cfg
	s.service = service
	s.apiMux = apiMux
	s.mu.Unlock()
}

// startWebServer starts the web server with both API and UI
func startWebServer(ctx context.Context, configPath, host, port string) error {
	logger := log.ForService("web")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if host == "" {
		host = cfg.Web.Host
	}
	if port == "" {
		port = cfg.Web.Port
	}

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warnf("failed to close database: %v", err)
		}
	}()

	templates, err := template.ParseFS(templateFS, "web/templates/*.html")
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	webServer := &WebServer{
		store:     store,
		templates: templates,
		logger:    logger,
	}
	webServer.reload(cfg)

	mux := http.NewServeMux()

	// API routes go through the swappable mux so a config reload takes
	// effect without restarting the server.
	mux.HandleFunc("/api/", webServer.serveAPI)
	mux.HandleFunc("GET /health", webServer.serveAPI)

	// Web UI routes
	mux.HandleFunc("GET /{$}", webServer.handleHome)
	mux.HandleFunc("GET /results/search", webServer.handleSearch)
	mux.HandleFunc("GET /magazine_details", webServer.handleMagazineDetails)
	mux.HandleFunc("GET /about", webServer.handleAbout)
	mux.HandleFunc("POST /log/magazine_click", webServer.handleMagazineClick)

	// Static assets
	staticContent, err := fs.Sub(staticFS, "web")
	if err != nil {
		return fmt.Errorf("preparing static assets: %w", err)
	}
	mux.Handle("GET /static/", http.FileServer(http.FS(staticContent)))

	handler := api.CorsMiddleware(webServer.requestLogger(mux))

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", host, port),
		Handler: handler,
	}

	go func() {
		logger.Infof("Starting web server on http://%s:%s", host, port)
		logger.Infof("Endpoints: / /results/search /magazine_details /about /api/search /api/magazines /api/stats /health")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("server failed: %v", err)
			os.Exit(1)
		}
	}()

	watchConfig(ctx, configPath, webServer, logger)

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	logger.Infof("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func (s *WebServer) serveAPI(w http.ResponseWriter, r *http.Request) {
	s.currentAPIMux().ServeHTTP(w, r)
}

// watchConfig reloads the search settings when the config file changes.
// Watching is best effort: a failure only disables hot reload.
func watchConfig(ctx context.Context, configPath string, webServer *WebServer, logger *log.Logger) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warnf("failed to create config file watcher: %v", err)
		return
	}

	if err := watcher.Add(configPath); err != nil {
		logger.Warnf("failed to watch config file %s: %v", configPath, err)
		_ = watcher.Close()
		return
	}
	logger.Infof("Watching config file for changes: %s", configPath)

	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warnf("failed to close config file watcher: %v", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				// Editors often replace the file, so re-add the path.
				if event.Has(fsnotify.Rename) {
					time.Sleep(100 * time.Millisecond)
					if err := watcher.Add(configPath); err != nil {
						logger.Warnf("failed to re-watch config file: %v", err)
					}
				}

				cfg, err := config.LoadConfig(configPath)
				if err != nil {
					logger.Errorf("config reload failed, keeping previous settings: %v", err)
					continue
				}
				webServer.reload(cfg)
				logger.Infof("Configuration reloaded from %s", configPath)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnf("config watcher error: %v", err)
			}
		}
	}()
}

// requestLogger tags every request with an id and logs method, path and
// duration.
func (s *WebServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debugf("%s %s %s (%s)", requestID[:8], r.Method, r.URL.RequestURI(), time.Since(start))
	})
}

// Template data

type homeData struct {
	Title       string
	Placeholder string
	Magazines   []storage.Magazine
	Version     string
}

type resultsData struct {
	Title      string
	Term       string
	Magazine   string
	Hits       []resultHit
	Facets     []search.Facet
	Total      int
	Page       int
	TotalPages int
	PrevPage   int
	NextPage   int
	HasPrev    bool
	HasNext    bool
	Version    string
}

type resultHit struct {
	Magazine   string
	Year       string
	Number     string
	Page       string
	NumberLink string
	Preview    template.HTML
}

type noResultsData struct {
	Title       string
	Term        string
	LengthError bool
	Version     string
}

type magazineData struct {
	Title   string
	Name    string
	Years   []storage.YearDetails
	Version string
}

// Web UI Handlers

// handleHome serves the search form and the list of digitized magazines.
func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	_, cfg := s.currentService()

	magazines, err := s.store.Magazines()
	if err != nil {
		s.renderError(w, err)
		return
	}

	s.render(w, "home.html", homeData{
		Title:       "Hemeroteca",
		Placeholder: cfg.SearchPlaceholder,
		Magazines:   magazines,
		Version:     version.APIVersion(),
	})
}

// handleSearch renders one page of search results. Terms that sanitize to
// fewer than the minimum characters get the no-results page with a hint.
func (s *WebServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	service, _ := s.currentService()
	params := search.ParseParams(r.URL.Query())

	s.logger.Infof("search for %q (magazine %q, page %d)", params.Query, params.Magazine, params.Page)

	results, err := service.Search(params)
	if errors.Is(err, search.ErrTermLength) {
		s.render(w, "no_results.html", noResultsData{
			Title:       "No results",
			Term:        params.Query,
			LengthError: true,
			Version:     version.APIVersion(),
		})
		return
	}
	if err != nil {
		s.renderError(w, err)
		return
	}

	if results.TotalCount == 0 {
		s.render(w, "no_results.html", noResultsData{
			Title:   "No results",
			Term:    results.Term,
			Version: version.APIVersion(),
		})
		return
	}

	hits := make([]resultHit, len(results.Hits))
	for i, h := range results.Hits {
		hits[i] = resultHit{
			Magazine:   h.Magazine,
			Year:       h.Year,
			Number:     h.Number,
			Page:       h.Page,
			NumberLink: h.NumberLink,
			// The highlighter only ever inserts mark and ellipsis
			// tags around corpus text.
			Preview: template.HTML(h.Preview),
		}
	}

	s.render(w, "results.html", resultsData{
		Title:      fmt.Sprintf("Results for %q", results.Term),
		Term:       results.Term,
		Magazine:   results.Magazine,
		Hits:       hits,
		Facets:     results.Facets,
		Total:      results.TotalCount,
		Page:       results.Page,
		TotalPages: results.TotalPages,
		PrevPage:   results.Page - 1,
		NextPage:   results.Page + 1,
		HasPrev:    results.Page > 1,
		HasNext:    results.HasMore,
		Version:    version.APIVersion(),
	})
}

// handleMagazineDetails shows per-year issue and page counts for one
// magazine, selected with the magazine_id query parameter.
func (s *WebServer) handleMagazineDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("magazine_id"), 10, 64)
	if err != nil {
		s.logger.Errorf("bad magazine_id parameter: %q", r.URL.Query().Get("magazine_id"))
		http.NotFound(w, r)
		return
	}

	name, err := s.store.MagazineName(id)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Errorf("magazine %d not found", id)
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.renderError(w, err)
		return
	}

	years, err := s.store.MagazineDetails(id)
	if err != nil {
		s.renderError(w, err)
		return
	}

	s.render(w, "magazine_details.html", magazineData{
		Title:   name,
		Name:    name,
		Years:   years,
		Version: version.APIVersion(),
	})
}

func (s *WebServer) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, "about.html", homeData{
		Title:   "About",
		Version: version.APIVersion(),
	})
}

// handleMagazineClick records outbound clicks on digitized issue links.
func (s *WebServer) handleMagazineClick(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Link string `json:"link"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	s.logger.Infof("magazine link clicked: %s", payload.Link)

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"success":true}`))
}

func (s *WebServer) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Errorf("rendering %s: %v", name, err)
	}
}

func (s *WebServer) renderError(w http.ResponseWriter, err error) {
	s.logger.Errorf("request failed: %v", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
