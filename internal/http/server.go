package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"bizspese/internal/cache"
	applog "bizspese/internal/log"
	"bizspese/internal/middleware/ratelimit"
	"bizspese/internal/middleware/security"
	"bizspese/internal/middleware/trace"
	"bizspese/internal/services"
)

// Services are the use cases the API exposes.
type Services struct {
	Categories *services.CategoryService
	Wallets    *services.WalletService
	Expenses   *services.ExpenseService
	Analytics  *services.AnalyticsService
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Addr               string
	RateLimitPerMinute int
	// CacheTTL <= 0 disables the analytics response cache.
	CacheTTL  time.Duration
	CacheSize int
	// Location is the calendar zone for YYYY-MM-DD parameters.
	Location *time.Location
	Clock    func() time.Time
	Logger   *applog.Logger
}

type Server struct {
	*http.Server

	svc    Services
	store  Pinger
	loc    *time.Location
	clock  func() time.Time
	logger *applog.Logger

	analytics    *analyticsCache
	cacheManager *cache.Manager
	rateLimiter  *ratelimit.Limiter
	detector     *security.Detector
	tracer       *trace.Middleware

	started      time.Time
	shutdownOnce sync.Once
}

func NewServer(svc Services, st Pinger, cfg Config) *Server {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = applog.Discard()
	}
	if cfg.CacheSize < 1 {
		cfg.CacheSize = 200
	}

	s := &Server{
		svc:          svc,
		store:        st,
		loc:          cfg.Location,
		clock:        cfg.Clock,
		logger:       cfg.Logger.WithComponent(applog.ComponentHTTP),
		analytics:    newAnalyticsCache(cfg.CacheSize, cfg.CacheTTL),
		cacheManager: cache.NewManager(cfg.Logger),
		rateLimiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		detector:     security.NewDetector(),
		started:      time.Now(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, cfg.Logger)

	if cfg.CacheTTL > 0 {
		s.cacheManager.Register(s.analytics.lru)
		s.cacheManager.StartCleanup(cfg.CacheTTL)
	}

	s.Server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /api/categories/{id}", s.handleGetCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/expense-wallets", s.handleListWallets)
	mux.HandleFunc("POST /api/expense-wallets", s.handleCreateWallet)
	mux.HandleFunc("GET /api/expense-wallets/{id}", s.handleGetWallet)
	mux.HandleFunc("PUT /api/expense-wallets/{id}", s.handleUpdateWallet)
	mux.HandleFunc("DELETE /api/expense-wallets/{id}", s.handleDeleteWallet)
	mux.HandleFunc("GET /api/current-expense-wallet", s.handleCurrentWallet)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/analytics/wallet-summary/{month}/{year}", s.handleWalletSummary)
	mux.HandleFunc("GET /api/analytics/budget-summary/{month}/{year}", s.handleWalletSummary)
	mux.HandleFunc("GET /api/analytics/category-breakdown", s.handleCategoryBreakdown)
	mux.HandleFunc("GET /api/analytics/expense-trends/{days}", s.handleExpenseTrends)

	var h http.Handler = mux
	h = s.rateLimiter.Middleware(s.detector.ExtractClientIP, ratelimit.ReadOnly, s.onRateLimited)(h)
	h = s.detector.Middleware(s.logger)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.tracer.Middleware(h)
	h = applog.Middleware(s.logger)(h)
	return h
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
}

// now is the server clock in the calendar zone.
func (s *Server) now() time.Time {
	return s.clock().In(s.loc)
}

// Shutdown stops background goroutines and drains the HTTP server. Only
// the first call has any effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
