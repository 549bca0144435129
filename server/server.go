package server

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mfcoelho/bolso/currency"
	"github.com/mfcoelho/bolso/store"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	// reportCacheTTL bounds staleness of derived reports between writes
	reportCacheTTL = 30 * time.Second

	loggerKey = "logger"
)

// abortWithClientError logs and renders the failure so the API consumer sees
// what went wrong, not just a status code
func abortWithClientError(c *gin.Context, status int, err error) {
	logger := c.MustGet(loggerKey).(*zap.Logger)
	if status/100 == 5 {
		logger.Error("Aborting with server error", zap.Error(err))
	} else {
		logger.Info("Aborting with client error", zap.String("error", err.Error()))
	}
	c.AbortWithStatusJSON(status, map[string]string{
		"Error": err.Error(),
	})
}

// Config carries the server's runtime knobs. The clock and ID generator are
// injected so tests can pin them.
type Config struct {
	Addr             string
	Now              func() time.Time
	NewID            func() string
	MaxCatchupPerRun int
	RequestsPerSec   float64
	// BaseCurrency and Rates drive the simple conversion lookup on the
	// balances report
	BaseCurrency string
	Rates        currency.Rates
}

func (c Config) withDefaults() Config {
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.NewID == nil {
		c.NewID = uuid.NewString
	}
	if c.RequestsPerSec <= 0 {
		c.RequestsPerSec = 50
	}
	if c.BaseCurrency == "" {
		c.BaseCurrency = "BRL"
	}
	if c.Rates == nil {
		c.Rates = currency.Rates{c.BaseCurrency: decimal.NewFromInt(1)}
	}
	return c
}

// Run serves the engine's derivations and generators over HTTP until the
// listener fails
func Run(config Config, db *store.Store, logger *zap.Logger) error {
	engine := NewEngine(config, db, logger)
	logger.Info("Starting server", zap.String("addr", config.Addr))
	return engine.Run(config.Addr)
}

// NewEngine assembles the gin engine, split from Run for tests
func NewEngine(config Config, db *store.Store, logger *zap.Logger) *gin.Engine {
	config = config.withDefaults()
	engine := gin.New()
	engine.Use(
		func(c *gin.Context) {
			c.Set(loggerKey, logger)
		},
		ginzap.Ginzap(logger, time.RFC3339, true),
		recovery(logger),
		rateLimit(config.RequestsPerSec),
	)

	reportCache := gocache.New(reportCacheTTL, 2*reportCacheTTL)
	// catch-up runs at most once per server session
	catchupRan := atomic.NewBool(false)

	api := engine.Group("/api/v1")
	api.GET("/version", getVersion)
	api.GET("/consistency", getConsistency(db))
	api.GET("/accounts", getAccounts(db))
	api.POST("/accounts", postAccount(db, reportCache, config))
	api.GET("/balances", getBalances(db, reportCache, config))
	api.GET("/accounts/:id/invoice", getInvoice(db, reportCache))
	api.GET("/ledger", getLedger(db, reportCache, logger))
	api.GET("/trialBalance", getTrialBalance(db, reportCache, logger))
	api.GET("/transactions/:id/personalCost", getPersonalCost(db))
	api.GET("/settlement", getSettlement(db))

	api.POST("/transactions", postTransaction(db, reportCache, config))
	api.DELETE("/transactions/:id", deleteTransaction(db, reportCache))
	api.POST("/installments", postInstallments(db, reportCache, config))
	api.POST("/installments/anticipate", postAnticipate(db, reportCache, config))
	api.POST("/series/:id/resize", postResize(db, reportCache, config))
	api.DELETE("/series/:id", deleteSeries(db, reportCache))
	api.POST("/recurrence/catchup", postCatchup(db, reportCache, config, catchupRan, logger))
	return engine
}
