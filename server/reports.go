package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mfcoelho/bolso/balance"
	"github.com/mfcoelho/bolso/consistency"
	"github.com/mfcoelho/bolso/consts"
	"github.com/mfcoelho/bolso/currency"
	"github.com/mfcoelho/bolso/invoice"
	"github.com/mfcoelho/bolso/ledger"
	"github.com/mfcoelho/bolso/model"
	"github.com/mfcoelho/bolso/sharing"
	"github.com/mfcoelho/bolso/store"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const dateFormat = "2006-01-02"

func getVersion(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]string{
		"Version": consts.Version,
	})
}

func getConsistency(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		issues := consistency.Check(db.Accounts(), db.Transactions())
		if issues == nil {
			issues = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"Issues": issues})
	}
}

type balancesResponse struct {
	Accounts           []model.Account
	LiquidFunds        string
	LiquidFundsDisplay string
	Currency           string
}

func getBalances(db *store.Store, cache *gocache.Cache, config Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		cutoff := config.Now()
		if cutoffQuery, ok := c.GetQuery("cutoff"); ok {
			var err error
			cutoff, err = time.Parse(dateFormat, cutoffQuery)
			if err != nil {
				abortWithClientError(c, http.StatusBadRequest, errors.Errorf("Invalid cutoff date: %q", cutoffQuery))
				return
			}
		}
		displayCurrency := c.DefaultQuery("currency", config.BaseCurrency)

		cacheKey := "balances:" + cutoff.Format(dateFormat) + ":" + displayCurrency
		if cached, found := cache.Get(cacheKey); found {
			c.JSON(http.StatusOK, cached)
			return
		}
		accounts := balance.AtDate(db.Accounts(), db.Transactions(), cutoff)
		liquid, err := config.Rates.Convert(balance.LiquidFunds(accounts), config.BaseCurrency, displayCurrency)
		if err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		response := balancesResponse{
			Accounts:           accounts,
			LiquidFunds:        liquid.StringFixed(2),
			LiquidFundsDisplay: currency.Format(displayCurrency, liquid),
			Currency:           displayCurrency,
		}
		cache.SetDefault(cacheKey, response)
		c.JSON(http.StatusOK, response)
	}
}

func getInvoice(db *store.Store, cache *gocache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.Param("id")
		monthQuery := c.Query("month")
		reference, err := time.Parse("2006-01", monthQuery)
		if err != nil {
			abortWithClientError(c, http.StatusBadRequest, errors.Errorf("Invalid reference month: %q", monthQuery))
			return
		}

		cacheKey := "invoice:" + accountID + ":" + monthQuery
		if cached, found := cache.Get(cacheKey); found {
			c.JSON(http.StatusOK, cached)
			return
		}

		var account model.Account
		found := false
		for _, candidate := range db.Accounts() {
			if candidate.ID == accountID && !candidate.Deleted {
				account, found = candidate, true
				break
			}
		}
		if !found {
			abortWithClientError(c, http.StatusNotFound, errors.Errorf("Unknown account: %q", accountID))
			return
		}

		inv, err := invoice.Compute(account, db.Transactions(), reference.Year(), reference.Month())
		if err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		cache.SetDefault(cacheKey, inv)
		c.JSON(http.StatusOK, inv)
	}
}

type ledgerResponse struct {
	Entries  []ledger.Entry
	Warnings []string
}

func generateLedger(db *store.Store, cache *gocache.Cache, logger *zap.Logger) ledgerResponse {
	const cacheKey = "ledger"
	if cached, found := cache.Get(cacheKey); found {
		return cached.(ledgerResponse)
	}
	entries, warnings := ledger.Generate(db.Transactions(), db.Accounts(), logger)
	response := ledgerResponse{Entries: entries, Warnings: warnings}
	cache.SetDefault(cacheKey, response)
	return response
}

func getLedger(db *store.Store, cache *gocache.Cache, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, generateLedger(db, cache, logger))
	}
}

func getTrialBalance(db *store.Store, cache *gocache.Cache, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := generateLedger(db, cache, logger)
		c.JSON(http.StatusOK, gin.H{
			"Items":    ledger.TrialBalance(response.Entries),
			"Warnings": response.Warnings,
		})
	}
}

func getPersonalCost(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		for _, txn := range db.Transactions() {
			if txn.ID == id && !txn.Deleted {
				c.JSON(http.StatusOK, gin.H{
					"TransactionID": id,
					"PersonalCost":  sharing.EffectivePersonalCost(txn).StringFixed(2),
				})
				return
			}
		}
		abortWithClientError(c, http.StatusNotFound, errors.Errorf("Unknown transaction: %q", id))
	}
}

func getSettlement(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		counterparty := c.Query("counterparty")
		if counterparty == "" {
			abortWithClientError(c, http.StatusBadRequest, errors.New("Query parameter 'counterparty' is required"))
			return
		}
		net := sharing.NetSettlement(db.Transactions(), counterparty)
		c.JSON(http.StatusOK, gin.H{
			"CounterpartyID": counterparty,
			"Net":            net.StringFixed(2),
		})
	}
}
