package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mfcoelho/bolso/installments"
	"github.com/mfcoelho/bolso/model"
	"github.com/mfcoelho/bolso/recurrence"
	"github.com/mfcoelho/bolso/store"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

func postTransaction(db *store.Store, cache *gocache.Cache, config Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var txn model.Transaction
		if err := c.ShouldBindJSON(&txn); err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		if txn.ID == "" {
			txn.ID = config.NewID()
		}
		if err := db.AddTransactions(txn); err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		cache.Flush()
		c.JSON(http.StatusCreated, txn)
	}
}

func deleteTransaction(db *store.Store, cache *gocache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.SoftDeleteTransaction(c.Param("id")); err != nil {
			abortWithClientError(c, http.StatusNotFound, err)
			return
		}
		cache.Flush()
		c.Status(http.StatusNoContent)
	}
}

type installmentsRequest struct {
	Description string
	Amount      decimal.Decimal
	Count       int
	Anchor      string
	AccountID   string
	Category    string
	Shares      []model.Share
	PayerID     string
}

func postInstallments(db *store.Store, cache *gocache.Cache, config Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request installmentsRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		anchor, err := time.Parse(dateFormat, request.Anchor)
		if err != nil {
			abortWithClientError(c, http.StatusBadRequest, errors.Errorf("Invalid anchor date: %q", request.Anchor))
			return
		}
		txns, err := installments.Generate(installments.Request{
			Description: request.Description,
			Amount:      request.Amount,
			Count:       request.Count,
			Anchor:      anchor,
			AccountID:   request.AccountID,
			Category:    request.Category,
			Shares:      request.Shares,
			PayerID:     request.PayerID,
		}, config.NewID)
		if err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		if err := db.AddTransactions(txns...); err != nil {
			abortWithClientError(c, http.StatusInternalServerError, err)
			return
		}
		cache.Flush()
		c.JSON(http.StatusCreated, txns)
	}
}

type anticipateRequest struct {
	IDs             []string
	PaymentDate     string
	TargetAccountID string
}

func postAnticipate(db *store.Store, cache *gocache.Cache, config Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request anticipateRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		paymentDate, err := time.Parse(dateFormat, request.PaymentDate)
		if err != nil {
			abortWithClientError(c, http.StatusBadRequest, errors.Errorf("Invalid payment date: %q", request.PaymentDate))
			return
		}
		updated, err := installments.Anticipate(db.Transactions(), request.IDs, paymentDate, request.TargetAccountID, config.Now())
		if err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		if err := db.UpdateTransactions(updated...); err != nil {
			abortWithClientError(c, http.StatusInternalServerError, err)
			return
		}
		cache.Flush()
		c.JSON(http.StatusOK, updated)
	}
}

type resizeRequest struct {
	Count int
}

func postResize(db *store.Store, cache *gocache.Cache, config Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		seriesID := c.Param("id")
		var request resizeRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		series := db.Series(seriesID)
		if len(series) == 0 {
			abortWithClientError(c, http.StatusNotFound, errors.Errorf("Unknown installment series: %q", seriesID))
			return
		}
		replacement, err := installments.Resize(series, request.Count, config.NewID)
		if err != nil {
			// a business-rule refusal, retrying will never succeed
			abortWithClientError(c, http.StatusConflict, err)
			return
		}
		if err := db.ReplaceSeries(replacement.Removed, replacement.Added); err != nil {
			abortWithClientError(c, http.StatusInternalServerError, err)
			return
		}
		cache.Flush()
		c.JSON(http.StatusOK, replacement.Added)
	}
}

func deleteSeries(db *store.Store, cache *gocache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.SoftDeleteSeries(c.Param("id")); err != nil {
			abortWithClientError(c, http.StatusNotFound, err)
			return
		}
		cache.Flush()
		c.Status(http.StatusNoContent)
	}
}

func postCatchup(db *store.Store, cache *gocache.Cache, config Config, ran *atomic.Bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ran.CompareAndSwap(false, true) {
			abortWithClientError(c, http.StatusConflict, errors.New("Recurrence catch-up already ran this session"))
			return
		}
		result := recurrence.Catchup(db.Transactions(), config.Now(), recurrence.Policy{
			MaxOccurrences: config.MaxCatchupPerRun,
		}, config.NewID)

		if len(result.NewTransactions) > 0 {
			if err := db.AddTransactions(result.NewTransactions...); err != nil {
				ran.Store(false)
				abortWithClientError(c, http.StatusInternalServerError, err)
				return
			}
		}
		if len(result.TemplateUpdates) > 0 {
			if err := db.UpdateTransactions(result.TemplateUpdates...); err != nil {
				abortWithClientError(c, http.StatusInternalServerError, err)
				return
			}
		}
		logger.Info("Recurrence catch-up completed",
			zap.Int("generated", len(result.NewTransactions)),
			zap.Int("templatesAdvanced", len(result.TemplateUpdates)),
		)
		cache.Flush()
		c.JSON(http.StatusOK, gin.H{
			"Generated": result.NewTransactions,
			"Templates": result.TemplateUpdates,
		})
	}
}
