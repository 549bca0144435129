package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mfcoelho/bolso/model"
	"github.com/mfcoelho/bolso/store"
	gocache "github.com/patrickmn/go-cache"
)

func getAccounts(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		accounts := []model.Account{}
		for _, account := range db.Accounts() {
			if !account.Deleted {
				accounts = append(accounts, account)
			}
		}
		c.JSON(http.StatusOK, gin.H{"Accounts": accounts})
	}
}

func postAccount(db *store.Store, cache *gocache.Cache, config Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var account model.Account
		if err := c.ShouldBindJSON(&account); err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		if account.ID == "" {
			account.ID = config.NewID()
		}
		if err := db.AddAccount(account); err != nil {
			abortWithClientError(c, http.StatusBadRequest, err)
			return
		}
		cache.Flush()
		c.JSON(http.StatusCreated, account)
	}
}
