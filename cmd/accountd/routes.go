package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opsline/accountd/internal/account"
)

type api struct {
	store account.Store
}

func NewRouter(store account.Store) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), countRequests())
	router.RedirectTrailingSlash = true

	handlers := api{store: store}

	router.GET("/health", handlers.health)
	router.GET("/", handlers.index)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/accounts", handlers.createAccount)
	router.GET("/accounts", handlers.listAccounts)
	router.GET("/accounts/:id", handlers.getAccount)
	router.PUT("/accounts/:id", handlers.updateAccount)
	router.DELETE("/accounts/:id", handlers.deleteAccount)

	return router
}

func (api) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (api) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Account REST API Service",
		"version": "1.0",
	})
}

func (api api) createAccount(c *gin.Context) {
	if c.ContentType() != "application/json" {
		abort(c, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var acct account.Account
	if err := c.ShouldBindJSON(&acct); err != nil {
		abort(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	acct.ID = 0
	if err := acct.Validate(); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := api.store.Create(c.Request.Context(), &acct); err != nil {
		slog.Error("failed to create account", "error", err)
		abort(c, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("account created", "id", acct.ID)

	c.Header("Location", fmt.Sprintf("/accounts/%d", acct.ID))
	c.JSON(http.StatusCreated, acct)
}

func (api api) listAccounts(c *gin.Context) {
	accounts, err := api.store.List(c.Request.Context())
	if err != nil {
		slog.Error("failed to list accounts", "error", err)
		abort(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (api api) getAccount(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	acct, err := api.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			abort(c, http.StatusNotFound, fmt.Sprintf("account with id [%d] could not be found", id))
			return
		}
		slog.Error("failed to read account", "id", id, "error", err)
		abort(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, acct)
}

func (api api) updateAccount(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	// lookup precedes payload parsing so that an unknown id is always 404.
	if _, err := api.store.Get(c.Request.Context(), id); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			abort(c, http.StatusNotFound, fmt.Sprintf("account with id [%d] could not be found", id))
			return
		}
		slog.Error("failed to read account", "id", id, "error", err)
		abort(c, http.StatusInternalServerError, "internal server error")
		return
	}

	var acct account.Account
	if err := c.ShouldBindJSON(&acct); err != nil {
		abort(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	acct.ID = id
	if err := acct.Validate(); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := api.store.Update(c.Request.Context(), &acct); err != nil {
		slog.Error("failed to update account", "id", id, "error", err)
		abort(c, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("account updated", "id", id)
	c.JSON(http.StatusOK, acct)
}

func (api api) deleteAccount(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	// deleting an unknown id is a no-op, not an error.
	if err := api.store.Delete(c.Request.Context(), id); err != nil {
		slog.Error("failed to delete account", "id", id, "error", err)
		abort(c, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("account deleted", "id", id)
	c.Status(http.StatusNoContent)
}

func accountID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abort(c, http.StatusNotFound, fmt.Sprintf("account with id [%s] could not be found", c.Param("id")))
		return 0, false
	}
	return id, true
}

func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{
		"status":  code,
		"error":   http.StatusText(code),
		"message": message,
	})
}
