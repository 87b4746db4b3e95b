package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/newsfilter/internal/model"
)

// BatchRunner rates a list of URLs. It is satisfied by *pipeline.BatchRunner.
type BatchRunner interface {
	Run(ctx context.Context, urls []string) []model.Result
}

// rateHandler serves GET /?urls=...
type rateHandler struct {
	runner    BatchRunner
	urlsLimit int
}

func (h *rateHandler) rate(c *gin.Context) {
	urls := SplitURLs(c.Query("urls"))
	if len(urls) == 0 {
		_ = c.Error(errNoURLs()) //nolint:errcheck // returns its argument
		return
	}

	for _, u := range urls {
		if !IsURL(u) {
			_ = c.Error(errNotURLs()) //nolint:errcheck // returns its argument
			return
		}
	}

	if len(urls) > h.urlsLimit {
		_ = c.Error(errTooManyURLs(h.urlsLimit)) //nolint:errcheck // returns its argument
		return
	}

	results := h.runner.Run(c.Request.Context(), urls)
	c.JSON(http.StatusOK, results)
}

func healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func notFound(c *gin.Context) {
	_ = c.Error(NewHTTPError(http.StatusNotFound, "not found")) //nolint:errcheck // returns its argument
}

func methodNotAllowed(c *gin.Context) {
	_ = c.Error(NewHTTPError(http.StatusMethodNotAllowed, "method not allowed")) //nolint:errcheck // returns its argument
}
