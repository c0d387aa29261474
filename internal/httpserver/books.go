package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smart-retail-bookstore/internal/domain"
)

func listBooksHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if query := c.Query("q"); query != "" {
			books, err := catalog.Search(c.Request.Context(), query)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search books"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"books": books})
			return
		}

		limit := intQuery(c, "limit", 0)
		offset := intQuery(c, "offset", 0)
		books, err := catalog.List(c.Request.Context(), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list books"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"books": books})
	}
}

func getBookHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		book, err := catalog.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load book"})
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
