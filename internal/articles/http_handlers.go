package articles

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers exposes article CRUD and batch generation over HTTP.
type Handlers struct {
	Service *Service
}

func (h Handlers) List(c *gin.Context) {
	publishedOnly := c.Query("published") == "true"
	out, err := h.Service.List(c.Request.Context(), publishedOnly)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "article lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": out})
}

func (h Handlers) Get(c *gin.Context) {
	a, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "article lookup failed"})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h Handlers) GetBySlug(c *gin.Context) {
	a, err := h.Service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "article lookup failed"})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h Handlers) Create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	a, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h Handlers) Update(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	a, err := h.Service.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h Handlers) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "article delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

type generateRequest struct {
	Titles string `json:"titles"`
}

// Generate runs batch article generation from "Title | details" lines.
func (h Handlers) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	res, err := h.Service.GenerateFromTitles(c.Request.Context(), req.Titles)
	if err != nil {
		if errors.Is(err, ErrNoTitles) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "please provide at least one title"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
