package maintenance

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autodialer/pkg/logger"
)

type Handlers struct {
	Service *Service
}

// ClearData wipes all call records and articles and reports the counts.
func (h Handlers) ClearData(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.From(ctx)

	sum, err := h.Service.ClearAll(ctx)
	if err != nil {
		log.Error("clear data failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "clear data failed"})
		return
	}

	log.Info("data cleared", "calls", sum.Calls, "articles", sum.Articles)
	c.JSON(http.StatusOK, sum)
}
