package calls

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"autodialer/internal/telephony"
	"autodialer/pkg/logger"
	"autodialer/pkg/utils"
)

// Handlers exposes call orchestration over HTTP.
// Keep these thin: parse/validate input, call the service, return JSON.
type Handlers struct {
	Service *Service

	// Redis guards bulk operations so only one rate-limited batch runs
	// at a time per deployment. Nil disables the guard (tests, local).
	Redis *redis.Client
}

const (
	dialBatchKey    = "autodialer:batch:dial"
	refreshBatchKey = "autodialer:batch:refresh"
	batchSlotTTL    = 15 * time.Minute
)

// ListCalls returns recent call records plus aggregate stats.
func (h Handlers) ListCalls(c *gin.Context) {
	ctx := c.Request.Context()

	records, err := h.Service.List(ctx, 50)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "call lookup failed"})
		return
	}
	stats, err := h.Service.Stats(ctx)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "stats lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": records, "stats": stats})
}

// CreateBatch accepts a delimited list of numbers from the phone_numbers
// form field or an uploaded file, and dials each sequentially.
func (h Handlers) CreateBatch(c *gin.Context) {
	numbers := ExtractNumbers(c.PostForm("phone_numbers"))
	if len(numbers) == 0 {
		if raw, ok := h.readUpload(c); ok {
			numbers = ExtractNumbers(raw)
		}
	}
	if len(numbers) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "no valid phone numbers found"})
		return
	}

	release, ok := h.acquireSlot(c, dialBatchKey)
	if !ok {
		return
	}
	defer release()

	res, err := h.Service.DialBatch(c.Request.Context(), numbers, c.PostForm("message"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

type aiCommandRequest struct {
	Command string `json:"command"`
}

// AICommand parses one free-text command and places at most one call.
func (h Handlers) AICommand(c *gin.Context) {
	var req aiCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	outcome, err := h.Service.DialFromCommand(c.Request.Context(), req.Command)
	if err != nil {
		if errors.Is(err, ErrEmptyCommand) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "command required"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// RefreshCall re-fetches provider status for one record.
func (h Handlers) RefreshCall(c *gin.Context) {
	id := c.Param("id")
	status, err := h.Service.RefreshCall(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "call not found"})
		case errors.Is(err, ErrNoCallSID):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "no call sid available"})
		default:
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// RefreshAll polls every open record with a call SID.
func (h Handlers) RefreshAll(c *gin.Context) {
	release, ok := h.acquireSlot(c, refreshBatchKey)
	if !ok {
		return
	}
	defer release()

	updated, err := h.Service.RefreshOpenCalls(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// StatusCallback receives Twilio's status webhook. It acknowledges with
// 200 regardless of whether the call identifier matched a record, so the
// provider does not retry-storm us.
func (h Handlers) StatusCallback(c *gin.Context) {
	cb, err := telephony.ParseStatusCallback(c.Request)
	if err != nil {
		logger.FromGin(c).Warn("status callback parse failed", "err", err)
		c.Status(http.StatusOK)
		return
	}
	if err := h.Service.HandleStatusCallback(c.Request.Context(), cb); err != nil {
		logger.FromGin(c).Warn("status callback reconciliation failed", "call_sid", cb.CallSid, "err", err)
	}
	c.Status(http.StatusOK)
}

// VoiceResponse serves TwiML for deployments that point Twilio at a
// callback URL instead of inline markup.
func (h Handlers) VoiceResponse(c *gin.Context) {
	twiml, err := telephony.BuildVoiceResponse(c.Query("message"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "twiml render failed"})
		return
	}
	c.Header("Content-Type", "application/xml")
	c.String(http.StatusOK, twiml)
}

func (h Handlers) readUpload(c *gin.Context) (string, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", false
	}
	f, err := fh.Open()
	if err != nil {
		return "", false
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, 1<<20))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// acquireSlot takes the per-deployment batch slot. On contention it
// writes 409 and reports !ok.
func (h Handlers) acquireSlot(c *gin.Context, key string) (func(), bool) {
	if h.Redis == nil {
		return func() {}, true
	}
	ctx := c.Request.Context()
	ok, err := utils.AcquireBatchSlot(ctx, h.Redis, key, 1, batchSlotTTL)
	if err != nil {
		logger.FromGin(c).Warn("batch slot acquire failed", "key", key, "err", err)
		// Redis trouble should not block operator actions.
		return func() {}, true
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "another batch is already running"})
		return nil, false
	}
	return func() {
		if err := utils.ReleaseBatchSlot(ctx, h.Redis, key); err != nil {
			logger.FromGin(c).Warn("batch slot release failed", "key", key, "err", err)
		}
	}, true
}
