package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ezoic/lifeexp/pkg/log"
)

// Usage is the body of GET /.
const Usage = "Life Expectancy Prediction Server: curl -d 'bmi=<bmi>' -X POST http://localhost:8080/predict"

// PredictRequest is the form body of POST /predict.
type PredictRequest struct {
	BMI *float64 `form:"bmi" binding:"required"`
}

// Handler answers prediction requests from a Snapshot.
type Handler struct {
	snapshot *Snapshot
	logger   log.Logger
}

// NewHandler creates a Handler reading from snapshot.
func NewHandler(snapshot *Snapshot, logger log.Logger) *Handler {
	return &Handler{snapshot: snapshot, logger: logger}
}

// Index writes the usage string.
func (h *Handler) Index(c *gin.Context) {
	c.String(http.StatusOK, Usage)
}

// Predict evaluates the model at the posted bmi and writes the result as a
// plain decimal number.
func (h *Handler) Predict(c *gin.Context) {
	if v, ok := c.GetPostForm("bmi"); ok && strings.TrimSpace(v) == "" {
		c.String(http.StatusBadRequest, "bmi: empty value")
		return
	}

	var req PredictRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Debug("Rejected prediction request", "error", err.Error())
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	pred := h.snapshot.Load().Predict(*req.BMI)
	c.String(http.StatusOK, strconv.FormatFloat(pred, 'f', -1, 64))
}

// NewRouter builds the gin engine serving GET / and POST /predict.
func NewRouter(snapshot *Snapshot, logger log.Logger) *gin.Engine {
	h := NewHandler(snapshot, logger)

	r := gin.New()
	r.Use(RequestLogger(logger), gin.Recovery())
	r.GET("/", h.Index)
	r.POST("/predict", h.Predict)
	return r
}

// RequestLogger logs one line per request.
func RequestLogger(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		logger.Info("Request",
			log.MethodKey, c.Request.Method,
			log.RouteKey, route,
			log.StatusKey, c.Writer.Status(),
			log.ClientIPKey, c.ClientIP(),
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
}
