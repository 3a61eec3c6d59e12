package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medbook/booking-engine/pkg/metrics"
)

func NewRouter(
	scheduleHandler *ScheduleHandler,
	bookingHandler *BookingHandler,
	identityHandler *IdentityHandler,
	collector *metrics.Collector,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestMetrics(collector))
	r.Use(requestLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")
	{
		api.POST("/slots", scheduleHandler.CreateSlots)
		api.GET("/slots/:id", scheduleHandler.GetSlot)
		api.PATCH("/slots/:id", scheduleHandler.UpdateSlot)
		api.DELETE("/slots/:id", scheduleHandler.DeleteSlot)
		api.POST("/slots/search", scheduleHandler.Search)

		api.POST("/bookings", bookingHandler.CreateBooking)

		api.POST("/doctors", identityHandler.CreateDoctor)
		api.GET("/doctors", identityHandler.ListDoctors)
		api.GET("/doctors/:id", identityHandler.GetDoctor)
		api.GET("/doctors/:id/free-slots", scheduleHandler.FreeSlots)

		api.POST("/patients", identityHandler.CreatePatient)
		api.GET("/patients", identityHandler.ListPatients)
		api.GET("/patients/:id", identityHandler.GetPatient)
	}

	return r
}

func requestMetrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		collector.InFlightGauge.Inc()

		c.Next()

		collector.InFlightGauge.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		collector.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		collector.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", c.Writer.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		}
	}
}
