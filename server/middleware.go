package server

import (
	"time"

	"github.com/existflow/awaree/internal/logger"
	"github.com/labstack/echo/v4"
)

// requestLogger logs every request and its outcome
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		logger.Debug("HTTP Request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("remote", req.RemoteAddr))

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		res := c.Response()
		logger.Info("HTTP Response",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()))

		return nil
	}
}
