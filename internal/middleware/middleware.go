package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/ContractRAG/internal/adapter/utils"
	"github.com/akolanti/ContractRAG/internal/handlers"
	"github.com/akolanti/ContractRAG/internal/metrics"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
	limiter    *IPRateLimiter
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var logMW = logger_i.NewLogger("middleware")

var HealthHandler = Wrap(handlers.HealthHandler)
var StatsHandler = Wrap(handlers.StatsHandler)
var UploadHandler = Wrap(handlers.UploadHandler)
var AskHandler = Wrap(handlers.AskHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)

// Wrap runs trace injection and rate limiting before next and records the
// response status for metrics.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return WrapWithLimiter(next, limiterInstance)
}

func WrapWithLimiter(next http.HandlerFunc, limiter *IPRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		re := processRequest(requestResponseStruct{req: r, writer: rec, limiter: limiter})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
		} else {
			next(rec, re.req)
		}
		metrics.HttpRequestsTotal.WithLabelValues(utils.GetRoutePattern(r), strconv.Itoa(rec.Status)).Inc()
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logMW
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re.logger.Debug("New request received", "path", re.req.URL.Path)
	return rateLimiter(re)
}
