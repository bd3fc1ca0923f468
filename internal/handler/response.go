package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gncitizen/internal/geojson"
	"gncitizen/internal/repository"
	"gncitizen/internal/service/siteimport"
	"gncitizen/pkg/circuitbreaker"
	"gncitizen/pkg/logger"
)

// Response body keys. The custom form endpoints historically answer with
// error_message, everything else with message.
const (
	keyMessage      = "message"
	keyErrorMessage = "error_message"
)

var errInvalidID = errors.New("invalid id")

// base carries what every handler needs to log and to answer failures.
type base struct {
	logger *zap.Logger
	// legacyStatus answers every failure with 400.
	legacyStatus bool
}

// Options configure the handlers.
type Options struct {
	// LegacyErrorStatus answers every failure with 400 instead of 400/404/500.
	LegacyErrorStatus bool
}

func newBase(log *zap.Logger, opts Options) base {
	return base{logger: log, legacyStatus: opts.LegacyErrorStatus}
}

func (b base) log(c *gin.Context) *zap.Logger {
	return logger.WithTrace(c.Request.Context(), b.logger)
}

// statusFor maps an error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, circuitbreaker.ErrOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, errInvalidID),
		errors.Is(err, siteimport.ErrInvalidImport),
		errors.Is(err, geojson.ErrInvalidCollection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and writes {key: message}.
func (b base) fail(c *gin.Context, op, key string, err error) {
	status := statusFor(err)
	message := err.Error()

	var nf *repository.NotFoundError
	if errors.As(err, &nf) {
		message = nf.Error()
	}

	log := b.log(c)
	if status >= http.StatusInternalServerError {
		log.Error(op+": failed", zap.Error(err))
	} else {
		log.Warn(op+": rejected", zap.Int("status", status), zap.Error(err))
	}

	if b.legacyStatus {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{key: message})
}

// pathID parses the :id path parameter of an entity lookup. Non-integers and
// negative values are invalid. Ids past the int4 key range cannot be stored,
// so they are reported as missing without touching the database.
func pathID(c *gin.Context, entity string) (int, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		return 0, errInvalidID
	}
	if id > math.MaxInt32 {
		return 0, &repository.NotFoundError{Entity: entity}
	}
	return int(id), nil
}

// queryFlag reads a boolean-ish query parameter. A bare "?name" or any value
// that is not false-ish turns the flag on; an absent parameter leaves it off.
func queryFlag(c *gin.Context, name string) bool {
	v, ok := c.GetQuery(name)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "f", "false", "n", "no", "off":
		return false
	default:
		return true
	}
}
