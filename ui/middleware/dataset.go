package middleware

import (
	"time"

	domainDataset "goabtest/domain/dataset"
	"goabtest/internal"
	apperrors "goabtest/internal/errors"
	"goabtest/ports"

	"github.com/gin-gonic/gin"
)

const datasetKey = "dataset"

// LoadDataset resolves the dataset for the request and narrows it to the
// test groups named by repeated ?group= parameters
func LoadDataset(accessor ports.DatasetAccessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ds, err := accessor.Dataset(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(datasetKey, ds.FilterGroups(c.QueryArray("group")...))
		c.Next()
	}
}

// Dataset returns the dataset stored by LoadDataset
func Dataset(c *gin.Context) *domainDataset.Dataset {
	if v, ok := c.Get(datasetKey); ok {
		if ds, ok := v.(*domainDataset.Dataset); ok {
			return ds
		}
	}
	return domainDataset.New(nil, nil)
}

// AbortWithError answers with the status and code derived from err
func AbortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}

// RequestLogger logs one line per request through the leveled logger
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status >= 500 {
			logger.Error("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
			return
		}
		logger.Debug("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
