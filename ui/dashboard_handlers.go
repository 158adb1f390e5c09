package ui

import (
	"fmt"
	"net/http"
	"strconv"

	"goabtest/internal/analysis"
	apperrors "goabtest/internal/errors"
	"goabtest/ui/middleware"

	"github.com/gin-gonic/gin"
)

const emptyWarning = "no data for the selected groups"

// respond writes the aggregate and flags an empty selection instead of failing
func respond(c *gin.Context, users int, body gin.H) {
	body["users"] = users
	if users == 0 {
		body["warning"] = emptyWarning
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleProfile(c *gin.Context) {
	ds := middleware.Dataset(c)
	respond(c, ds.Len(), gin.H{
		"columns": ds.Columns(),
		"rows":    ds.Head(s.options.PreviewRows),
		"groups":  ds.Groups(),
	})
}

func (s *Server) handleConversion(c *gin.Context) {
	ds := middleware.Dataset(c)
	respond(c, ds.Len(), gin.H{"conversion": analysis.ConversionByGroup(ds)})
}

func (s *Server) handleTotalAds(c *gin.Context) {
	top := s.options.TopTotalAds
	if raw := c.Query("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			middleware.AbortWithError(c, apperrors.InvalidInput(fmt.Sprintf("invalid top %q", raw)))
			return
		}
		top = n
	}

	ds := middleware.Dataset(c)
	respond(c, ds.Len(), gin.H{"total_ads": analysis.TopTotalAds(ds, top)})
}

func (s *Server) handleExposureByDay(c *gin.Context) {
	ds := middleware.Dataset(c)
	respond(c, ds.Len(), gin.H{"days": analysis.ExposureByDay(ds)})
}

func (s *Server) handleExposureByHour(c *gin.Context) {
	ds := middleware.Dataset(c)
	respond(c, ds.Len(), gin.H{"hours": analysis.ExposureByHour(ds)})
}

func (s *Server) handleInsight(c *gin.Context) {
	ds := middleware.Dataset(c)
	insight, ok := analysis.Insight(ds)
	body := gin.H{}
	if ok {
		body["insight"] = insight
		body["summary"] = []string{
			fmt.Sprintf("Most users saw the most ads on %s.", insight.PeakDay),
			fmt.Sprintf("Ad exposure peaks at %d:00.", insight.PeakHour),
		}
	}
	respond(c, ds.Len(), body)
}
