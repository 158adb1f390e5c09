package ui

import (
	"bytes"
	"fmt"
	"net/http"

	"goabtest/adapters/excel"
	"goabtest/domain/core"
	apperrors "goabtest/internal/errors"
	"goabtest/ui/middleware"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExportReport streams a stored run as an .xlsx workbook
func (s *Server) handleExportReport(c *gin.Context) {
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(apperrors.InvalidInput(err.Error()), "invalid report id"))
		return
	}

	report, err := s.service.GetReport(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteReport(&buf, report); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, "failed to export report"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ab-test-%s.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
