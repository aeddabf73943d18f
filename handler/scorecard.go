package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshuadevelopsgames/LECRM-dev/model"
	"github.com/joshuadevelopsgames/LECRM-dev/service"
)

// ScorecardHandler manages ICP templates, batch auto-scoring, and CSV
// export of scorecards.
type ScorecardHandler struct {
	store *service.CRMStore
	files *service.FileService
}

func NewScorecardHandler(files *service.FileService) *ScorecardHandler {
	return &ScorecardHandler{
		store: service.GetCRMStore(),
		files: files,
	}
}

type CreateTemplateRequest struct {
	Name               string                    `json:"name" binding:"required"`
	Questions          []model.ScorecardQuestion `json:"questions" binding:"required"`
	TotalPossibleScore float64                   `json:"total_possible_score" binding:"required"`
	PassThreshold      int                       `json:"pass_threshold"`
	IsPrimary          bool                      `json:"is_primary"`
}

// CreateTemplate registers a scorecard template
func (h *ScorecardHandler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	template := &model.ScorecardTemplate{
		ID:                 uuid.New().String(),
		Name:               req.Name,
		Questions:          req.Questions,
		TotalPossibleScore: req.TotalPossibleScore,
		PassThreshold:      req.PassThreshold,
		IsPrimary:          req.IsPrimary,
	}
	h.store.CreateTemplate(template)

	c.JSON(http.StatusOK, template)
}

// AutoScoreAll scores every account against the primary template
func (h *ScorecardHandler) AutoScoreAll(c *gin.Context) {
	template := h.store.PrimaryTemplate()
	if template == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No primary scorecard template configured"})
		return
	}

	result, err := service.AutoScoreAllAccounts(c.Request.Context(), h.store, template, nil)
	if err != nil {
		// Context cancelled mid-run; report what completed
		c.JSON(http.StatusOK, gin.H{"result": result, "aborted": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// ExportScorecard returns an account's primary scorecard as a CSV
// download, archiving a copy in object storage.
func (h *ScorecardHandler) ExportScorecard(c *gin.Context) {
	accountID := c.Param("id")

	account := h.store.GetAccount(accountID)
	if account == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	response := h.store.PrimaryScorecard(accountID)
	if response == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account has no scorecard"})
		return
	}

	template := h.store.GetTemplate(response.TemplateID)
	if template == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scorecard template no longer exists"})
		return
	}

	csvContent := service.ExportScorecardCSV(response, template, account)

	exportDate := time.Now()
	if d, err := time.Parse("2006-01-02", response.ScorecardDate); err == nil {
		exportDate = d
	}
	filename := service.ScorecardFilename(account, template, exportDate)

	if h.files != nil {
		if objectName, err := h.files.ArchiveScorecard(c.Request.Context(), filename, csvContent); err != nil {
			slog.Warn("failed to archive scorecard export", "filename", filename, "error", err)
		} else {
			slog.Debug("scorecard export archived", "object", objectName)
			if url, err := h.files.GetPresignedURL(c.Request.Context(), objectName); err == nil {
				c.Header("X-Archived-Copy", url)
			}
		}
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", []byte(csvContent))
}
