package handler

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshuadevelopsgames/LECRM-dev/model"
	"github.com/joshuadevelopsgames/LECRM-dev/service"
)

// ImportHandler ingests the golmn.com CSV exports: parse, merge,
// persist, and archive the raw files.
type ImportHandler struct {
	store *service.CRMStore
	files *service.FileService
}

func NewImportHandler(files *service.FileService) *ImportHandler {
	return &ImportHandler{
		store: service.GetCRMStore(),
		files: files,
	}
}

// ImportLMN handles a multipart upload of the LMN export files. The
// contacts export is required; leads list, estimates and jobsites are
// optional and simply contribute no data when absent.
//
// Form fields: contacts_export, leads_list, estimates, jobsites.
func (h *ImportHandler) ImportLMN(c *gin.Context) {
	importID := uuid.New().String()

	contactsFile, contactsHeader, err := c.Request.FormFile("contacts_export")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contacts_export file is required"})
		return
	}
	defer contactsFile.Close()

	contactsExport, err := service.ParseContactsExport(contactsFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse contacts export: " + err.Error()})
		return
	}
	h.archive(c, importID, contactsHeader)

	var leads []*model.Lead
	if file, header, err := c.Request.FormFile("leads_list"); err == nil {
		defer file.Close()
		leads, err = service.ParseLeadsList(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse leads list: " + err.Error()})
			return
		}
		h.archive(c, importID, header)
	}

	var estimates []*model.Estimate
	if file, header, err := c.Request.FormFile("estimates"); err == nil {
		defer file.Close()
		estimates, err = service.ParseEstimates(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse estimates: " + err.Error()})
			return
		}
		h.archive(c, importID, header)
	}

	var jobsites []*model.Jobsite
	if file, header, err := c.Request.FormFile("jobsites"); err == nil {
		defer file.Close()
		jobsites, err = service.ParseJobsites(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse jobsites: " + err.Error()})
			return
		}
		h.archive(c, importID, header)
	}

	result := service.MergeContactData(contactsExport, leads, estimates, jobsites)
	h.store.SaveMergeResult(result)

	slog.Info("lmn import complete",
		"import_id", importID,
		"accounts", result.Stats.TotalAccounts,
		"contacts", result.Stats.TotalContacts,
		"match_rate", result.Stats.MatchRate,
	)

	c.JSON(http.StatusOK, gin.H{
		"import_id": importID,
		"stats":     result.Stats,
	})
}

// DeleteArchive removes an archived file from object storage. The
// wildcard route passes the object name with a leading slash.
func (h *ImportHandler) DeleteArchive(c *gin.Context) {
	object := strings.TrimPrefix(c.Param("object"), "/")
	if object == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Object name is required"})
		return
	}
	if h.files == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage is not configured"})
		return
	}

	if err := h.files.DeleteFile(c.Request.Context(), object); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete archived file: " + err.Error()})
		return
	}

	slog.Info("archived file deleted", "object", object)
	c.JSON(http.StatusOK, gin.H{"deleted": object})
}

// archive stores the raw upload; a storage failure is logged but never
// fails the import.
func (h *ImportHandler) archive(c *gin.Context, importID string, header *multipart.FileHeader) {
	if h.files == nil || header == nil {
		return
	}

	file, err := header.Open()
	if err != nil {
		slog.Warn("failed to reopen upload for archiving", "filename", header.Filename, "error", err)
		return
	}
	defer file.Close()

	objectName, err := h.files.ArchiveImportFile(c.Request.Context(), importID, header.Filename, file, header.Size)
	if err != nil {
		slog.Warn("failed to archive import file", "filename", header.Filename, "error", err)
		return
	}
	slog.Debug("import file archived", "object", objectName)
}
