package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HunterZSYT/rahi-crm-public-sub000/internal/importer"
)

type ImportHandler struct {
	Importer *importer.Importer
}

func NewImportHandler(im *importer.Importer) *ImportHandler {
	return &ImportHandler{Importer: im}
}

// SuggestMapping matches uploaded headers against the alias table so
// the caller can prefill its field mapping.
func (h *ImportHandler) SuggestMapping(c *gin.Context) {
	target, err := importer.ParseTarget(c.Query("target"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target"})
		return
	}

	headers := []string{}
	for _, header := range strings.Split(c.Query("headers"), ",") {
		if header = strings.TrimSpace(header); header != "" {
			headers = append(headers, header)
		}
	}
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "headers is required"})
		return
	}

	mapping, err := importer.SuggestMapping(target, headers)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mapping": mapping})
}

// Run ingests an upload and always answers with the per-row report;
// only request-level problems (bad target, bad mapping, oversized
// upload) are rejected outright.
func (h *ImportHandler) Run(c *gin.Context) {
	var req importer.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	report, err := h.Importer.Run(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
