package api

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"onboarding-intake/pkg/models"
	"onboarding-intake/pkg/services"
	"onboarding-intake/pkg/utils"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	submissionService services.SubmissionService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(submissionService services.SubmissionService) *Handlers {
	return &Handlers{
		submissionService: submissionService,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// HandleSubmit processes an onboarding submission, branching on content
// type: multipart/form-data carries files, application/json is the
// file-less fallback. Webhook failures never change the response status;
// any other error yields a generic 500 with the detail logged server-side.
func (h *Handlers) HandleSubmit(c *gin.Context) {
	contentType := c.GetHeader("Content-Type")

	var result *services.SubmissionResult
	var err error
	if strings.Contains(contentType, "multipart/form-data") {
		result, err = h.handleMultipart(c)
	} else {
		result, err = h.handleJSON(c)
	}

	if err != nil {
		log.Printf("/api/submit error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Submission failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"airtable": result.Airtable,
		"record":   result.Record,
		"webhook":  result.Webhook,
		"webhook2": result.Webhook2,
	})
}

func (h *Handlers) handleMultipart(c *gin.Context) (*services.SubmissionResult, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(form.Value))
	for name, fieldValues := range form.Value {
		if len(fieldValues) > 0 {
			values[name] = fieldValues[0]
		}
	}

	var files []services.FileEntry
	for field, headers := range form.File {
		for _, header := range headers {
			if header.Size == 0 {
				continue
			}
			file, err := header.Open()
			if err != nil {
				return nil, err
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				return nil, err
			}
			files = append(files, services.FileEntry{
				Field:       field,
				Name:        utils.UploadName(field, header.Filename),
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}

	return h.submissionService.ProcessSubmission(services.SubmissionInput{
		Values: values,
		Files:  files,
	})
}

func (h *Handlers) handleJSON(c *gin.Context) (*services.SubmissionResult, error) {
	// An unreadable or malformed body falls back to an empty payload;
	// record creation decides what to do with it.
	var payload models.IntakePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		payload = models.IntakePayload{}
	}
	return h.submissionService.ProcessJSONSubmission(payload)
}
