package airtable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"onboarding-intake/pkg/config"
	"onboarding-intake/pkg/models"
)

// MaxDirectUploadSize is the Airtable content API limit for attaching raw
// bytes to a record field. Larger files are skipped by the caller.
const MaxDirectUploadSize = 5 * 1024 * 1024

// FieldRef pairs a table id with a field id resolved from the base schema.
type FieldRef struct {
	TableID string
	FieldID string
}

// Client defines the interface for interacting with the Airtable API
type Client interface {
	// CreateIntakeRecord maps the payload onto the table's fields and
	// creates one record.
	CreateIntakeRecord(payload models.IntakePayload) (models.CreateResponse, error)
	// FetchRecord retrieves the full record by id.
	FetchRecord(recordID string) (*models.Record, error)
	// UploadFile uploads file bytes for a reusable attachment token.
	// A failed upload returns an empty token, not an error.
	UploadFile(filename, contentType string, data []byte) (string, error)
	// UploadAttachment attaches raw bytes directly to a record field.
	UploadAttachment(recordID, field, filename, contentType string, data []byte) (bool, error)
	// FieldIDByName resolves a display name to stable ids, or nil.
	FieldIDByName(tableName, fieldName string) *FieldRef
}

type clientImpl struct {
	config     *config.Config
	baseURL    string
	contentURL string
	httpClient *http.Client
}

// NewClient creates a new Airtable client
func NewClient(cfg *config.Config) Client {
	return &clientImpl{
		config:     cfg,
		baseURL:    "https://api.airtable.com",
		contentURL: "https://content.airtable.com",
		httpClient: &http.Client{},
	}
}

// NewClientWithURLs creates a client pointed at alternate API hosts.
// Used by tests to target a local server.
func NewClientWithURLs(cfg *config.Config, baseURL, contentURL string) Client {
	return &clientImpl{
		config:     cfg,
		baseURL:    strings.TrimRight(baseURL, "/"),
		contentURL: strings.TrimRight(contentURL, "/"),
		httpClient: &http.Client{},
	}
}

// Payload key -> Airtable field label translation, applied on create.
var fieldLabels = []struct {
	label string
	value func(p models.IntakePayload) string
}{
	{"Company Name", func(p models.IntakePayload) string { return p.CompanyName }},
	{"Contact Name", func(p models.IntakePayload) string { return p.ContactName }},
	{"Email", func(p models.IntakePayload) string { return p.Email }},
	{"Phone", func(p models.IntakePayload) string { return p.Phone }},
	{"Website", func(p models.IntakePayload) string { return p.Website }},
	{"Instagram", func(p models.IntakePayload) string { return p.Instagram }},
	{"CRM", func(p models.IntakePayload) string { return p.CRM }},
	{"Email Platform", func(p models.IntakePayload) string { return p.EmailPlatform }},
	{"Landing Pages", func(p models.IntakePayload) string { return p.Links.LandingPages }},
	{"Calendars", func(p models.IntakePayload) string { return p.Links.Calendars }},
	{"Webinar Links", func(p models.IntakePayload) string { return p.Links.WebinarLinks }},
	{"Forms/Surveys", func(p models.IntakePayload) string { return p.Links.FormsSurveys }},
	{"Other Tech Assets", func(p models.IntakePayload) string { return p.Links.OtherAssets }},
	{"Brand Voice (Text)", func(p models.IntakePayload) string { return p.BrandVoice }},
	{"Sales Pitch (Text)", func(p models.IntakePayload) string { return p.SalesPitch }},
	{"Offer Info (Text)", func(p models.IntakePayload) string { return p.OfferInfo }},
	{"Brand FAQ (Text)", func(p models.IntakePayload) string { return p.BrandFAQ }},
	{"Product FAQ (Text)", func(p models.IntakePayload) string { return p.ProductFAQ }},
	{"Sales Guide (Text)", func(p models.IntakePayload) string { return p.SalesGuide }},
	{"Lead Qualification (Text)", func(p models.IntakePayload) string { return p.LeadQualification }},
	{"Credentials/API Keys", func(p models.IntakePayload) string { return p.Credentials }},
	{"Notes", func(p models.IntakePayload) string { return p.Notes }},
	{"Loom URL", func(p models.IntakePayload) string { return p.LoomURL }},
}

// BuildFields maps the payload onto Airtable field names. Empty strings and
// empty lists are dropped so Airtable never receives blank values.
func BuildFields(payload models.IntakePayload, attachmentsMode string) map[string]interface{} {
	fields := make(map[string]interface{})

	setField := func(name string, value interface{}) {
		switch v := value.(type) {
		case nil:
			return
		case string:
			if strings.TrimSpace(v) == "" {
				return
			}
		case []interface{}:
			if len(v) == 0 {
				return
			}
		case []models.Attachment:
			if len(v) == 0 {
				return
			}
		case []map[string]string:
			if len(v) == 0 {
				return
			}
		}
		fields[name] = value
	}

	for _, f := range fieldLabels {
		setField(f.label, f.value(payload))
	}

	names := make([]string, 0, len(payload.UploadedFiles))
	for _, f := range payload.UploadedFiles {
		names = append(names, f.Name)
	}
	setField("Uploaded Files (names)", strings.Join(names, ", "))

	switch attachmentsMode {
	case "text":
		// Write URLs into a long-text field, reusing the Attachments name.
		urls := make([]string, 0, len(payload.Attachments))
		for _, a := range payload.Attachments {
			urls = append(urls, a.URL)
		}
		setField("Attachments", strings.Join(urls, ", "))
	case "attachment":
		// Prefer token ids from the upload flow, fall back to URL refs.
		tokens := make([]map[string]string, 0, len(payload.UploadedFiles))
		for _, f := range payload.UploadedFiles {
			if f.Token != "" {
				tokens = append(tokens, map[string]string{"id": f.Token})
			}
		}
		if len(tokens) > 0 {
			setField("Attachments", tokens)
		} else {
			setField("Attachments", payload.Attachments)
		}
	}

	if raw, err := json.Marshal(payload); err == nil {
		fields["Raw JSON"] = string(raw)
	}

	return fields
}

func (c *clientImpl) requireConfig() error {
	if c.config.AirtableAPIKey == "" {
		return fmt.Errorf("missing required env var: AIRTABLE_API_KEY")
	}
	if c.config.AirtableBaseID == "" {
		return fmt.Errorf("missing required env var: AIRTABLE_BASE_ID")
	}
	return nil
}

func (c *clientImpl) CreateIntakeRecord(payload models.IntakePayload) (models.CreateResponse, error) {
	if err := c.requireConfig(); err != nil {
		return models.CreateResponse{}, err
	}
	if c.config.AirtableTableName == "" {
		return models.CreateResponse{}, fmt.Errorf("missing required env var: AIRTABLE_TABLE_NAME")
	}

	fields := BuildFields(payload, c.config.AttachmentsMode)

	jsonPayload, err := json.Marshal(map[string]interface{}{"fields": fields})
	if err != nil {
		return models.CreateResponse{}, fmt.Errorf("error creating payload: %w", err)
	}

	createURL := fmt.Sprintf("%s/v0/%s/%s", c.baseURL, c.config.AirtableBaseID,
		url.PathEscape(c.config.AirtableTableName))

	req, err := http.NewRequest("POST", createURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return models.CreateResponse{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+c.config.AirtableAPIKey)
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.CreateResponse{}, fmt.Errorf("error creating Airtable record: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.CreateResponse{}, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.CreateResponse{}, fmt.Errorf("error from Airtable API: %d %s: %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), string(body))
	}

	log.Printf("Created Airtable record in table %s", c.config.AirtableTableName)
	return models.ParseCreateResponse(body), nil
}

func (c *clientImpl) FetchRecord(recordID string) (*models.Record, error) {
	if err := c.requireConfig(); err != nil {
		return nil, err
	}
	if c.config.AirtableTableName == "" {
		return nil, fmt.Errorf("missing required env var: AIRTABLE_TABLE_NAME")
	}

	fetchURL := fmt.Sprintf("%s/v0/%s/%s/%s", c.baseURL, c.config.AirtableBaseID,
		url.PathEscape(c.config.AirtableTableName), recordID)

	req, err := http.NewRequest("GET", fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+c.config.AirtableAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching Airtable record: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from Airtable API: %d %s: %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), string(body))
	}

	var record models.Record
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}
	return &record, nil
}
