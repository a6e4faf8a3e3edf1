package services

import (
	"encoding/json"
	"log"
	"sync"

	"onboarding-intake/pkg/clients/airtable"
	"onboarding-intake/pkg/clients/webhook"
	"onboarding-intake/pkg/config"
	"onboarding-intake/pkg/models"
	"onboarding-intake/pkg/utils"
)

// FileEntry is one uploaded file as extracted from the multipart request.
// Name is the renamed upload name (field + original extension); Field keeps
// the original form field key.
type FileEntry struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// SubmissionInput carries the parsed multipart request into the service.
type SubmissionInput struct {
	Values map[string]string
	Files  []FileEntry
}

// SubmissionResult is the outcome reported back to the browser.
type SubmissionResult struct {
	Airtable json.RawMessage
	Record   interface{} // fetched record if available, else the raw create response
	Webhook  webhook.Result
	Webhook2 webhook.Result
}

// SubmissionService defines the interface for handling onboarding submissions
type SubmissionService interface {
	ProcessSubmission(input SubmissionInput) (*SubmissionResult, error)
	ProcessJSONSubmission(payload models.IntakePayload) (*SubmissionResult, error)
}

type submissionServiceImpl struct {
	airtableClient    airtable.Client
	notifier          webhook.Notifier
	secondaryNotifier webhook.Notifier
	config            *config.Config
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	airtableClient airtable.Client,
	notifier webhook.Notifier,
	secondaryNotifier webhook.Notifier,
	cfg *config.Config,
) SubmissionService {
	return &submissionServiceImpl{
		airtableClient:    airtableClient,
		notifier:          notifier,
		secondaryNotifier: secondaryNotifier,
		config:            cfg,
	}
}

// ProcessSubmission handles the multipart flow: token uploads per file,
// record creation, the best-effort direct-attachment fallback, a re-fetch
// of the canonical record, and the webhook fan-out.
func (s *submissionServiceImpl) ProcessSubmission(input SubmissionInput) (*SubmissionResult, error) {
	uploaded := make([]models.UploadedFileSummary, 0, len(input.Files))
	for _, f := range input.Files {
		token, err := s.airtableClient.UploadFile(f.Name, f.ContentType, f.Data)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, models.UploadedFileSummary{
			Field: f.Field,
			Name:  f.Name,
			Size:  int64(len(f.Data)),
			Type:  f.ContentType,
			Token: token,
		})
	}

	payload := s.buildPayload(input.Values, uploaded)

	create, err := s.airtableClient.CreateIntakeRecord(payload)
	if err != nil {
		return nil, err
	}

	// Fallback: attach files that got no token directly to the record.
	// Everything in this block is best-effort and never fails the request.
	if recordID := create.RecordID(); recordID != "" {
		s.attachTokenless(recordID, uploaded, input.Files)
	}

	return s.finishSubmission(create), nil
}

// ProcessJSONSubmission handles the application/json fallback path, which
// carries no files.
func (s *submissionServiceImpl) ProcessJSONSubmission(payload models.IntakePayload) (*SubmissionResult, error) {
	create, err := s.airtableClient.CreateIntakeRecord(payload)
	if err != nil {
		return nil, err
	}
	return s.finishSubmission(create), nil
}

// buildPayload assembles the intake payload from the multipart text fields.
// Phone preference order: E.164 companion field, then country calling code
// plus digits-only national number (best-effort, may be invalid), then the
// raw phone field.
func (s *submissionServiceImpl) buildPayload(values map[string]string, uploaded []models.UploadedFileSummary) models.IntakePayload {
	get := func(name string) string { return values[name] }

	phone := get("phone_e164")
	if phone == "" {
		code := get("phone_code")
		nat := get("phone_national")
		if code != "" && nat != "" {
			phone = code + utils.DigitsOnly(nat)
		} else {
			phone = get("phone")
		}
	}

	return models.IntakePayload{
		CompanyName:   get("companyName"),
		ContactName:   get("contactName"),
		Email:         get("email"),
		Phone:         phone,
		Website:       get("website"),
		Instagram:     get("instagram"),
		CRM:           get("crm"),
		EmailPlatform: get("emailPlatform"),
		Links: models.IntakeLinks{
			LandingPages: get("links.landingPages"),
			Calendars:    get("links.calendars"),
			WebinarLinks: get("links.webinarLinks"),
			FormsSurveys: get("links.formsSurveys"),
			OtherAssets:  get("links.otherAssets"),
		},
		BrandVoice:        get("brandVoice"),
		SalesPitch:        get("salesPitch"),
		OfferInfo:         get("offerInfo"),
		BrandFAQ:          get("brandFAQ"),
		ProductFAQ:        get("productFAQ"),
		SalesGuide:        get("salesGuide"),
		LeadQualification: get("leadQualification"),
		Credentials:       get("credentials"),
		Notes:             get("notes"),
		LoomURL:           get("loomUrl"),
		UploadedFiles:     uploaded,
		Attachments:       []models.Attachment{},
	}
}

// attachTokenless performs the direct-attachment fallback for files within
// the size cap that failed token upload. The field id is resolved once so a
// renamed Attachments field still works.
func (s *submissionServiceImpl) attachTokenless(recordID string, uploaded []models.UploadedFileSummary, files []FileEntry) {
	fieldTarget := "Attachments"
	if ref := s.airtableClient.FieldIDByName(s.config.AirtableTableName, "Attachments"); ref != nil {
		fieldTarget = ref.FieldID
	}

	// First summary wins when two files on one field collapse to the same
	// upload name.
	tokenByName := make(map[string]string, len(uploaded))
	for _, u := range uploaded {
		key := u.Field + "::" + u.Name
		if _, ok := tokenByName[key]; !ok {
			tokenByName[key] = u.Token
		}
	}

	for _, f := range files {
		if tokenByName[f.Field+"::"+f.Name] != "" {
			continue
		}
		if int64(len(f.Data)) > airtable.MaxDirectUploadSize {
			continue
		}
		if _, err := s.airtableClient.UploadAttachment(recordID, fieldTarget, f.Name, f.ContentType, f.Data); err != nil {
			log.Printf("Aborting direct attachment uploads: %v", err)
			return
		}
	}
}

// finishSubmission re-fetches the canonical record and fires both webhooks
// concurrently, waiting for both before returning.
func (s *submissionServiceImpl) finishSubmission(create models.CreateResponse) *SubmissionResult {
	var fullRecord *models.Record
	if recordID := create.RecordID(); recordID != "" {
		record, err := s.airtableClient.FetchRecord(recordID)
		if err != nil {
			log.Printf("Could not fetch created record %s: %v", recordID, err)
		} else {
			fullRecord = record
		}
	}

	records := create.Records(fullRecord)

	var wg sync.WaitGroup
	var primary, secondary webhook.Result
	wg.Add(2)
	go func() {
		defer wg.Done()
		primary = s.notifier.Notify(records)
	}()
	go func() {
		defer wg.Done()
		secondary = s.secondaryNotifier.Notify(records)
	}()
	wg.Wait()

	result := &SubmissionResult{
		Airtable: create.Raw,
		Webhook:  primary,
		Webhook2: secondary,
	}
	if fullRecord != nil {
		result.Record = fullRecord
	} else {
		result.Record = create.Raw
	}
	return result
}
