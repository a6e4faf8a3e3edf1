package models

// IntakeLinks groups the optional tech-asset URL fields from the links section.
type IntakeLinks struct {
	LandingPages string `json:"landingPages,omitempty"`
	Calendars    string `json:"calendars,omitempty"`
	WebinarLinks string `json:"webinarLinks,omitempty"`
	FormsSurveys string `json:"formsSurveys,omitempty"`
	OtherAssets  string `json:"otherAssets,omitempty"`
}

// UploadedFileSummary describes one file received with a submission.
// Token is set when the Airtable upload endpoint accepted the bytes and
// returned a reusable attachment token.
type UploadedFileSummary struct {
	Field string `json:"field"`
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	Type  string `json:"type"`
	Token string `json:"airtableTokenId,omitempty"`
}

// Attachment is a URL reference usable in an Airtable attachment field.
type Attachment struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

// IntakePayload is the normalized onboarding submission. Every field is
// optional at the type level; required-ness lives in the form validation.
type IntakePayload struct {
	CompanyName       string                `json:"companyName,omitempty"`
	ContactName       string                `json:"contactName,omitempty"`
	Email             string                `json:"email,omitempty"`
	Phone             string                `json:"phone,omitempty"`
	Website           string                `json:"website,omitempty"`
	Instagram         string                `json:"instagram,omitempty"`
	CRM               string                `json:"crm,omitempty"`
	EmailPlatform     string                `json:"emailPlatform,omitempty"`
	Links             IntakeLinks           `json:"links,omitempty"`
	BrandVoice        string                `json:"brandVoice,omitempty"`
	SalesPitch        string                `json:"salesPitch,omitempty"`
	OfferInfo         string                `json:"offerInfo,omitempty"`
	BrandFAQ          string                `json:"brandFAQ,omitempty"`
	ProductFAQ        string                `json:"productFAQ,omitempty"`
	SalesGuide        string                `json:"salesGuide,omitempty"`
	LeadQualification string                `json:"leadQualification,omitempty"`
	Credentials       string                `json:"credentials,omitempty"`
	Notes             string                `json:"notes,omitempty"`
	LoomURL           string                `json:"loomUrl,omitempty"`
	UploadedFiles     []UploadedFileSummary `json:"uploadedFiles,omitempty"`
	Attachments       []Attachment          `json:"attachments,omitempty"`
}
