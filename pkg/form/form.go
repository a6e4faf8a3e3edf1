// Package form models the five-section onboarding form: field values,
// live per-field validation, section completion tracking, file-selection
// bookkeeping and multipart submission.
package form

import (
	"regexp"
	"strings"

	"onboarding-intake/pkg/phone"
)

// Section indexes, in accordion order.
const (
	SectionBrandInfo = iota
	SectionBrandAssets
	SectionSalesMaterial
	SectionTechStack
	SectionFinal
	sectionCount
)

var (
	emailPattern     = regexp.MustCompile(`.+@.+\..+`)
	phonePattern     = regexp.MustCompile(`^\+?[0-9()\-\s]{7,20}$`)
	instagramPattern = regexp.MustCompile(`^[a-zA-Z0-9._]{1,30}$`)
	urlPattern       = regexp.MustCompile(`^(https?://)?([\w-]+\.)+[\w-]{2,}(/[\w\-._~:/?#\[\]@!$&'()*+,;=.]+)?$`)
)

// textFieldOrder lists every text field in submission order. Nested link
// fields travel as flattened dotted keys.
var textFieldOrder = []string{
	"companyName",
	"contactName",
	"email",
	"phone",
	"website",
	"instagram",
	"crm",
	"emailPlatform",
	"brandVoice",
	"salesPitch",
	"offerInfo",
	"brandFAQ",
	"productFAQ",
	"salesGuide",
	"leadQualification",
	"credentials",
	"notes",
	"loomUrl",
	"links.landingPages",
	"links.calendars",
	"links.webinarLinks",
	"links.formsSurveys",
	"links.otherAssets",
}

// Form holds one session's worth of onboarding form state. All state is
// transient: it resets to defaults on successful submission.
type Form struct {
	values      map[string]string
	phoneValue  phone.Value
	fieldErrors map[string]string
	open        [sectionCount]bool
	files       map[string][]File
	counts      map[string]int
	errMessage  string
	success     string
}

// New returns a fresh form with only the first section open.
func New() *Form {
	f := &Form{
		values:      defaultValues(),
		phoneValue:  phone.Value{Country: "us"},
		fieldErrors: make(map[string]string),
		files:       make(map[string][]File),
		counts:      make(map[string]int),
	}
	f.open[SectionBrandInfo] = true
	return f
}

func defaultValues() map[string]string {
	values := make(map[string]string, len(textFieldOrder))
	for _, name := range textFieldOrder {
		values[name] = ""
	}
	return values
}

// SetValue updates one field and re-validates it. Validation never blocks
// the update; it only sets or clears the field-level error message.
// Instagram input is stored with every "@" stripped, so completion checks
// and the submitted payload see the bare handle.
func (f *Form) SetValue(name, value string) {
	if _, ok := f.values[name]; !ok {
		return
	}
	if name == "instagram" {
		value = strings.ReplaceAll(value, "@", "")
	}
	f.values[name] = value
	f.validateField(name, value)
}

// Value returns the current value of a field.
func (f *Form) Value(name string) string {
	return f.values[name]
}

// SetPhone re-derives the phone representations from the raw input.
func (f *Form) SetPhone(raw, country string) {
	f.phoneValue = phone.Parse(raw, country)
}

// Phone returns the current phone value.
func (f *Form) Phone() phone.Value {
	return f.phoneValue
}

// FieldError returns the live validation message for a field, if any.
func (f *Form) FieldError(name string) string {
	return f.fieldErrors[name]
}

// ErrorMessage returns the submission-level error set by the last failed
// ValidateRequired or Submit call.
func (f *Form) ErrorMessage() string {
	return f.errMessage
}

// SuccessMessage returns the confirmation set after a successful submit.
func (f *Form) SuccessMessage() string {
	return f.success
}

// Toggle flips one section open or closed. Sections are independent;
// several may be open at once.
func (f *Form) Toggle(section int) {
	if section >= 0 && section < sectionCount {
		f.open[section] = !f.open[section]
	}
}

// IsOpen reports whether a section is currently open.
func (f *Form) IsOpen(section int) bool {
	return section >= 0 && section < sectionCount && f.open[section]
}

func (f *Form) openSection(section int) {
	f.open[section] = true
}

func isValidEmail(v string) bool { return emailPattern.MatchString(v) }
func isValidPhone(v string) bool { return phonePattern.MatchString(v) }
func isValidURL(v string) bool   { return urlPattern.MatchString(v) }

func isValidInstagram(v string) bool {
	return instagramPattern.MatchString(v) && !strings.HasSuffix(v, ".")
}

func (f *Form) validateField(name, value string) {
	switch name {
	case "email":
		ok := value == "" || isValidEmail(value)
		f.setFieldError("email", ok, "Please enter a valid email address")
	case "instagram":
		stripped := strings.ReplaceAll(value, "@", "")
		ok := stripped == "" || isValidInstagram(stripped)
		f.setFieldError("instagram", ok, "Please use letters, numbers, and periods only (max 30 characters)")
	case "website":
		ok := value == "" || isValidURL(value)
		f.setFieldError("website", ok, "Please enter a valid website URL")
	}
}

func (f *Form) setFieldError(name string, ok bool, message string) {
	if ok {
		delete(f.fieldErrors, name)
	} else {
		f.fieldErrors[name] = message
	}
}

// textOrFile is the completion rule for the long-form fields: satisfied by
// non-empty text or at least one attached file on the paired file input.
func (f *Form) textOrFile(textField, fileField string) bool {
	return f.values[textField] != "" || f.counts[fileField] > 0
}

// SectionComplete derives the completion indicator for one section from
// current values and attachment counts. UI affordance only; it is not a
// submission gate by itself.
func (f *Form) SectionComplete(section int) bool {
	switch section {
	case SectionBrandInfo:
		// Required: companyName, contactName, email (valid), instagram handle present & valid
		if f.values["companyName"] == "" || f.values["contactName"] == "" ||
			f.values["email"] == "" || !isValidEmail(f.values["email"]) {
			return false
		}
		if f.values["instagram"] == "" || !isValidInstagram(f.values["instagram"]) {
			return false
		}
		if f.values["phone"] != "" && !isValidPhone(f.values["phone"]) {
			return false
		}
		if f.values["website"] != "" && !isValidURL(f.values["website"]) {
			return false
		}
		return true
	case SectionBrandAssets:
		return f.textOrFile("brandVoice", "brandVoiceFile") &&
			f.textOrFile("salesPitch", "salesPitchFile") &&
			f.textOrFile("offerInfo", "offerInfoFile")
	case SectionSalesMaterial:
		return f.textOrFile("brandFAQ", "brandFAQFile") &&
			f.textOrFile("productFAQ", "productFAQFile") &&
			f.textOrFile("salesGuide", "salesGuideFile") &&
			f.textOrFile("leadQualification", "leadQualificationFile")
	case SectionTechStack:
		// Only CRM gates completion here; the other fields are informational.
		return f.values["crm"] != ""
	case SectionFinal:
		loom := f.values["loomUrl"]
		if loom != "" && !isValidURL(loom) {
			return false
		}
		return f.values["notes"] != "" || loom != ""
	default:
		return false
	}
}

// requiredCheck is one pre-submit requirement: the field pair to test, the
// message shown when it fails and the section to open.
type requiredCheck struct {
	textField string
	fileField string
	message   string
	section   int
}

var requiredChecks = []requiredCheck{
	{"instagram", "", "Instagram Handle is required", SectionBrandInfo},
	{"brandVoice", "brandVoiceFile", "Brand Voice Guide is required (paste or upload)", SectionBrandAssets},
	{"salesPitch", "salesPitchFile", "Sales Pitch Script is required (paste or upload)", SectionBrandAssets},
	{"offerInfo", "offerInfoFile", "Offer Information is required (paste or upload)", SectionBrandAssets},
	{"brandFAQ", "brandFAQFile", "Brand FAQ is required (paste or upload)", SectionSalesMaterial},
	{"productFAQ", "productFAQFile", "Product FAQ is required (paste or upload)", SectionSalesMaterial},
	{"salesGuide", "salesGuideFile", "Sales Guide is required (paste or upload)", SectionSalesMaterial},
	{"leadQualification", "leadQualificationFile", "Lead Qualification criteria is required (paste or upload)", SectionSalesMaterial},
}

// ValidateRequired runs the pre-submit checks in fixed order and stops at
// the first failure, setting the error message and opening the offending
// section. Returns true when the form may be submitted.
func (f *Form) ValidateRequired() bool {
	for _, check := range requiredChecks {
		if f.values[check.textField] != "" {
			continue
		}
		if check.fileField != "" && f.counts[check.fileField] > 0 {
			continue
		}
		f.errMessage = check.message
		f.openSection(check.section)
		return false
	}
	f.errMessage = ""
	return true
}

// Reset returns every value, file selection and the phone field to
// defaults, as after a successful submission.
func (f *Form) Reset() {
	f.values = defaultValues()
	f.phoneValue = phone.Value{Country: "us"}
	f.fieldErrors = make(map[string]string)
	f.files = make(map[string][]File)
	f.counts = make(map[string]int)
	f.errMessage = ""
}
