package airtable

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-intake/pkg/config"
	"onboarding-intake/pkg/models"
)

func testConfig() *config.Config {
	return &config.Config{
		AirtableAPIKey:    "key123",
		AirtableBaseID:    "app123",
		AirtableTableName: "Client Intake",
		AttachmentsMode:   "attachment",
	}
}

func TestBuildFieldsDropsEmptyValues(t *testing.T) {
	payload := models.IntakePayload{
		CompanyName: "Acme",
		Email:       "",
		Website:     "   ",
	}

	fields := BuildFields(payload, "attachment")

	assert.Equal(t, "Acme", fields["Company Name"])
	assert.NotContains(t, fields, "Email")
	assert.NotContains(t, fields, "Website")
	assert.NotContains(t, fields, "Attachments")
	assert.NotContains(t, fields, "Uploaded Files (names)")
	assert.Contains(t, fields, "Raw JSON")
}

func TestBuildFieldsPrefersUploadTokens(t *testing.T) {
	payload := models.IntakePayload{
		UploadedFiles: []models.UploadedFileSummary{
			{Field: "brandVoiceFile", Name: "brandVoiceFile.pdf", Token: "att1"},
			{Field: "salesPitchFile", Name: "salesPitchFile.txt"},
		},
		Attachments: []models.Attachment{{URL: "https://example.com/f.pdf"}},
	}

	fields := BuildFields(payload, "attachment")

	assert.Equal(t, []map[string]string{{"id": "att1"}}, fields["Attachments"])
	assert.Equal(t, "brandVoiceFile.pdf, salesPitchFile.txt", fields["Uploaded Files (names)"])
}

func TestBuildFieldsFallsBackToURLAttachments(t *testing.T) {
	payload := models.IntakePayload{
		Attachments: []models.Attachment{{URL: "https://example.com/f.pdf"}},
	}

	fields := BuildFields(payload, "attachment")

	assert.Equal(t, payload.Attachments, fields["Attachments"])
}

func TestBuildFieldsUnknownModeWritesNoAttachments(t *testing.T) {
	payload := models.IntakePayload{
		UploadedFiles: []models.UploadedFileSummary{
			{Field: "brandVoiceFile", Name: "brandVoiceFile.pdf", Token: "att1"},
		},
		Attachments: []models.Attachment{{URL: "https://example.com/f.pdf"}},
	}

	fields := BuildFields(payload, "disabled")

	assert.NotContains(t, fields, "Attachments")
	assert.Equal(t, "brandVoiceFile.pdf", fields["Uploaded Files (names)"])
}

func TestBuildFieldsTextMode(t *testing.T) {
	payload := models.IntakePayload{
		Attachments: []models.Attachment{
			{URL: "https://example.com/a.pdf"},
			{URL: "https://example.com/b.pdf"},
		},
	}

	fields := BuildFields(payload, "text")

	assert.Equal(t, "https://example.com/a.pdf, https://example.com/b.pdf", fields["Attachments"])
}

func TestCreateIntakeRecord(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.Write([]byte(`{"id":"rec1","fields":{"Company Name":"Acme"}}`))
	}))
	defer server.Close()

	client := NewClientWithURLs(testConfig(), server.URL, server.URL)
	resp, err := client.CreateIntakeRecord(models.IntakePayload{CompanyName: "Acme"})

	require.NoError(t, err)
	assert.Equal(t, "/v0/app123/Client%20Intake", gotPath)
	assert.Equal(t, "Bearer key123", gotAuth)
	assert.Equal(t, "Acme", gotBody["fields"]["Company Name"])
	assert.Equal(t, "rec1", resp.RecordID())
}

func TestCreateIntakeRecordAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"INVALID_VALUE"}`))
	}))
	defer server.Close()

	client := NewClientWithURLs(testConfig(), server.URL, server.URL)
	_, err := client.CreateIntakeRecord(models.IntakePayload{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "Unprocessable Entity")
	assert.Contains(t, err.Error(), "INVALID_VALUE")
}

func TestCreateIntakeRecordMissingConfig(t *testing.T) {
	cfg := testConfig()
	cfg.AirtableTableName = ""
	client := NewClientWithURLs(cfg, "http://invalid", "http://invalid")

	_, err := client.CreateIntakeRecord(models.IntakePayload{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AIRTABLE_TABLE_NAME")
}

func TestFetchRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/app123/Client%20Intake/rec1", r.URL.EscapedPath())
		w.Write([]byte(`{"id":"rec1","fields":{"Email":"a@b.co"}}`))
	}))
	defer server.Close()

	client := NewClientWithURLs(testConfig(), server.URL, server.URL)
	record, err := client.FetchRecord("rec1")

	require.NoError(t, err)
	assert.Equal(t, "rec1", record.ID)
	assert.Equal(t, "a@b.co", record.Fields["Email"])
}

func TestFetchRecordNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClientWithURLs(testConfig(), server.URL, server.URL)
	record, err := client.FetchRecord("recX")

	require.Error(t, err)
	assert.Nil(t, record)
}

func TestUploadFileReturnsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/bases/app123/attachments", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "brandVoiceFile.pdf", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, []byte("pdf-bytes"), data)
		w.Write([]byte(`{"id":"attTok1"}`))
	}))
	defer server.Close()

	client := NewClientWithURLs(testConfig(), server.URL, server.URL)
	token, err := client.UploadFile("brandVoiceFile.pdf", "application/pdf", []byte("pdf-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "attTok1", token)
}

func TestUploadFile404FallsBackToAlternatePath(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/v0/bases/app123/attachments" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"attachment":{"id":"attTok2"}}`))
	}))
	defer server.Close()

	client := NewClientWithURLs(testConfig(), server.URL, server.URL)
	token, err := client.UploadFile("f.pdf", "application/pdf", []byte("x"))

	require.NoError(t, err)
	assert.Equal(t, "attTok2", token)
	assert.Equal(t, []string{"/v0/bases/app123/attachments", "/v0/app123/attachments"}, paths)
}

func TestUploadFileNon404FailureIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClientWithURLs(testConfig(), server.URL, server.URL)
	token, err := client.UploadFile("f.pdf", "application/pdf", []byte("x"))

	require.NoError(t, err, "a rejected upload is terminal for the file, not the request")
	assert.Empty(t, token)
}

func TestUploadFileTokenField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok3"}`))
	}))
	defer server.Close()

	client := NewClientWithURLs(testConfig(), server.URL, server.URL)
	token, err := client.UploadFile("f.pdf", "", []byte("x"))

	require.NoError(t, err)
	assert.Equal(t, "tok3", token)
}

func TestUploadAttachment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/app123/rec1/fldAtt/uploadAttachment", r.URL.Path)
		var body map[string]string
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		assert.Equal(t, "cGRmLWJ5dGVz", body["file"]) // base64("pdf-bytes")
		assert.Equal(t, "application/pdf", body["contentType"])
		assert.Equal(t, "brandVoiceFile.pdf", body["filename"])
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClientWithURLs(testConfig(), server.URL, server.URL)
	ok, err := client.UploadAttachment("rec1", "fldAtt", "brandVoiceFile.pdf", "application/pdf", []byte("pdf-bytes"))

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUploadAttachmentFailureIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithURLs(testConfig(), server.URL, server.URL)
	ok, err := client.UploadAttachment("rec1", "Attachments", "f.pdf", "application/pdf", []byte("x"))

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFieldIDByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/meta/bases/app123/tables", r.URL.Path)
		w.Write([]byte(`{"tables":[
			{"id":"tblOther","name":"Other","fields":[{"id":"fldX","name":"Attachments"}]},
			{"id":"tblMain","name":"Client Intake","fields":[
				{"id":"fldName","name":"Company Name"},
				{"id":"fldAtt","name":"Attachments"}
			]}
		]}`))
	}))
	defer server.Close()

	client := NewClientWithURLs(testConfig(), server.URL, server.URL)
	ref := client.FieldIDByName("Client Intake", "Attachments")

	require.NotNil(t, ref)
	assert.Equal(t, "tblMain", ref.TableID)
	assert.Equal(t, "fldAtt", ref.FieldID)
}

func TestFieldIDByNameMissingField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tables":[{"id":"tblMain","name":"Client Intake","fields":[]}]}`))
	}))
	defer server.Close()

	client := NewClientWithURLs(testConfig(), server.URL, server.URL)

	assert.Nil(t, client.FieldIDByName("Client Intake", "Attachments"))
	assert.Nil(t, client.FieldIDByName("No Such Table", "Attachments"))
}

func TestFieldIDByNameSchemaErrorReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClientWithURLs(testConfig(), server.URL, server.URL)

	assert.Nil(t, client.FieldIDByName("Client Intake", "Attachments"))
}
