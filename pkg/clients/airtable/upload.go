package airtable

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
)

// UploadFile sends file bytes to the Airtable upload endpoint and returns a
// reusable attachment token. Some accounts serve the endpoint under a
// different path, so a 404 on the primary path triggers one retry against
// the alternate path. Any other failure logs and returns an empty token;
// the file is simply not attached via token.
func (c *clientImpl) UploadFile(filename, contentType string, data []byte) (string, error) {
	if err := c.requireConfig(); err != nil {
		return "", err
	}

	primary := fmt.Sprintf("%s/v0/bases/%s/attachments", c.baseURL, c.config.AirtableBaseID)
	fallback := fmt.Sprintf("%s/v0/%s/attachments", c.baseURL, c.config.AirtableBaseID)

	status, body, err := c.postFileForm(primary, filename, contentType, data)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		firstBody := body
		status, body, err = c.postFileForm(fallback, filename, contentType, data)
		if err != nil {
			return "", err
		}
		if status < 200 || status >= 300 {
			log.Printf("Airtable upload failed 404 on both endpoints: primary=%s fallback=%s",
				string(firstBody), string(body))
			return "", nil
		}
	} else if status < 200 || status >= 300 {
		log.Printf("Airtable upload failed: %d %s", status, string(body))
		return "", nil
	}

	// Token location differs between API versions; first match wins.
	var tokenResp struct {
		ID         string `json:"id"`
		Token      string `json:"token"`
		Attachment struct {
			ID string `json:"id"`
		} `json:"attachment"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		log.Printf("Error parsing Airtable upload response: %v", err)
		return "", nil
	}
	if tokenResp.ID != "" {
		return tokenResp.ID, nil
	}
	if tokenResp.Attachment.ID != "" {
		return tokenResp.Attachment.ID, nil
	}
	return tokenResp.Token, nil
}

func (c *clientImpl) postFileForm(uploadURL, filename, contentType string, data []byte) (int, []byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return 0, nil, fmt.Errorf("error creating form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return 0, nil, fmt.Errorf("error writing form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, nil, fmt.Errorf("error closing form: %w", err)
	}

	req, err := http.NewRequest("POST", uploadURL, &buf)
	if err != nil {
		return 0, nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+c.config.AirtableAPIKey)
	req.Header.Add("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error uploading file: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("error reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// UploadAttachment attaches raw bytes directly to a record field through the
// content API. Used as the fallback for files that failed token upload.
// Failures are reported as ok=false, never as an error.
func (c *clientImpl) UploadAttachment(recordID, field, filename, contentType string, data []byte) (bool, error) {
	if err := c.requireConfig(); err != nil {
		return false, err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	jsonPayload, err := json.Marshal(map[string]string{
		"contentType": contentType,
		"file":        base64.StdEncoding.EncodeToString(data),
		"filename":    filename,
	})
	if err != nil {
		return false, fmt.Errorf("error creating payload: %w", err)
	}

	uploadURL := fmt.Sprintf("%s/v0/%s/%s/%s/uploadAttachment", c.contentURL,
		c.config.AirtableBaseID, recordID, url.PathEscape(field))

	req, err := http.NewRequest("POST", uploadURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return false, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+c.config.AirtableAPIKey)
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Airtable content upload failed: %v", err)
		return false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("Airtable content upload failed: %d %s", resp.StatusCode, string(body))
		return false, nil
	}
	return true, nil
}
