package form

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// EncodeMultipart builds the outgoing multipart/form-data body from the
// current state: every text field (links flattened to dotted keys), the
// phone companion fields and every managed file selection.
func (f *Form) EncodeMultipart() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, name := range textFieldOrder {
		if err := writer.WriteField(name, f.values[name]); err != nil {
			return nil, "", err
		}
	}

	// Companion fields so the server can read the phone without knowing
	// the widget's internal format.
	if err := writer.WriteField("phone_e164", f.phoneValue.Raw); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("phone_country", strings.ToUpper(f.phoneValue.Country)); err != nil {
		return nil, "", err
	}

	for field, files := range f.files {
		for _, file := range files {
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition",
				fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, file.Name))
			contentType := file.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			header.Set("Content-Type", contentType)
			part, err := writer.CreatePart(header)
			if err != nil {
				return nil, "", err
			}
			if _, err := part.Write(file.Data); err != nil {
				return nil, "", err
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

// Submit runs the pre-submit checks and posts the form. A failed check
// aborts before any network call. On a 200 response all state resets to
// defaults; any other outcome leaves the state untouched for retry.
func (f *Form) Submit(client *http.Client, url string) error {
	f.success = ""
	if !f.ValidateRequired() {
		return errors.New(f.errMessage)
	}

	body, contentType, err := f.EncodeMultipart()
	if err != nil {
		f.errMessage = err.Error()
		return err
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Post(url, contentType, body)
	if err != nil {
		f.errMessage = err.Error()
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		f.errMessage = "Submission failed"
		return errors.New(f.errMessage)
	}

	f.Reset()
	f.success = "Thanks! We received your submission."
	return nil
}
