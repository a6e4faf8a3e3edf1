package models

import "encoding/json"

// Record is an Airtable record as returned by the REST API. Airtable owns
// the id and creation timestamp; we only read and write through its API.
type Record struct {
	ID          string                 `json:"id"`
	CreatedTime string                 `json:"createdTime,omitempty"`
	Fields      map[string]interface{} `json:"fields,omitempty"`
}

// CreateResponse resolves the two shapes Airtable uses for create responses:
// a single record object or a batch {"records":[...]} wrapper. The shape is
// sniffed once here so callers never re-inspect the raw JSON.
type CreateResponse struct {
	Raw    json.RawMessage
	Single *Record
	Batch  []Record
}

// ParseCreateResponse decodes a create-response body into the tagged union.
// Unrecognized shapes yield a response with only Raw set.
func ParseCreateResponse(raw []byte) CreateResponse {
	resp := CreateResponse{Raw: append(json.RawMessage(nil), raw...)}

	var batch struct {
		Records []Record `json:"records"`
	}
	if err := json.Unmarshal(raw, &batch); err == nil && batch.Records != nil {
		resp.Batch = batch.Records
		return resp
	}

	var single Record
	if err := json.Unmarshal(raw, &single); err == nil && single.ID != "" {
		resp.Single = &single
	}
	return resp
}

// RecordID returns the id of the created record, or "" if none is known.
// For batch responses this is the first record's id.
func (r CreateResponse) RecordID() string {
	if r.Single != nil {
		return r.Single.ID
	}
	if len(r.Batch) > 0 {
		return r.Batch[0].ID
	}
	return ""
}

// Records builds the record set for webhook delivery. A freshly fetched
// record takes priority; otherwise the create response is normalized to a
// slice (batch as-is, single wrapped, unknown shape empty).
func (r CreateResponse) Records(fetched *Record) []Record {
	if fetched != nil {
		return []Record{*fetched}
	}
	if r.Batch != nil {
		return r.Batch
	}
	if r.Single != nil {
		return []Record{*r.Single}
	}
	return []Record{}
}
