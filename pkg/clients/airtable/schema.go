package airtable

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// FieldIDByName resolves a display name to the stable table and field ids
// via the base schema, so direct attachment uploads survive a field rename
// in the Airtable UI. Returns nil when the lookup fails for any reason.
func (c *clientImpl) FieldIDByName(tableName, fieldName string) *FieldRef {
	if err := c.requireConfig(); err != nil {
		log.Printf("Skipping Airtable schema lookup: %v", err)
		return nil
	}

	schemaURL := fmt.Sprintf("%s/v0/meta/bases/%s/tables", c.baseURL, c.config.AirtableBaseID)

	req, err := http.NewRequest("GET", schemaURL, nil)
	if err != nil {
		log.Printf("Error creating schema request: %v", err)
		return nil
	}
	req.Header.Add("Authorization", "Bearer "+c.config.AirtableAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Failed to fetch Airtable schema: %v", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Error reading schema response: %v", err)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("Failed to fetch Airtable schema: %d %s", resp.StatusCode, string(body))
		return nil
	}

	var schema struct {
		Tables []struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Fields []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"fields"`
		} `json:"tables"`
	}
	if err := json.Unmarshal(body, &schema); err != nil {
		log.Printf("Error parsing schema response: %v", err)
		return nil
	}

	for _, table := range schema.Tables {
		if table.Name != tableName {
			continue
		}
		for _, field := range table.Fields {
			if field.Name == fieldName {
				return &FieldRef{TableID: table.ID, FieldID: field.ID}
			}
		}
		return nil
	}
	return nil
}
