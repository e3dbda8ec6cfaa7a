package db

import (
	"encoding/json"
)

func ObjectToJSON(obj any) string {
	bytes, err := json.Marshal(obj)
	if err != nil {
		return ""
	}
	return string(bytes)
}

// FillPageContent deserializes the sql content column into the typed
// content union. No-op when the column is empty.
func FillPageContent(page *Page) error {
	if page.ContentJSON == "" {
		return nil
	}
	return json.Unmarshal([]byte(page.ContentJSON), &page.Content)
}
