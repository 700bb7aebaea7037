package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectUpdateApply(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantTitle   string
		wantContent string
	}{
		{name: "title only", body: `{"title":"Renamed"}`, wantTitle: "Renamed", wantContent: "{}"},
		{name: "null keeps the field", body: `{"title":null,"content":"[]"}`, wantTitle: "Deck", wantContent: "[]"},
		{name: "empty string clears", body: `{"title":""}`, wantTitle: "", wantContent: "{}"},
		{name: "empty object", body: `{}`, wantTitle: "Deck", wantContent: "{}"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var update ProjectUpdate
			require.NoError(t, json.Unmarshal([]byte(test.body), &update))

			project := Project{ID: 1, Title: "Deck", Content: "{}"}
			update.Apply(&project)

			assert.Equal(t, test.wantTitle, project.Title)
			assert.Equal(t, test.wantContent, project.Content)
		})
	}
}
