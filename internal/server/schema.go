// internal/server/schema.go
package server

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	stderrors "betabot/internal/common/errors"
	"betabot/internal/models"
)

// askRequest is the POST /ask body. Question is an accepted alias for Query;
// when both are present Query wins.
type askRequest struct {
	Query    string `json:"query"`
	Question string `json:"question"`
	Mode     string `json:"mode"`
}

// askSchema constrains the request shape before any field logic runs.
var askSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"query":    map[string]interface{}{"type": "string", "maxLength": 4000},
		"question": map[string]interface{}{"type": "string", "maxLength": 4000},
		"mode":     map[string]interface{}{"type": "string", "enum": []string{"tax", "therapy"}},
	},
	"additionalProperties": false,
}

// validateAskRequest checks the decoded body against the schema and resolves
// the query/question alias into a models.Query.
func validateAskRequest(body map[string]interface{}) (models.Query, error) {
	schemaLoader := gojsonschema.NewGoLoader(askSchema)
	documentLoader := gojsonschema.NewGoLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return models.Query{}, stderrors.NewInvalidInputError("malformed request body")
	}
	if !result.Valid() {
		var issues []string
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return models.Query{}, stderrors.NewInvalidInputError(strings.Join(issues, "; "))
	}

	text, _ := body["query"].(string)
	if strings.TrimSpace(text) == "" {
		text, _ = body["question"].(string)
	}
	if strings.TrimSpace(text) == "" {
		return models.Query{}, stderrors.NewInvalidInputError("request must include a non-empty 'query' or 'question' field")
	}

	mode, _ := body["mode"].(string)
	return models.Query{Text: text, Mode: models.Mode(mode)}.Normalized(), nil
}
