package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidStatement indicates a Statement failed validation.
	ErrInvalidStatement = errors.New("invalid statement")

	// ErrUnknownStatementType indicates a statement_type outside the episode namespace.
	ErrUnknownStatementType = errors.New("unknown statement type")

	// ErrUnknownTemporalType indicates a temporal_type outside the temporal namespace.
	ErrUnknownTemporalType = errors.New("unknown temporal type")
)

// Statement is one labelled statement returned by the extraction call.
type Statement struct {
	Statement     string `json:"statement"`
	StatementType string `json:"statement_type"`
	TemporalType  string `json:"temporal_type"`
}

// Validate checks that the statement has text and both labels belong to the taxonomy.
func (s Statement) Validate() error {
	if strings.TrimSpace(s.Statement) == "" {
		return fmt.Errorf("%w: statement text is empty", ErrInvalidStatement)
	}
	if !IsStatementType(s.StatementType) {
		return fmt.Errorf("%w: %w %q", ErrInvalidStatement, ErrUnknownStatementType, s.StatementType)
	}
	if !IsTemporalType(s.TemporalType) {
		return fmt.Errorf("%w: %w %q", ErrInvalidStatement, ErrUnknownTemporalType, s.TemporalType)
	}
	return nil
}

// StatementSchema is the JSON schema of the extraction output handed to the
// prompt renderer. Enum values mirror the registry.
var StatementSchema = buildStatementSchema()

func buildStatementSchema() string {
	quote := func(names []string) string {
		quoted := make([]string, len(names))
		for i, n := range names {
			quoted[i] = `"` + n + `"`
		}
		return strings.Join(quoted, ", ")
	}

	return fmt.Sprintf(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "statement": {"type": "string"},
      "statement_type": {"type": "string", "enum": [%s]},
      "temporal_type": {"type": "string", "enum": [%s]}
    },
    "required": ["statement", "statement_type", "temporal_type"],
    "additionalProperties": false
  }
}`, quote(Categories(Episode)), quote(Categories(Temporal)))
}
