package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"guard-matching/internal/common/errors"
	"guard-matching/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}

// CompileSchema parses a JSON schema held as a decoded map.
func CompileSchema(schema map[string]interface{}) (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
}

// ValidateVariables checks a job's raw variables document against a compiled schema.
func ValidateVariables(schema *gojsonschema.Schema, variables string) (*ValidationResult, error) {
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(variables))
	if err != nil {
		return nil, err
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// Validator holds the compiled input schema of every registered task type.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

func NewValidator(reg *registry.ActivityRegistry) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema)}
	if reg == nil {
		return v, nil
	}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		s, err := CompileSchema(a.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = s
	}
	return v, nil
}

// Validate returns an INPUT_VALIDATION_FAILED error when the variables do not
// satisfy the task's input schema. Task types without a schema always pass.
func (v *Validator) Validate(taskType, variables string) error {
	if v == nil {
		return nil
	}
	schema, ok := v.schemas[taskType]
	if !ok {
		return nil
	}

	result, err := ValidateVariables(schema, variables)
	if err != nil {
		return errors.NewInputValidationFailedError(err.Error())
	}
	if !result.Valid {
		return errors.NewInputValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

var activityNamePattern = regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+$`)

func ValidateActivityNaming(activityID string) error {
	if !activityNamePattern.MatchString(activityID) {
		return fmt.Errorf("activity ID must follow format: domain.subdomain.action (e.g., matching.guards.rank)")
	}
	return nil
}

// Decode validates variables against the task's schema and unmarshals them
// into dst. Both failures are non-retryable INPUT_VALIDATION_FAILED errors.
func (v *Validator) Decode(taskType, variables string, dst interface{}) error {
	if err := v.Validate(taskType, variables); err != nil {
		return err
	}
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}
	if err := json.Unmarshal([]byte(variables), dst); err != nil {
		return errors.NewInputValidationFailedError(fmt.Sprintf("parse input: %v", err))
	}
	return nil
}
