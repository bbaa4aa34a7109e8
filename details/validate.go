package details

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

const (
	// MaxReasonLength is the longest permitted ErrorInfo reason.
	MaxReasonLength = 63

	// MaxMetadataKeyLength is the longest permitted ErrorInfo metadata key.
	MaxMetadataKeyLength = 64

	// ReasonPattern is the format an ErrorInfo reason must match.
	ReasonPattern = `^[A-Z][A-Z0-9_]*[A-Z0-9]$`

	// MetadataKeyPattern is the format an ErrorInfo metadata key must match.
	MetadataKeyPattern = `^[a-zA-Z0-9_-]+$`
)

var (
	reasonRe      = regexp.MustCompile(ReasonPattern)
	metadataKeyRe = regexp.MustCompile(MetadataKeyPattern)
)

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		// registration only fails on an empty tag or nil func
		_ = validate.RegisterValidation("rpc_reason", func(fl validator.FieldLevel) bool {
			return reasonRe.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("rpc_metadata_key", func(fl validator.FieldLevel) bool {
			return metadataKeyRe.MatchString(fl.Field().String())
		})
	})
	return validate
}

// FieldError is a single constraint failure on a detail field. It satisfies
// FieldViolation so it can be reported back as a BadRequest detail.
type FieldError struct {
	Field       string
	Description string
}

var _ FieldViolation = (*FieldError)(nil)

// Error implements error.
func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Description
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// GetField implements FieldViolation.
func (e *FieldError) GetField() string { return e.Field }

// GetDescription implements FieldViolation.
func (e *FieldError) GetDescription() string { return e.Description }

// ValidateInfo checks an ErrorInfo reason, domain and metadata keys.
func ValidateInfo(info Info) error {
	var result *multierror.Error

	if err := check("reason", info.GetReason(), fmt.Sprintf("required,max=%d,rpc_reason", MaxReasonLength)); err != nil {
		result = multierror.Append(result, err)
	}
	if err := check("domain", info.GetDomain(), "required,hostname_rfc1123"); err != nil {
		result = multierror.Append(result, err)
	}

	md := info.GetMetadata()
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		field := fmt.Sprintf("metadata[%q]", k)
		if err := check(field, k, fmt.Sprintf("required,max=%d,rpc_metadata_key", MaxMetadataKeyLength)); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// ValidateRetryInfo checks a retry delay is present, well formed and not negative.
func ValidateRetryInfo(info RetryInfo) error {
	d := info.GetRetryDelay()
	if d == nil {
		return &FieldError{Field: "retryDelay", Description: "is required"}
	}
	if err := d.CheckValid(); err != nil {
		return &FieldError{Field: "retryDelay", Description: err.Error()}
	}
	return ValidateRetryDelay(d.AsDuration())
}

// ValidateRetryDelay checks a retry delay is not negative.
func ValidateRetryDelay(d time.Duration) error {
	return check("retryDelay", d, "gte=0s")
}

// ValidateDebugInfo accepts any DebugInfo; its fields are informational.
func ValidateDebugInfo(DebugInfo) error {
	return nil
}

// ValidateQuotaViolation checks a quota violation names its subject.
func ValidateQuotaViolation(v QuotaViolation) error {
	return check("subject", v.GetSubject(), "required")
}

// ValidatePreconditionViolation checks a precondition violation carries its type.
func ValidatePreconditionViolation(v PreconditionViolation) error {
	return check("type", v.GetType(), "required")
}

// ValidateFieldViolation checks a field violation points at a field.
func ValidateFieldViolation(v FieldViolation) error {
	return check("field", v.GetField(), "required")
}

// ValidateResourceInfo checks a resource reference has a type and a name.
// Owner is optional.
func ValidateResourceInfo(info ResourceInfo) error {
	var result *multierror.Error
	if err := check("resourceType", info.GetResourceType(), "required"); err != nil {
		result = multierror.Append(result, err)
	}
	if err := check("resourceName", info.GetResourceName(), "required"); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Prefix rebases the field paths of every FieldError in err under path.
// Errors that are not FieldErrors are returned as field errors at path.
func Prefix(path string, err error) error {
	if err == nil {
		return nil
	}

	var result *multierror.Error
	for _, fe := range FieldErrors(err) {
		result = multierror.Append(result, &FieldError{
			Field:       joinPath(path, fe.Field),
			Description: fe.Description,
		})
	}
	return result.ErrorOrNil()
}

// FieldErrors flattens err into its FieldErrors.
func FieldErrors(err error) []*FieldError {
	if err == nil {
		return nil
	}

	var merr *multierror.Error
	if errors.As(err, &merr) {
		var out []*FieldError
		for _, e := range merr.Errors {
			out = append(out, FieldErrors(e)...)
		}
		return out
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		return []*FieldError{fe}
	}
	return []*FieldError{{Description: err.Error()}}
}

func joinPath(path, field string) string {
	switch {
	case path == "":
		return field
	case field == "":
		return path
	case strings.HasPrefix(field, "["):
		return path + field
	default:
		return path + "." + field
	}
}

func check(field string, value interface{}, tag string) error {
	err := getValidator().Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &FieldError{Field: field, Description: err.Error()}
	}

	var result *multierror.Error
	for _, e := range verrs {
		result = multierror.Append(result, &FieldError{Field: field, Description: describe(e)})
	}
	return result.ErrorOrNil()
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "gte":
		return "must not be negative"
	case "hostname_rfc1123":
		return "must be a service name such as \"pubsub.googleapis.com\""
	case "rpc_reason":
		return "must match " + ReasonPattern
	case "rpc_metadata_key":
		return "must match " + MetadataKeyPattern
	default:
		return "is invalid"
	}
}
