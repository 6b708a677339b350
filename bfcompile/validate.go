package bfcompile

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation describes a single rejected constraint on a named field.
type Violation struct {
	Field  string
	Reason string
}

// ValidationErrors aggregates every violated constraint. All checks run
// independently, so a caller sees the complete list and can fix the config in
// one pass instead of replaying validate-fix cycles.
type ValidationErrors []Violation

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, fmt.Sprintf("%s %s", v.Field, v.Reason))
	}
	return "invalid config:\n  - " + strings.Join(msgs, "\n  - ")
}

var namePrefixRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

// Validate checks all per-field and cross-field constraints on cfg. It
// returns nil when every constraint holds and a ValidationErrors listing all
// failures otherwise. Validation never mutates cfg.
func Validate(cfg Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their yaml name so messages match what users wrote.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("name_prefix", validateNamePrefix); err != nil {
		return err
	}
	if err := v.RegisterValidation("bucket_name", validateBucketName); err != nil {
		return err
	}
	v.RegisterStructValidation(validateConfigCrossField, Config{})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	violations := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			Field:  fe.Field(),
			Reason: formatViolation(fe),
		})
	}
	return violations
}

func validateNamePrefix(fl validator.FieldLevel) bool {
	return namePrefixRegex.MatchString(fl.Field().String())
}

func validateBucketName(fl validator.FieldLevel) bool {
	return !strings.HasPrefix(fl.Field().String(), "s3://")
}

// validateConfigCrossField covers the constraints that span two fields. Each
// check reports independently so one failure never masks another.
func validateConfigCrossField(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}

	if cfg.EnableFusion && !cfg.EnableWave {
		sl.ReportError(cfg.EnableFusion, "enable_fusion", "EnableFusion",
			"fusion_requires_wave", "")
	}
	if cfg.HeadMinVcpus > cfg.HeadMaxVcpus {
		sl.ReportError(cfg.HeadMinVcpus, "head_min_vcpus", "HeadMinVcpus",
			"min_above_max", "head_max_vcpus")
	}
	if cfg.ComputeMinVcpus > cfg.ComputeMaxVcpus {
		sl.ReportError(cfg.ComputeMinVcpus, "compute_min_vcpus", "ComputeMinVcpus",
			"min_above_max", "compute_max_vcpus")
	}
}

func formatViolation(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("exceeds maximum length of %s (got %q)", e.Param(), e.Value())
	case "min":
		if e.Kind() == reflect.Slice {
			return "must not be empty"
		}
		return fmt.Sprintf("must be at least %s (got %v)", e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("must be one of %s (got %q)", e.Param(), e.Value())
	case "url":
		return fmt.Sprintf("must be a valid URL (got %q)", e.Value())
	case "name_prefix":
		return fmt.Sprintf("may only contain lowercase letters, digits and hyphens (got %q)", e.Value())
	case "bucket_name":
		return fmt.Sprintf("must be a bare bucket name without a URI scheme (got %q)", e.Value())
	case "fusion_requires_wave":
		return "requires enable_wave to be true"
	case "min_above_max":
		return fmt.Sprintf("must not exceed %s", e.Param())
	default:
		return fmt.Sprintf("failed validation %q", e.Tag())
	}
}
