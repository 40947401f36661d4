package progression

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/vi"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	vi_translations "github.com/go-playground/validator/v10/translations/vi"

	"github.com/iseven/vnu-connect-x/internal/models"
)

// Submission is the evidence attached to a mission completion.
// Content, FileName and Link each correspond to one SubmissionKind; empty means
// not provided. ID is assigned by the caller and stored with the mission.
type Submission struct {
	ID       string `json:"-"`
	Content  string `json:"content" validate:"omitempty,max=10000"`
	FileName string `json:"file_name" validate:"omitempty,max=255,basename"`
	Link     string `json:"link" validate:"omitempty,max=2048,url"`
}

// Normalize trims surrounding whitespace from every field.
func (s Submission) Normalize() Submission {
	return Submission{
		ID:       s.ID,
		Content:  strings.TrimSpace(s.Content),
		FileName: strings.TrimSpace(s.FileName),
		Link:     strings.TrimSpace(s.Link),
	}
}

// Kinds returns the kinds present in s, in reflection/file/link order.
func (s Submission) Kinds() []models.SubmissionKind {
	var kinds []models.SubmissionKind
	if s.Content != "" {
		kinds = append(kinds, models.SubmissionReflection)
	}
	if s.FileName != "" {
		kinds = append(kinds, models.SubmissionFile)
	}
	if s.Link != "" {
		kinds = append(kinds, models.SubmissionLink)
	}
	return kinds
}

const basenameTag = "basename"

var (
	validate    *validator.Validate
	translators *ut.UniversalTranslator
)

func init() {
	validate = validator.New()

	// Report json names so messages match the request payload.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation(basenameTag, basenameValidation)

	_en, _vi := en.New(), vi.New()
	translators = ut.New(_en, _en, _vi)

	enTrans, _ := translators.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, enTrans)
	_ = validate.RegisterTranslation(basenameTag, enTrans, func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " must be a file name without directories"
		})

	viTrans, _ := translators.GetTranslator("vi")
	_ = vi_translations.RegisterDefaultTranslations(validate, viTrans)
	_ = validate.RegisterTranslation(basenameTag, viTrans, func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " phải là tên tệp, không chứa thư mục"
		})
}

// basenameValidation accepts names only; file bytes and paths are never stored.
func basenameValidation(fl validator.FieldLevel) bool {
	name, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return false
	}
	return path.Base(name) == name
}

// SubmissionError carries per-field reasons for a rejected submission.
// It matches ErrSubmissionRejected with errors.Is.
type SubmissionError struct {
	Reasons []string
	fields  validator.ValidationErrors
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMsgSubmissionRejected, strings.Join(e.Reasons, "; "))
}

// Is reports ErrSubmissionRejected as the sentinel.
func (e *SubmissionError) Is(target error) bool {
	return target == ErrSubmissionRejected
}

// Translate renders the reasons in the given language ("en" or "vi"),
// falling back to the untranslated reasons for non-field errors.
func (e *SubmissionError) Translate(lang string) []string {
	if len(e.fields) == 0 {
		return e.Reasons
	}
	trans, found := translators.GetTranslator(lang)
	if !found {
		trans, _ = translators.GetTranslator("en")
	}
	out := make([]string, 0, len(e.fields))
	for _, fe := range e.fields {
		out = append(out, fe.Translate(trans))
	}
	return out
}

// ValidateSubmission checks s against the kinds the mission accepts.
// Evidence of a kind the mission does not accept is rejected, and when the
// mission declares any kinds at least one of them must be present.
func ValidateSubmission(m *models.Mission, s Submission) error {
	s = s.Normalize()

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			subErr := &SubmissionError{fields: verrs}
			for _, fe := range verrs {
				subErr.Reasons = append(subErr.Reasons, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
			}
			return subErr
		}
		return fmt.Errorf("failed to validate submission: %w", err)
	}

	var reasons []string
	provided := s.Kinds()
	for _, kind := range provided {
		if !m.Accepts(kind) {
			reasons = append(reasons, fmt.Sprintf("%s is not accepted by this mission", kind))
		}
	}

	if len(m.SubmissionTypes) > 0 && len(provided) == 0 {
		accepted := make([]string, 0, len(m.SubmissionTypes))
		for _, k := range m.SubmissionTypes {
			accepted = append(accepted, string(k))
		}
		reasons = append(reasons, "one of "+strings.Join(accepted, ", ")+" is required")
	}

	if len(reasons) > 0 {
		return &SubmissionError{Reasons: reasons}
	}
	return nil
}
