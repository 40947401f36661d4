package progression

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iseven/vnu-connect-x/internal/models"
)

func TestValidateSubmission(t *testing.T) {
	all := &models.Mission{SubmissionTypes: []models.SubmissionKind{
		models.SubmissionReflection, models.SubmissionFile, models.SubmissionLink,
	}}
	fileOnly := &models.Mission{SubmissionTypes: []models.SubmissionKind{models.SubmissionFile}}
	none := &models.Mission{}

	tests := []struct {
		name    string
		mission *models.Mission
		sub     Submission
		wantErr bool
	}{
		{name: "reflection", mission: all, sub: Submission{Content: "notes"}},
		{name: "all three", mission: all, sub: Submission{Content: "n", FileName: "cv.pdf", Link: "https://drive.example.com/x"}},
		{name: "file only", mission: fileOnly, sub: Submission{FileName: "report.docx"}},
		{name: "nothing required", mission: none, sub: Submission{}},
		{name: "empty when required", mission: all, sub: Submission{}, wantErr: true},
		{name: "whitespace only", mission: fileOnly, sub: Submission{FileName: "  "}, wantErr: true},
		{name: "content not accepted", mission: fileOnly, sub: Submission{FileName: "a.pdf", Content: "x"}, wantErr: true},
		{name: "evidence on mission without kinds", mission: none, sub: Submission{Content: "x"}, wantErr: true},
		{name: "path in file name", mission: fileOnly, sub: Submission{FileName: "../etc/passwd"}, wantErr: true},
		{name: "windows path", mission: fileOnly, sub: Submission{FileName: `C:\cv.pdf`}, wantErr: true},
		{name: "dot dot", mission: fileOnly, sub: Submission{FileName: ".."}, wantErr: true},
		{name: "bad url", mission: all, sub: Submission{Link: "not a url"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubmission(tt.mission, tt.sub)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSubmissionRejected))
		})
	}
}

func TestSubmissionError_Translate(t *testing.T) {
	m := &models.Mission{SubmissionTypes: []models.SubmissionKind{models.SubmissionLink}}

	err := ValidateSubmission(m, Submission{Link: "nope"})
	var subErr *SubmissionError
	require.True(t, errors.As(err, &subErr))

	en := subErr.Translate("en")
	require.Len(t, en, 1)
	assert.Contains(t, en[0], "link")

	vi := subErr.Translate("vi")
	require.Len(t, vi, 1)
	assert.NotEqual(t, en[0], vi[0])

	// Unknown languages fall back to English.
	assert.Equal(t, en, subErr.Translate("fr"))

	err = ValidateSubmission(m, Submission{})
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, subErr.Reasons, subErr.Translate("vi"))
	assert.Contains(t, subErr.Error(), "one of link is required")
}

func TestSubmission_Kinds(t *testing.T) {
	assert.Empty(t, Submission{}.Kinds())
	assert.Equal(t,
		[]models.SubmissionKind{models.SubmissionReflection, models.SubmissionLink},
		Submission{Content: "a", Link: "https://x.y"}.Kinds())
}
