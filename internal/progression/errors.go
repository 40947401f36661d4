package progression

import "errors"

// Error message constants.
const (
	ErrMsgNegativeXP            = "xp must be non-negative"
	ErrMsgInvalidLevelTable     = "invalid level table"
	ErrMsgPathwayNotFound       = "pathway not found"
	ErrMsgMissionOutOfRange     = "mission index out of range"
	ErrMsgMissionNotSubmittable = "mission is not in a submittable state"
	ErrMsgMissionNotStartable   = "mission cannot be started"
	ErrMsgSubmissionRejected    = "submission rejected"
)

// Sentinel errors returned by the engine. Callers match them with errors.Is.
var (
	ErrNegativeXP            = errors.New(ErrMsgNegativeXP)
	ErrInvalidLevelTable     = errors.New(ErrMsgInvalidLevelTable)
	ErrPathwayNotFound       = errors.New(ErrMsgPathwayNotFound)
	ErrMissionOutOfRange     = errors.New(ErrMsgMissionOutOfRange)
	ErrMissionNotSubmittable = errors.New(ErrMsgMissionNotSubmittable)
	ErrMissionNotStartable   = errors.New(ErrMsgMissionNotStartable)
	ErrSubmissionRejected    = errors.New(ErrMsgSubmissionRejected)
)
