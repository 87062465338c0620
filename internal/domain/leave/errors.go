package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrOverlappingRequest           = errors.New("leave request overlaps an existing request")
	ErrDecisionForbidden            = errors.New("you cannot decide this leave request")
)
