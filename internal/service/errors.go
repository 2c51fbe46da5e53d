package service

import "geo-attendance/internal/apperr"

// Check-in and checkout outcomes. Handlers and tests compare against
// these with errors.Is.
var (
	ErrLocationRequired  = apperr.Validation("checkin.location_required")
	ErrPhotoRequired     = apperr.Validation("checkin.photo_required")
	ErrPhotoTooLarge     = apperr.Validation("checkin.photo_too_large")
	ErrInvalidLocation   = apperr.Validation("checkin.invalid_location")
	ErrOutOfRange        = apperr.New(apperr.KindOutOfRange, "checkin.out_of_range")
	ErrInvalidDecision   = apperr.Validation("checkin.invalid_decision")
	ErrCheckinNotFound   = apperr.NotFound("checkin.not_found")
	ErrNoCheckin         = apperr.NotFound("checkin.none_for_employee")
	ErrAlreadyReviewed   = apperr.Conflict("checkin.already_reviewed")
	ErrInvalidDate       = apperr.Validation("checkin.invalid_date")
	ErrEmployeeMismatch  = apperr.Forbidden("checkout.employee_mismatch")
	ErrNotApproved       = apperr.Conflict("checkout.not_approved")
	ErrAlreadyCheckedOut = apperr.Conflict("checkout.already_checked_out")
	ErrInvalidRange      = apperr.Validation("checkout.invalid_range")
	ErrCheckoutFields    = apperr.Validation("checkout.missing_fields")
)

var (
	ErrMissingCredentials = apperr.Validation("auth.missing_credentials")
	ErrInvalidCredentials = apperr.Unauthorized("auth.invalid_credentials")
	ErrInvalidIdentity    = apperr.Unauthorized("auth.invalid_token")
)

var (
	ErrWorkerFieldsRequired = apperr.Validation("worker.missing_fields")
	ErrInvalidRole          = apperr.Validation("worker.invalid_role")
	ErrInvalidStatus        = apperr.Validation("worker.invalid_status")
	ErrInvalidDepartmentID  = apperr.Validation("worker.invalid_department")
	ErrWorkerExists         = apperr.Conflict("worker.exists")
	ErrWorkerNotFound       = apperr.NotFound("worker.not_found")

	ErrDepartmentNameRequired = apperr.Validation("department.name_required")
	ErrDepartmentExists       = apperr.Conflict("department.exists")
	ErrDepartmentNotFound     = apperr.NotFound("department.not_found")

	ErrTeamFieldsRequired = apperr.Validation("team.missing_fields")
	ErrTeamExists         = apperr.Conflict("team.exists")
	ErrTeamNotFound       = apperr.NotFound("team.not_found")

	ErrZoneFieldsRequired = apperr.Validation("zone.missing_fields")
	ErrZoneTeamNotFound   = apperr.NotFound("zone.team_not_found")
)
