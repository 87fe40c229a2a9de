package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrPermissionDenied  ErrCode = "PERMISSION_DENIED"
	ErrLearnerAccessOnly ErrCode = "LEARNER_ACCESS_ONLY"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"
	ErrActionForbidden ErrCode = "ACTION_FORBIDDEN"

	// ─── Exams ─────────────────────────────────────────────────────────
	ErrSubjectNotFound  ErrCode = "SUBJECT_NOT_FOUND"
	ErrNoQuestions      ErrCode = "NO_QUESTIONS"
	ErrSessionNotFound  ErrCode = "SESSION_NOT_FOUND"
	ErrSessionSubmitted ErrCode = "SESSION_ALREADY_SUBMITTED"
	ErrQuestionNotFound ErrCode = "QUESTION_NOT_FOUND"

	// ─── Study plans ───────────────────────────────────────────────────
	ErrPlanNotFound   ErrCode = "PLAN_NOT_FOUND"
	ErrTaskNotFound   ErrCode = "TASK_NOT_FOUND"
	ErrDeadlinePassed ErrCode = "DEADLINE_PASSED"
	ErrExportDisabled ErrCode = "EXPORT_DISABLED"

	// ─── Gamification ──────────────────────────────────────────────────
	ErrUnknownActivity ErrCode = "UNKNOWN_ACTIVITY"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Incorrect email or password."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You are not allowed to access this resource."
	case ErrPermissionDenied:
		return "Permission denied."
	case ErrLearnerAccessOnly:
		return "This resource is only available to learners."
	case ErrAdminAccessOnly:
		return "This resource is only available to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrActionForbidden:
		return "This action is not allowed."

	// ─── Exams ─────────────────────────────────────────────────────────
	case ErrSubjectNotFound:
		return "No questions are available for this subject."
	case ErrNoQuestions:
		return "No questions match the requested filters."
	case ErrSessionNotFound:
		return "The mock exam session was not found or has expired."
	case ErrSessionSubmitted:
		return "This mock exam has already been submitted."
	case ErrQuestionNotFound:
		return "Question not found."

	// ─── Study plans ───────────────────────────────────────────────────
	case ErrPlanNotFound:
		return "Study plan not found."
	case ErrTaskNotFound:
		return "Study task not found in this plan."
	case ErrDeadlinePassed:
		return "The exam deadline must be in the future."
	case ErrExportDisabled:
		return "Plan export is not configured on this server."

	// ─── Gamification ──────────────────────────────────────────────────
	case ErrUnknownActivity:
		return "Unknown activity."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
