package audit

// Event identifies what a safety audit entry records.
type Event string

const (
	EventUserAuthorized      Event = "user_authorized"
	EventUserRevoked         Event = "user_revoked"
	EventBoundaryViolation   Event = "boundary_violation"
	EventViolationEscalation Event = "violation_escalation"
	EventSensitiveReadDenied Event = "sensitive_read_denied"
	EventDataStored          Event = "data_stored"
	EventPrefsUpdated        Event = "prefs_updated"
	EventInvariantFailure    Event = "invariant_failure"
)

// Entry is one line in the hash-chained JSONL audit log.
// All fields are scalars (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type Entry struct {
	Timestamp string `json:"ts"`
	Event     Event  `json:"event"`
	UserID    string `json:"user_id,omitempty"`
	DataType  string `json:"data_type,omitempty"`
	Detail    string `json:"detail,omitempty"`
	PrevHash  string `json:"prev_hash"`
}
