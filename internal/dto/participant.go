package dto

// ParticipantsView is the participants table prepared for editing, with the
// server-computed highlight masks alongside.
type ParticipantsView struct {
	Table EditorTable `json:"table"`

	// ConsentAttention marks rows whose media consent is missing or stale.
	ConsentAttention []bool `json:"consent_attention"`
	// MorningFrameworkAlerts marks rows approaching the 21st birthday while
	// enrolled in a flagged morning framework.
	MorningFrameworkAlerts []bool `json:"morning_framework_alerts"`

	// AllowedDays is the configured day set, for the day-picker options.
	AllowedDays []string `json:"allowed_days"`
}

// StaffView is the staff table prepared for editing.
type StaffView struct {
	Table EditorTable `json:"table"`

	// ClearanceAttention marks male staff without a police clearance on file.
	ClearanceAttention []bool `json:"clearance_attention"`

	// TransportationOptions are the valid values of the transportation field.
	TransportationOptions []string `json:"transportation_options"`
}

// RolloverStatus reports whether the yearly staff archive is due.
type RolloverStatus struct {
	Due           bool `json:"due"`
	LastYear      int  `json:"last_year,omitempty"`
	EverPerformed bool `json:"ever_performed"`
}

// RolloverResult describes a completed rollover.
type RolloverResult struct {
	Year          int `json:"year"`
	ArchivedRows  int `json:"archived_rows"`
	SummaryGroups int `json:"summary_groups"`
}
