package dto

// GenerateDailyRequest asks for a fresh attendance sheet for one date.
type GenerateDailyRequest struct {
	Date string `json:"date" binding:"required"`
}

// SubmitDailyRequest persists one day of attendance into the log. When
// Absentees is present (an empty list counts) the server auto-marks every
// expected row before saving: listed subjects as absent, everyone else
// expected as present. Omitting the field keeps the cells as submitted.
type SubmitDailyRequest struct {
	Date      string      `json:"date" binding:"required"`
	Table     EditorTable `json:"table" binding:"required"`
	Absentees []string    `json:"absentees"`
}

// DailySheet is a generated attendance sheet, not yet persisted.
type DailySheet struct {
	Date    string      `json:"date"`
	Weekday string      `json:"weekday"`
	Table   EditorTable `json:"table"`
}
