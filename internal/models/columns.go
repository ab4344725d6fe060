package models

// Column names of the spreadsheet tables. The sheet is the source of truth
// for the schema; normalizers and calculators that find their column missing
// leave the table untouched.

// Shared identity and attendance-log columns.
const (
	ColSerialNumber    = "Serial Number"
	ColFirstName       = "First Name"
	ColLastName        = "Last Name"
	ColParticipantName = "Participant Name"
	ColDate            = "Date"
	ColExpected        = "Expected"
	ColAttended        = "Attended"
	ColHours           = "Hours"
)

// Participants table.
const (
	ColBirthDate        = "Date of Birth"
	ColAge              = "Age"
	ColMorningFramework = "Morning Framework"
	ColMediaConsent     = "Media Consent"
	ColMediaConsentYear = "Media Consent Year"
	ColAttendance       = "Attendance"
	ColAttendanceDays   = "Attendance Days"
	ColRequiredPayment  = "Required Payment"
)

// Staff table.
const (
	ColGender             = "Gender"
	ColScholarship        = "Scholarship"
	ColCurrentDay         = "Current Day"
	ColWeeklyHours        = "Weekly Hours"
	ColAnnualHours        = "Annual Hours"
	ColHourlyTotal        = "Hourly Total"
	ColRemainingHours     = "Remaining Hours"
	ColPoliceClearance    = "Police Clearance"
	ColTransportation     = "Transportation"
	ColTransportationDone = "Transportation Done"
	ColTransportationType = "Transportation Type"
	ColHoursDebt          = "Hours Debt"
	ColYear               = "Year"
)

// Payments table.
const (
	ColPaymentNumber     = "Payment Number"
	ColParticipantSerial = "Participant Serial"
	ColAmount            = "Amount"
	ColPaymentDate       = "Payment Date"
	ColMonth             = "Month"
)

// Derived summary columns.
const (
	ColAttendances      = "Attendances"
	ColCount            = "Count"
	ColTotalInstructors = "Total Instructors"
	ColTotalHours       = "Total Hours"
	ColTotalPaid        = "Total Paid"
	ColBalance          = "Balance"
)

// Sheet-persisted boolean vocabulary. Checkbox-style fields persist CheckMark
// or empty; the participant attendance flag persists CheckMark or AbsentMark.
const (
	CheckMark  = "✓"
	AbsentMark = "X"
)

// Attended markers written by the daily attendance flow.
const (
	AttendedYes = "Yes"
	AttendedNo  = "No"
)
