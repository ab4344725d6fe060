package handler

import "github.com/gin-gonic/gin"

// Handlers groups every route handler of the API.
type Handlers struct {
	Participants *ParticipantHandler
	Staff        *StaffHandler
	Attendance   *AttendanceHandler
	Payments     *PaymentHandler
	Tables       *TableHandler
	Metrics      *MetricsHandler
}

// Register wires every endpoint under the API prefix group.
func (h Handlers) Register(api *gin.RouterGroup) {
	api.GET("/participants", h.Participants.View)
	api.PUT("/participants", h.Participants.Save)

	api.GET("/staff", h.Staff.View)
	api.PUT("/staff", h.Staff.Save)
	api.GET("/staff/rollover", h.Staff.RolloverStatus)
	api.POST("/staff/rollover", h.Staff.Rollover)

	api.POST("/attendance/participants/generate", h.Attendance.GenerateParticipantDaily)
	api.POST("/attendance/participants", h.Attendance.SubmitParticipantDaily)
	api.POST("/attendance/staff/generate", h.Attendance.GenerateStaffDaily)
	api.POST("/attendance/staff", h.Attendance.SubmitStaffDaily)
	api.GET("/attendance/participants/summary/monthly", h.Attendance.ParticipantMonthlySummary)
	api.GET("/attendance/participants/summary/yearly", h.Attendance.ParticipantYearlySummary)
	api.GET("/attendance/staff/hours", h.Attendance.StaffHoursSummary)

	api.POST("/payments", h.Payments.Add)
	api.GET("/payments/billing", h.Payments.Billing)
	api.GET("/payments/billing/export", h.Payments.BillingExport)

	api.GET("/tables", h.Tables.List)
	api.GET("/tables/:name", h.Tables.Get)
	api.PUT("/tables/:name", h.Tables.Save)
	api.GET("/tables/:name/export", h.Tables.Export)
}
