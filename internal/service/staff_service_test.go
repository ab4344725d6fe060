package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yated-center/yated-crm-api/internal/dto"
	"github.com/yated-center/yated-crm-api/internal/models"
	"github.com/yated-center/yated-crm-api/internal/repository"
	"github.com/yated-center/yated-crm-api/internal/tabular"
	"github.com/yated-center/yated-crm-api/pkg/config"
)

var testTables = config.TablesConfig{
	Participants:          "Participants",
	Staff:                 "Staff",
	ParticipantAttendance: "Participant Attendance",
	StaffAttendance:       "Staff Attendance",
	Payments:              "Payments",
	StaffBackup:           "Staff Backup",
	StaffBackupSummary:    "Staff Backup Summary",
	Meta:                  "__meta",
}

func newStaffService(repo *tableRepoStub, meta *metaRepoStub) *StaffService {
	return NewStaffService(repo, meta, testStaffRules(), testTables, []string{"Ofakim", "Beer Sheva"}, zap.NewNop(), fixedNow)
}

func TestStaffServiceViewClearanceMask(t *testing.T) {
	repo := newTableRepoStub()
	table := tabular.New(models.ColSerialNumber, models.ColGender, models.ColPoliceClearance)
	table.AppendRow([]string{"1", "Male", ""})
	table.AppendRow([]string{"2", "Female", ""})
	repo.tables[testTables.Staff] = table

	view, err := newStaffService(repo, newMetaRepoStub()).View(context.Background())
	require.NoError(t, err)

	assert.Equal(t, false, view.Table.Rows[0][models.ColPoliceClearance])
	assert.Equal(t, []bool{true, false}, view.ClearanceAttention)
	assert.Equal(t, []string{"Ofakim", "Beer Sheva"}, view.TransportationOptions)
}

func TestStaffServiceSaveRecomputesHours(t *testing.T) {
	repo := newTableRepoStub()
	log := tabular.New(models.ColSerialNumber, models.ColHours)
	log.AppendRow([]string{"1", "2.5"})
	log.AppendRow([]string{"1", "2.5"})
	repo.tables[testTables.StaffAttendance] = log

	req := dto.SaveTableRequest{
		Columns: []string{
			models.ColSerialNumber, models.ColScholarship, models.ColTransportation,
			models.ColWeeklyHours, models.ColAnnualHours,
		},
		Rows: []map[string]any{
			{
				models.ColSerialNumber:  "1",
				models.ColScholarship:   "Perach",
				models.ColTransportation: "Ofakim",
				models.ColWeeklyHours:   "",
				models.ColAnnualHours:   "100",
			},
		},
	}
	require.NoError(t, newStaffService(repo, newMetaRepoStub()).Save(context.Background(), req))

	saved := repo.tables[testTables.Staff]
	require.Equal(t, 1, saved.Len())
	assert.Equal(t, "4", saved.Get(0, models.ColWeeklyHours))
	assert.Equal(t, "Ofakim", saved.Get(0, models.ColTransportation))
	assert.Equal(t, "5.0", saved.Get(0, models.ColHourlyTotal))
	assert.Equal(t, "95.0", saved.Get(0, models.ColRemainingHours))
}

func TestStaffServiceRollover(t *testing.T) {
	repo := newTableRepoStub()
	meta := newMetaRepoStub()

	staff := tabular.New(
		models.ColSerialNumber, models.ColFirstName, models.ColScholarship,
		models.ColWeeklyHours, models.ColAnnualHours, models.ColRemainingHours,
		models.ColPoliceClearance, models.ColHourlyTotal,
	)
	staff.AppendRow([]string{"1", "Noa", "Perach", "4", "100", "95.0", models.CheckMark, "5.0"})
	staff.AppendRow([]string{"2", "Gil", "Volunteer", "2", "50", "50.0", "", "0.0"})
	repo.tables[testTables.Staff] = staff

	svc := newStaffService(repo, meta)

	// fixedNow is 2026-08-26, before the September 1 cutoff
	status, err := svc.RolloverStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Due)
	assert.False(t, status.EverPerformed)

	_, err = svc.ExecuteRollover(context.Background())
	assert.Error(t, err)

	// move past the cutoff
	svc.now = func() time.Time { return time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC) }

	result, err := svc.ExecuteRollover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2026, result.Year)
	assert.Equal(t, 2, result.ArchivedRows)

	backup := repo.tables[testTables.StaffBackup]
	require.Equal(t, 2, backup.Len())
	assert.Equal(t, "2026", backup.Get(0, models.ColYear))
	assert.False(t, backup.HasColumn(models.ColWeeklyHours))

	summary := repo.tables[testTables.StaffBackupSummary]
	assert.Equal(t, 2, summary.Len())

	cleared := repo.tables[testTables.Staff]
	assert.Equal(t, 0, cleared.Len())
	assert.Equal(t, staff.Columns, cleared.Columns)

	assert.Equal(t, "2026", meta.values[repository.KeyLastRolloverYear])

	// a second rollover in the same year is refused
	_, err = svc.ExecuteRollover(context.Background())
	assert.Error(t, err)
}
