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
	"github.com/yated-center/yated-crm-api/internal/tabular"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
)

const participantsTab = "Participants"

func fixedNow() time.Time {
	return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
}

func newParticipantService(repo *tableRepoStub) *ParticipantService {
	return NewParticipantService(repo, testRules(), participantsTab, zap.NewNop(), fixedNow)
}

func TestParticipantServiceView(t *testing.T) {
	repo := newTableRepoStub()
	table := tabular.New(
		models.ColSerialNumber, models.ColFirstName,
		models.ColAttendanceDays, models.ColAttendance,
		models.ColMediaConsent, models.ColMediaConsentYear,
	)
	table.AppendRow([]string{"1", "Dana", "Wednesday, Monday", models.CheckMark, models.CheckMark, "2026"})
	table.AppendRow([]string{"2", "Avi", "", "X", models.CheckMark, "2024"})
	table.AppendRow([]string{"3", "Noa", "", "", "", ""})
	repo.tables[participantsTab] = table

	view, err := newParticipantService(repo).View(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Table.Rows, 3)

	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday"}, view.AllowedDays)
	assert.Equal(t, []string{"Wednesday", "Monday"}, view.Table.Rows[0][models.ColAttendanceDays])
	assert.Equal(t, true, view.Table.Rows[0][models.ColAttendance])
	assert.Equal(t, false, view.Table.Rows[1][models.ColAttendance])
	// only the check mark reads as checked; a blank flag is not active
	assert.Equal(t, false, view.Table.Rows[2][models.ColAttendance])

	assert.Equal(t, true, view.Table.Rows[0][models.ColMediaConsent])
	assert.Equal(t, false, view.Table.Rows[1][models.ColMediaConsent])
	assert.Equal(t, []bool{false, true, true}, view.ConsentAttention)
}

func TestParticipantServiceSaveRejectsFilteredView(t *testing.T) {
	err := newParticipantService(newTableRepoStub()).Save(context.Background(), dto.SaveTableRequest{
		Columns:  []string{models.ColSerialNumber},
		Filtered: true,
	})
	assert.ErrorIs(t, err, appErrors.ErrUnsafeSave)
}

func TestParticipantServiceSaveRunsRules(t *testing.T) {
	repo := newTableRepoStub()
	svc := newParticipantService(repo)

	req := dto.SaveTableRequest{
		Columns: []string{
			models.ColSerialNumber, models.ColFirstName, models.ColBirthDate,
			models.ColAttendanceDays, models.ColAttendance,
			models.ColMediaConsent, models.ColMediaConsentYear,
		},
		Rows: []map[string]any{
			{
				models.ColSerialNumber:    "",
				models.ColFirstName:       "Dana",
				models.ColBirthDate:       "26/08/2005",
				models.ColAttendanceDays:  []any{"Wednesday", "Monday"},
				models.ColAttendance:      true,
				models.ColMediaConsent:    true,
				models.ColMediaConsentYear: "",
			},
		},
	}
	require.NoError(t, svc.Save(context.Background(), req))

	saved := repo.tables[participantsTab]
	require.Equal(t, 1, saved.Len())
	assert.Equal(t, "1", saved.Get(0, models.ColSerialNumber))
	assert.Equal(t, "Monday, Wednesday", saved.Get(0, models.ColAttendanceDays))
	assert.Equal(t, models.CheckMark, saved.Get(0, models.ColAttendance))
	assert.Equal(t, "2026", saved.Get(0, models.ColMediaConsentYear))
	assert.Equal(t, "21", saved.Get(0, models.ColAge))
	assert.Equal(t, "160", saved.Get(0, models.ColRequiredPayment))
}
