package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yated-center/yated-crm-api/internal/dto"
	"github.com/yated-center/yated-crm-api/internal/models"
	"github.com/yated-center/yated-crm-api/internal/tabular"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
)

func TestGuessIDColumn(t *testing.T) {
	col, ok := GuessIDColumn([]string{"Name", models.ColSerialNumber, "Notes"})
	require.True(t, ok)
	assert.Equal(t, models.ColSerialNumber, col)

	col, ok = GuessIDColumn([]string{"Name", "ת\"ז"})
	require.True(t, ok)
	assert.Equal(t, "ת\"ז", col)

	col, ok = GuessIDColumn([]string{"Name", "Staff Serial"})
	require.True(t, ok)
	assert.Equal(t, "Staff Serial", col)

	_, ok = GuessIDColumn([]string{"Name", "Notes"})
	assert.False(t, ok)
}

func TestTableServiceSave(t *testing.T) {
	repo := newTableRepoStub()
	svc := NewTableService(repo, zap.NewNop())

	err := svc.Save(context.Background(), "Alumni", dto.SaveTableRequest{
		Columns:  []string{models.ColSerialNumber},
		Filtered: true,
	})
	assert.ErrorIs(t, err, appErrors.ErrUnsafeSave)

	err = svc.Save(context.Background(), "Alumni", dto.SaveTableRequest{
		Columns: []string{models.ColSerialNumber, "Name"},
		Rows: []map[string]any{
			{models.ColSerialNumber: "Pa003", "Name": "Dana"},
			{models.ColSerialNumber: "", "Name": "Avi"},
		},
	})
	require.NoError(t, err)

	saved := repo.tables["Alumni"]
	assert.Equal(t, "3", saved.Get(0, models.ColSerialNumber))
	assert.Equal(t, "4", saved.Get(1, models.ColSerialNumber))
}

func TestTableServiceExport(t *testing.T) {
	repo := newTableRepoStub()
	table := tabular.New("Name", "City")
	table.AppendRow([]string{"Dana", "Ofakim"})
	repo.tables["Alumni"] = table

	svc := NewTableService(repo, zap.NewNop())

	payload, contentType, err := svc.Export(context.Background(), "Alumni", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(payload), "Dana,Ofakim")

	payload, contentType, err = svc.Export(context.Background(), "Alumni", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.NotEmpty(t, payload)
}
