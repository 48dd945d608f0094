package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/tribe"
)

func TestExcelExportService_Export(t *testing.T) {
	svc := NewExcelExportService("Tribes", []Column[tribe.Tribe]{
		{Header: "ID", Value: func(t tribe.Tribe) string { return t.ID.String() }},
		{Header: "Short code", Value: func(t tribe.Tribe) string { return t.ShortCode }},
		{Header: "Name", Value: func(t tribe.Tribe) string { return t.Name }},
	})

	var buf bytes.Buffer
	require.NoError(t, svc.Export(&buf, seedTribes(2)))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, "Tribes", f.GetSheetName(0))
	rows, err := f.GetRows("Tribes")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ID", "Short code", "Name"},
		{"1", "T01", "Tribe 1"},
		{"2", "T02", "Tribe 2"},
	}, rows)
}

func TestExcelExportService_EmptyCollectionWritesHeaderOnly(t *testing.T) {
	svc := NewExcelExportService("", []Column[tribe.Tribe]{
		{Header: "Name", Value: func(t tribe.Tribe) string { return t.Name }},
	})

	var buf bytes.Buffer
	require.NoError(t, svc.Export(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name"}}, rows)
}
