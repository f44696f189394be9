package crash

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sha-research/cmf-cli/internal/model"
)

func createWorkbook(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestHasLocalData(t *testing.T) {
	withSheet := createWorkbook(t, map[string][][]string{
		"Rules":   {{"Segment"}},
		SheetName: {{"report_no"}},
	})
	ok, err := HasLocalData(withSheet)
	require.NoError(t, err)
	assert.True(t, ok)

	without := createWorkbook(t, map[string][][]string{
		"Rules": {{"Segment"}},
	})
	ok, err = HasLocalData(without)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFromWorkbook(t *testing.T) {
	path := createWorkbook(t, map[string][][]string{
		SheetName: {
			{"report_no", "year", "log_mile", "report_type", "collision_type_code", "collision_type_desc", "logmile_dir_flag", "acc_time", "acc_date", "crash_dir"},
			{"AB1", "2019", "3.5", "Injury Crash", "3", "SAME DIR REAR END", "N", "142537", "20190426", "N"},
			{"", "", "", "", "", "", "", "", "", ""},
			{"AB2", "2020", "4.1", "Fatal Crash", "12", "ANGLE MEETS LEFT TURN", "S", "08:12:00", "2020-01-15", "S"},
		},
	})

	events, err := FromWorkbook(path)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "AB1", events[0].ReportNo)
	assert.Equal(t, 2019, events[0].Year)
	assert.Equal(t, 3.5, events[0].LogMile)
	assert.Equal(t, 3, events[0].CollisionTypeCode)
	assert.Equal(t, "14:25:37", events[0].AccTime)
	assert.Equal(t, "2019-04-26", events[0].AccDate)
	assert.Equal(t, "N", events[0].CrashDir)

	// Columns the sheet does not carry fill like the portal path.
	assert.Equal(t, model.NoData, events[0].CountyDesc)
	assert.Equal(t, 0, events[0].FixObjCode)

	assert.Equal(t, "AB2", events[1].ReportNo)
	assert.Equal(t, "08:12:00", events[1].AccTime)
	assert.Equal(t, "2020-01-15", events[1].AccDate)
}

func TestFromWorkbook_MissingSheet(t *testing.T) {
	path := createWorkbook(t, map[string][][]string{
		"Rules": {{"Segment"}},
	})

	_, err := FromWorkbook(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFromWorkbook_HeaderOnly(t *testing.T) {
	path := createWorkbook(t, map[string][][]string{
		SheetName: {{"report_no", "year"}},
	})

	events, err := FromWorkbook(path)
	require.NoError(t, err)
	assert.Empty(t, events)
}
