package httpapi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerateDeviceExport_HeadersAndRows(t *testing.T) {
	data, err := GenerateDeviceExport([]map[string]any{
		{
			"device_name":   "Lobby Light",
			"device_type":   "luminaire",
			"serial_number": "SN-1001",
			"status":        "online",
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Devices")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, DeviceExportHeader, rows[0])
	assert.Equal(t, "Lobby Light", rows[1][0])
	assert.Equal(t, "SN-1001", rows[1][2])
}

func TestParseDeviceImport_RoundTrip(t *testing.T) {
	// 用导入模板列序造一份上传文件
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for col, h := range DeviceImportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	rows := [][]string{
		{"Aisle Light 1", "luminaire", "SN-2001", "1.4.2"},
		{"Back Door Motion", "motion_sensor", "", ""},
		{"", "", "", ""}, // 空行跳过
	}
	for i, row := range rows {
		for col, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	devices, err := ParseDeviceImport(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, "Aisle Light 1", devices[0].DeviceName)
	assert.Equal(t, "luminaire", devices[0].DeviceType)
	assert.Equal(t, "SN-2001", devices[0].SerialNumber.String)
	assert.Equal(t, "1.4.2", devices[0].FirmwareVersion.String)

	assert.Equal(t, "Back Door Motion", devices[1].DeviceName)
	assert.False(t, devices[1].SerialNumber.Valid)
}

func TestParseDeviceImport_Invalid(t *testing.T) {
	_, err := ParseDeviceImport([]byte("not an excel file"))
	assert.Error(t, err)
}
