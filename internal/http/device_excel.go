package httpapi

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"luxgrid-data/internal/domain"
)

// DeviceImportHeader 导入模板表头（只包含创建设备需要的字段）
var DeviceImportHeader = []string{
	"Device Name",
	"Device Type",
	"Serial Number",
	"Firmware Version",
}

// DeviceExportHeader 导出表头（包含所有字段）
var DeviceExportHeader = []string{
	"Device Name",
	"Device Type",
	"Serial Number",
	"Location ID",
	"Zone ID",
	"Status",
	"Firmware Version",
}

// GenerateDeviceImportTemplate 生成导入模板 Excel 文件
func GenerateDeviceImportTemplate() ([]byte, error) {
	return generateDeviceExcel(DeviceImportHeader, []map[string]any{})
}

// GenerateDeviceExport 生成设备清单导出 Excel 文件
// data: 设备数据列表，如果为空则只生成表头
func GenerateDeviceExport(data []map[string]any) ([]byte, error) {
	return generateDeviceExcel(DeviceExportHeader, data)
}

func generateDeviceExcel(headers []string, data []map[string]any) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	sheetName := "Devices"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i := 0; i < len(headers); i++ {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, 24); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx, item := range data {
		row := rowIdx + 2 // 从第2行开始（第1行是表头）
		for colIdx, header := range headers {
			var value string
			switch header {
			case "Device Name":
				value = getStringValue(item, "device_name")
			case "Device Type":
				value = getStringValue(item, "device_type")
			case "Serial Number":
				value = getStringValue(item, "serial_number")
			case "Location ID":
				value = getStringValue(item, "location_id")
			case "Zone ID":
				value = getStringValue(item, "zone_id")
			case "Status":
				value = getStringValue(item, "status")
			case "Firmware Version":
				value = getStringValue(item, "firmware_version")
			}
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	// 冻结表头
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseDeviceImport 解析上传的导入 Excel，按导入模板列序读取
// 第 1 行是表头，空行跳过；字段校验留给 service 层逐条做
func ParseDeviceImport(fileBytes []byte) ([]*domain.Device, error) {
	f, err := excelize.OpenReader(bytes.NewReader(fileBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file has no data rows")
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	devices := []*domain.Device{}
	for _, row := range rows[1:] {
		name := cell(row, 0)
		dtype := cell(row, 1)
		if name == "" && dtype == "" {
			continue
		}
		d := &domain.Device{
			DeviceName:      name,
			DeviceType:      dtype,
			SerialNumber:    toNullString(cell(row, 2)),
			FirmwareVersion: toNullString(cell(row, 3)),
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// getStringValue 从 map 中获取字符串值
func getStringValue(item map[string]any, key string) string {
	if val, ok := item[key].(string); ok {
		return val
	}
	return ""
}
