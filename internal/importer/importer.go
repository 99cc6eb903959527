// Package importer reads item and container manifests from CSV and Excel
// files. It supports automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition, matching the column
// spellings the legacy manifests use.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CargoStow/internal/model"
)

// ItemImportResult holds the parsed items plus per-row problems.
type ItemImportResult struct {
	Items    []model.Item
	Errors   []string
	Warnings []string
}

// ContainerImportResult holds the parsed containers plus per-row problems.
type ContainerImportResult struct {
	Containers []model.Container
	Errors     []string
	Warnings   []string
}

// itemColumns maps semantic item column roles to their indices.
type itemColumns struct {
	ID         int
	Name       int
	Width      int
	Depth      int
	Height     int
	Mass       int
	Priority   int
	Expiry     int
	UsageLimit int
	Zone       int
}

// containerColumns maps semantic container column roles to their indices.
type containerColumns struct {
	ID     int
	Zone   int
	Width  int
	Depth  int
	Height int
}

// itemHeaderAliases maps canonical item column names to accepted aliases
// (all lowercase). The underscore spellings come from the legacy CSV
// manifests.
var itemHeaderAliases = map[string][]string{
	"id":       {"itemid", "item_id", "item id", "id"},
	"name":     {"name", "item", "label", "description", "desc"},
	"width":    {"width", "width_cm", "w"},
	"depth":    {"depth", "depth_cm", "d"},
	"height":   {"height", "height_cm", "h"},
	"mass":     {"mass", "mass_kg", "weight", "weight_kg"},
	"priority": {"priority", "prio", "p"},
	"expiry":   {"expirydate", "expiry_date", "expiry", "expires"},
	"usage":    {"usagelimit", "usage_limit", "uses", "usage"},
	"zone":     {"preferredzone", "preferred_zone", "zone", "pref zone"},
}

// containerHeaderAliases maps canonical container column names to aliases.
var containerHeaderAliases = map[string][]string{
	"id":     {"containerid", "container_id", "container id", "id"},
	"zone":   {"zone", "module", "area"},
	"width":  {"width", "width_cm", "w"},
	"depth":  {"depth", "depth_cm", "d"},
	"height": {"height", "height_cm", "h"},
}

// DetectCSVDelimiter determines the most likely CSV delimiter by trying
// comma, semicolon, tab and pipe; the delimiter producing the most
// consistent multi-column row shape wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// ImportItems imports an item manifest from a .csv or .xlsx file.
func ImportItems(path string) ItemImportResult {
	rows, warnings, errs := readRows(path)
	if len(errs) > 0 {
		return ItemImportResult{Errors: errs}
	}
	result := parseItemRows(rows)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// ImportContainers imports a container manifest from a .csv or .xlsx file.
func ImportContainers(path string) ContainerImportResult {
	rows, warnings, errs := readRows(path)
	if len(errs) > 0 {
		return ContainerImportResult{Errors: errs}
	}
	result := parseContainerRows(rows)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// ImportItemsFromReader parses items from CSV content with a known
// delimiter, for callers that stream content.
func ImportItemsFromReader(r io.Reader, delimiter rune) ItemImportResult {
	rows, err := readCSV(r, delimiter)
	if err != nil {
		return ItemImportResult{Errors: []string{err.Error()}}
	}
	return parseItemRows(rows)
}

// ImportContainersFromReader parses containers from CSV content with a
// known delimiter.
func ImportContainersFromReader(r io.Reader, delimiter rune) ContainerImportResult {
	rows, err := readCSV(r, delimiter)
	if err != nil {
		return ContainerImportResult{Errors: []string{err.Error()}}
	}
	return parseContainerRows(rows)
}

// readRows loads a manifest file into rows of cells, dispatching on the
// file extension.
func readRows(path string) (rows [][]string, warnings, errs []string) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return readExcel(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, []string{fmt.Sprintf("Cannot open file: %v", err)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, []string{"File is empty"}
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	rows, err = readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		return nil, nil, []string{err.Error()}
	}
	return rows, warnings, nil
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("Cannot read CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("File is empty")
	}
	return records, nil
}

func readExcel(path string) (rows [][]string, warnings, errs []string) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, []string{fmt.Sprintf("Cannot open Excel file: %v", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, []string{"Excel file has no sheets"}
	}
	rows, err = f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, []string{fmt.Sprintf("Cannot read Excel data: %v", err)}
	}
	if len(rows) == 0 {
		return nil, nil, []string{"Sheet is empty"}
	}
	return rows, nil, nil
}

// matchColumn finds the role a header cell belongs to, if any.
func matchColumn(aliases map[string][]string, cell string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(cell))
	for role, names := range aliases {
		for _, alias := range names {
			if normalized == alias {
				return role, true
			}
		}
	}
	return "", false
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseExpiry accepts RFC 3339 timestamps and bare dates.
func parseExpiry(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", s)
}

func parseItemRows(rows [][]string) ItemImportResult {
	result := ItemImportResult{}

	cols := itemColumns{ID: -1, Name: -1, Width: -1, Depth: -1, Height: -1,
		Mass: -1, Priority: -1, Expiry: -1, UsageLimit: -1, Zone: -1}
	hasHeader := false
	for i, cell := range rows[0] {
		role, ok := matchColumn(itemHeaderAliases, cell)
		if !ok {
			continue
		}
		hasHeader = true
		switch role {
		case "id":
			if cols.ID == -1 {
				cols.ID = i
			}
		case "name":
			if cols.Name == -1 {
				cols.Name = i
			}
		case "width":
			if cols.Width == -1 {
				cols.Width = i
			}
		case "depth":
			if cols.Depth == -1 {
				cols.Depth = i
			}
		case "height":
			if cols.Height == -1 {
				cols.Height = i
			}
		case "mass":
			if cols.Mass == -1 {
				cols.Mass = i
			}
		case "priority":
			if cols.Priority == -1 {
				cols.Priority = i
			}
		case "expiry":
			if cols.Expiry == -1 {
				cols.Expiry = i
			}
		case "usage":
			if cols.UsageLimit == -1 {
				cols.UsageLimit = i
			}
		case "zone":
			if cols.Zone == -1 {
				cols.Zone = i
			}
		}
	}

	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
		missing := []string{}
		if cols.Width == -1 {
			missing = append(missing, "Width")
		}
		if cols.Depth == -1 {
			missing = append(missing, "Depth")
		}
		if cols.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else {
		// Positional fallback: id, name, width, depth, height, mass,
		// priority, expiry, usage limit, preferred zone.
		cols = itemColumns{ID: 0, Name: 1, Width: 2, Depth: 3, Height: 4,
			Mass: 5, Priority: 6, Expiry: 7, UsageLimit: 8, Zone: 9}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("Row %d", i+1)

		item, errMsg, warning := parseItemRow(row, cols, rowLabel, len(result.Items))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Items = append(result.Items, item)
	}

	return result
}

func parseItemRow(row []string, cols itemColumns, rowLabel string, itemCount int) (model.Item, string, string) {
	name := getCell(row, cols.Name)
	if name == "" {
		name = fmt.Sprintf("Item %d", itemCount+1)
	}

	width, err := parseDimension(getCell(row, cols.Width))
	if err != nil {
		return model.Item{}, fmt.Sprintf("%s: %v for width", rowLabel, err), ""
	}
	depth, err := parseDimension(getCell(row, cols.Depth))
	if err != nil {
		return model.Item{}, fmt.Sprintf("%s: %v for depth", rowLabel, err), ""
	}
	height, err := parseDimension(getCell(row, cols.Height))
	if err != nil {
		return model.Item{}, fmt.Sprintf("%s: %v for height", rowLabel, err), ""
	}

	item := model.NewItem(name, width, depth, height)
	if id := getCell(row, cols.ID); id != "" {
		item.ID = id
	}
	item.PreferredZone = getCell(row, cols.Zone)

	var warning string
	if massStr := getCell(row, cols.Mass); massStr != "" {
		mass, err := strconv.ParseFloat(massStr, 64)
		if err != nil {
			return model.Item{}, fmt.Sprintf("%s: Invalid mass '%s'", rowLabel, massStr), ""
		}
		item.Mass = mass
	}
	if prioStr := getCell(row, cols.Priority); prioStr != "" {
		prio, err := strconv.Atoi(prioStr)
		if err != nil {
			return model.Item{}, fmt.Sprintf("%s: Invalid priority '%s'", rowLabel, prioStr), ""
		}
		item.Priority = prio
	}
	if expiryStr := getCell(row, cols.Expiry); expiryStr != "" {
		ts, err := parseExpiry(expiryStr)
		if err != nil {
			warning = fmt.Sprintf("%s: Invalid expiry date '%s', ignored", rowLabel, expiryStr)
		} else {
			item.ExpiryDate = &ts
		}
	}
	if usageStr := getCell(row, cols.UsageLimit); usageStr != "" {
		uses, err := strconv.Atoi(usageStr)
		if err != nil {
			return model.Item{}, fmt.Sprintf("%s: Invalid usage limit '%s'", rowLabel, usageStr), ""
		}
		item.UsageLimit = &uses
	}

	return item, "", warning
}

func parseContainerRows(rows [][]string) ContainerImportResult {
	result := ContainerImportResult{}

	cols := containerColumns{ID: -1, Zone: -1, Width: -1, Depth: -1, Height: -1}
	hasHeader := false
	for i, cell := range rows[0] {
		role, ok := matchColumn(containerHeaderAliases, cell)
		if !ok {
			continue
		}
		hasHeader = true
		switch role {
		case "id":
			if cols.ID == -1 {
				cols.ID = i
			}
		case "zone":
			if cols.Zone == -1 {
				cols.Zone = i
			}
		case "width":
			if cols.Width == -1 {
				cols.Width = i
			}
		case "depth":
			if cols.Depth == -1 {
				cols.Depth = i
			}
		case "height":
			if cols.Height == -1 {
				cols.Height = i
			}
		}
	}

	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
		missing := []string{}
		if cols.Width == -1 {
			missing = append(missing, "Width")
		}
		if cols.Depth == -1 {
			missing = append(missing, "Depth")
		}
		if cols.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else {
		// Positional fallback: id, zone, width, depth, height.
		cols = containerColumns{ID: 0, Zone: 1, Width: 2, Depth: 3, Height: 4}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("Row %d", i+1)

		width, err := parseDimension(getCell(row, cols.Width))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v for width", rowLabel, err))
			continue
		}
		depth, err := parseDimension(getCell(row, cols.Depth))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v for depth", rowLabel, err))
			continue
		}
		height, err := parseDimension(getCell(row, cols.Height))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v for height", rowLabel, err))
			continue
		}

		c := model.NewContainer(getCell(row, cols.Zone), width, depth, height)
		if id := getCell(row, cols.ID); id != "" {
			c.ID = id
		}
		result.Containers = append(result.Containers, c)
	}

	return result
}

// parseDimension parses a strictly positive length.
func parseDimension(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("Missing value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("Invalid value '%s'", s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("Value must be positive, got '%s'", s)
	}
	return v, nil
}
