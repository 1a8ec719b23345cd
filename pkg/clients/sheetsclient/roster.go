package sheetsclient

import (
	"fmt"
)

// rosterKeyColumn identifies a volunteer's row across republishes
const rosterKeyColumn = 0

// PublishRoster writes roster rows (header first) to the tab tabName,
// creating the tab if needed. Columns an organizer added to the right of the
// roster columns, such as notes or shirt sizes, are kept with their volunteer.
func (c *Client) PublishRoster(spreadsheetID, tabName string, rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("roster has no header row")
	}

	exists, err := c.HasSheet(spreadsheetID, tabName)
	if err != nil {
		return err
	}

	var existing [][]interface{}
	if exists {
		existing, err = c.GetValues(spreadsheetID, a1Range(tabName, "A1:ZZ"))
		if err != nil {
			return fmt.Errorf("failed to read existing roster: %w", err)
		}
		if err := c.ClearValues(spreadsheetID, a1Range(tabName, "A1:ZZ")); err != nil {
			return err
		}
	} else if _, err := c.CreateSheet(spreadsheetID, tabName); err != nil {
		return fmt.Errorf("failed to create roster tab: %w", err)
	}

	if err := c.UpdateValues(spreadsheetID, a1Range(tabName, "A1"), mergeRoster(existing, rows)); err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}
	return nil
}

// mergeRoster lays rows out as sheet values, carrying over any columns beyond
// the roster's own from existing rows with the same key
func mergeRoster(existing [][]interface{}, rows [][]string) [][]interface{} {
	width := len(rows[0])

	var extraHeader []interface{}
	extras := map[string][]interface{}{}
	if len(existing) > 0 {
		if len(existing[0]) > width {
			extraHeader = existing[0][width:]
		}
		for _, row := range existing[1:] {
			if len(row) <= width || len(row) <= rosterKeyColumn {
				continue
			}
			if key, ok := row[rosterKeyColumn].(string); ok && key != "" {
				extras[key] = row[width:]
			}
		}
	}

	values := make([][]interface{}, 0, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, 0, width+len(extraHeader))
		for _, cell := range row {
			cells = append(cells, cell)
		}

		if i == 0 {
			cells = append(cells, extraHeader...)
		} else if extra, ok := extras[row[rosterKeyColumn]]; ok && len(extraHeader) > 0 {
			cells = append(cells, extra...)
		}
		values = append(values, cells)
	}
	return values
}
