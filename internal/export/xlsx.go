package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tranaapp/trana/internal/badges"
	"github.com/tranaapp/trana/internal/constants"
	"github.com/tranaapp/trana/internal/models"
	"github.com/tranaapp/trana/internal/state"
	"github.com/tranaapp/trana/internal/utils"
)

const (
	SheetSummary   = "Summary"
	SheetInventory = "Inventory"
	SheetUsed      = "Used"
	SheetWaste     = "Waste"
	SheetBadges    = "Badges"
)

type sheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

// Workbook builds a spreadsheet with one sheet per collection.
func Workbook(st *state.Store, stats models.Statistics) (*excelize.File, error) {
	items := state.Load(st, constants.KeyFoodItems, []models.FoodItem{})
	used := state.Load(st, constants.KeyUsedItems, []models.UsedItem{})
	waste := state.Load(st, constants.KeyWasteItems, []models.WasteItem{})
	earned := state.Load(st, constants.KeyBadges, []models.EarnedBadge{})

	sheets := []sheet{
		summarySheet(stats),
		{name: SheetInventory, header: foodHeader(), rows: foodRows(items)},
		usedSheet(used),
		wasteSheet(waste),
		badgeSheet(earned),
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for i, s := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(s.name); err != nil {
				f.Close()
				return nil, err
			}
		}
		if err := writeSheet(f, s); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write sheet %s: %w", s.name, err)
		}
	}
	return f, nil
}

// WriteXLSX writes the workbook to w.
func WriteXLSX(w io.Writer, st *state.Store, stats models.Statistics) error {
	f, err := Workbook(st, stats)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, s sheet) error {
	sw, err := f.NewStreamWriter(s.name)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", s.header); err != nil {
		return err
	}
	for i, row := range s.rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func summarySheet(stats models.Statistics) sheet {
	return sheet{
		name:   SheetSummary,
		header: []interface{}{"Metric", "Value"},
		rows: [][]interface{}{
			{"Items logged", stats.ItemsLogged},
			{"Items used", stats.ItemsUsed},
			{"Active items", stats.ActiveItems},
			{"Carbon calculations", stats.CarbonCalculations},
			{"CO2 saved (kg)", stats.CarbonSavedKg},
			{"Suggestions generated", stats.SuggestionsGenerated},
			{"Suggestions saved", stats.SuggestionsSaved},
			{"Topics learned", stats.TopicsLearned},
			{"Badges earned", fmt.Sprintf("%d/%d", stats.BadgesEarned, stats.BadgesTotal)},
		},
	}
}

func foodHeader() []interface{} {
	return []interface{}{"ID", "Name", "Category", "Quantity", "Unit", "Storage", "Added", "Expires", "Notes"}
}

func foodRow(it models.FoodItem) []interface{} {
	return []interface{}{
		it.ID, it.Name, utils.FormatLabel(it.Category), it.Quantity, it.Unit,
		utils.FormatLabel(it.StorageLocation), it.DateAdded, it.ExpiryDate, it.Notes,
	}
}

func foodRows(items []models.FoodItem) [][]interface{} {
	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		rows = append(rows, foodRow(it))
	}
	return rows
}

func usedSheet(used []models.UsedItem) sheet {
	s := sheet{name: SheetUsed, header: append(foodHeader(), "Used")}
	for _, u := range used {
		s.rows = append(s.rows, append(foodRow(u.FoodItem), u.UsedTimestamp.Format("2006-01-02 15:04")))
	}
	return s
}

func wasteSheet(waste []models.WasteItem) sheet {
	s := sheet{name: SheetWaste, header: []interface{}{"Food type", "Quantity (kg)", "CO2 (kg)"}}
	for _, w := range waste {
		s.rows = append(s.rows, []interface{}{utils.FormatLabel(w.FoodType), w.Quantity, w.Emissions})
	}
	return s
}

func badgeSheet(earned []models.EarnedBadge) sheet {
	s := sheet{name: SheetBadges, header: []interface{}{"Badge", "Category", "Status", "Awarded"}}
	for _, st := range badges.Statuses(earned, "") {
		status, awarded := "locked", ""
		if st.Earned {
			status = "earned"
			awarded = st.Record.DateAwarded.Format("2006-01-02")
		}
		s.rows = append(s.rows, []interface{}{st.Title, strings.ToUpper(string(st.Category)), status, awarded})
	}
	return s
}
