// Package xlsximport reads procedure line items from spreadsheet workbooks.
package xlsximport

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/gyeh/claimline/internal/model"
)

// ErrNoColumns is returned when the header row names none of the line item fields.
var ErrNoColumns = errors.New("header row has no recognized line item columns")

type setter func(li *model.LineItem, v string)

var columns = map[string]setter{
	"service_date":        func(li *model.LineItem, v string) { li.ServiceDate = v },
	"submitted_procedure": func(li *model.LineItem, v string) { li.SubmittedProcedure = v },
	"quadrant": func(li *model.LineItem, v string) {
		if v != "" {
			li.Quadrant = &v
		}
	},
	"plan_group":                 func(li *model.LineItem, v string) { li.PlanGroup = v },
	"subscriber":                 func(li *model.LineItem, v string) { li.Subscriber = v },
	"provider_npi":               func(li *model.LineItem, v string) { li.ProviderNPI = v },
	model.FieldProviderFees:      func(li *model.LineItem, v string) { li.ProviderFees = v },
	model.FieldAllowedFees:       func(li *model.LineItem, v string) { li.AllowedFees = v },
	model.FieldMemberCoinsurance: func(li *model.LineItem, v string) { li.MemberCoinsurance = v },
	model.FieldMemberCopay:       func(li *model.LineItem, v string) { li.MemberCopay = v },
}

// ColumnKey folds a header cell into a field name: "Plan/Group #" becomes
// "plan_group" and "Provider NPI" becomes "provider_npi".
func ColumnKey(header string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(header)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// Sheet holds the line items read from one worksheet.
type Sheet struct {
	Name  string
	Items []model.LineItem
	// Positions[i] is the data row number of Items[i]: the row right under
	// the header is 1, and blank rows still count.
	Positions []int
}

// Position maps the 1-based index of an item within Items to its data row
// number. Out-of-range indexes are returned unchanged.
func (s *Sheet) Position(item int) int {
	if item < 1 || item > len(s.Positions) {
		return item
	}
	return s.Positions[item-1]
}

// ReadFile opens the workbook at path and returns the line items of sheet.
// An empty sheet name selects the first sheet.
func ReadFile(path, sheet string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readSheet(f, sheet)
}

// Read parses a workbook from r. See ReadFile.
func Read(r io.Reader, sheet string) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readSheet(f, sheet)
}

func readSheet(f *excelize.File, sheet string) (*Sheet, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("no sheets found in workbook")
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	out := &Sheet{Name: sheet}
	if len(rows) == 0 {
		return out, nil
	}

	setters := make([]setter, len(rows[0]))
	known := 0
	for i, h := range rows[0] {
		if s, ok := columns[ColumnKey(h)]; ok {
			setters[i] = s
			known++
		}
	}
	if known == 0 {
		return nil, ErrNoColumns
	}

	for n, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		var li model.LineItem
		for i, cell := range row {
			if i < len(setters) && setters[i] != nil {
				setters[i](&li, strings.TrimSpace(cell))
			}
		}
		out.Items = append(out.Items, li)
		out.Positions = append(out.Positions, n+1)
	}
	return out, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Digest returns the hex SHA-256 of the workbook at path, for logging which
// exact file a batch came from.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open workbook for hash: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash workbook: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
