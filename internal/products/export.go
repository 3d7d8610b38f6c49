package products

import (
	"io"
	"strings"

	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"ID", "Name", "Price", "Description", "Colors", "Sizes",
	"Stock", "Images", "Active", "CreatedAt",
}

// ExportXLSX writes products as a single-sheet workbook.
func ExportXLSX(w io.Writer, products []models.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ProductID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetFloat(p.Price)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(strings.Join(p.Colors, ", "))
		row.AddCell().SetString(strings.Join(p.Sizes, ", "))
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetString(strings.Join(p.Images, "\n"))
		row.AddCell().SetBool(p.Active)
		if p.CreatedAt.IsZero() {
			row.AddCell().SetString("")
		} else {
			row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	}

	return file.Write(w)
}
