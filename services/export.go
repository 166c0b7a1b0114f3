package services

import (
	"io"

	"github.com/Kariqs/mebel-api/models"
	"github.com/tealeg/xlsx"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var exportHeaders = []string{
	"ID", "CategoryID", "SubcategoryID", "Name", "Description",
	"Price", "Stock", "Image", "ARModelPath", "CreatedAt", "UpdatedAt",
}

func writeProductsXLSX(w io.Writer, products []models.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.CategoryID)
		row.AddCell().SetValue(p.SubcategoryID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.StockQuantity)
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(p.ARModelPath)
		row.AddCell().SetValue(p.CreatedAt.Format(exportTimeLayout))
		row.AddCell().SetValue(p.UpdatedAt.Format(exportTimeLayout))
	}

	return file.Write(w)
}
