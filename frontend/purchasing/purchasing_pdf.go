package purchasing

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
)

// renderPurchaseOrderPDF produces a printable order sheet with a code128
// barcode of the order reference for matching deliveries at goods-in.
func renderPurchaseOrderPDF(detail PODetail, printedAt time.Time) ([]byte, error) {
	barcodePNG, err := renderCode128PNG(detail.Order.Reference, 1200, 220)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Purchase Order "+detail.Order.Reference, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 28)
	pdf.CellFormat(0, 14, "PURCHASE ORDER", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, detail.Order.Reference, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, "Supplier: "+detail.Order.Supplier, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, "Status: "+detail.Order.Status, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, "Printed: "+printedAt.Format("02/01/2006"), "", 1, "C", false, 0, "")

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := fmt.Sprintf("po-barcode-%d", detail.Order.ID)
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	pageW, _ := pdf.GetPageSize()
	imgW := 120.0
	imgH := 28.0
	pdf.ImageOptions(imageName, (pageW-imgW)/2, 62, imgW, imgH, false, opt, 0, "")
	pdf.SetY(62 + imgH + 4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, detail.Order.Reference, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(40, 8, "Code", "1", 0, "L", false, 0, "")
	pdf.CellFormat(80, 8, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "Unit Cost", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range detail.Lines {
		pdf.CellFormat(40, 8, line.ProductCode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 8, line.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", line.Qty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, line.UnitCost.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, line.LineTotal().StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(140, 8, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, detail.Total.StringFixed(2), "1", 1, "R", false, 0, "")

	if detail.Order.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, "Notes: "+detail.Order.Notes, "", "L", false)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var barcodePNG bytes.Buffer
	if err := png.Encode(&barcodePNG, normalized); err != nil {
		return nil, err
	}
	return barcodePNG.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
