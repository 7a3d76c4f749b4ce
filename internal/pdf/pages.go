package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/go-pdf/fpdf"
)

// A4 page size in millimetres.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

var ErrEmptyImage = errors.New("empty capture")

// Paginate slices a tall capture into A4-ratio pages from top to bottom. Every page has the
// width of img; the last page keeps only the remaining rows.
func Paginate(img image.Image) ([]image.Image, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}
	pageHeight := int(float64(b.Dx()) * PageHeightMM / PageWidthMM)
	if pageHeight <= 0 {
		pageHeight = 1
	}

	var pages []image.Image
	for top := b.Min.Y; top < b.Max.Y; top += pageHeight {
		bottom := top + pageHeight
		if bottom > b.Max.Y {
			bottom = b.Max.Y
		}
		page := image.NewRGBA(image.Rect(0, 0, b.Dx(), bottom-top))
		draw.Draw(page, page.Bounds(), img, image.Pt(b.Min.X, top), draw.Src)
		pages = append(pages, page)
	}
	return pages, nil
}

// Assemble writes one A4 portrait page per image. Each image fills the page width and keeps
// its aspect ratio.
func Assemble(w io.Writer, pages []image.Image) error {
	if len(pages) == 0 {
		return ErrEmptyImage
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)

	for i, page := range pages {
		b := page.Bounds()
		if b.Dx() == 0 {
			return fmt.Errorf("page %d: %w", i+1, ErrEmptyImage)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, page); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}

		name := fmt.Sprintf("page_%d", i+1)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		doc.AddPage()
		doc.RegisterImageOptionsReader(name, opts, &buf)
		height := PageWidthMM * float64(b.Dy()) / float64(b.Dx())
		doc.ImageOptions(name, 0, 0, PageWidthMM, height, false, opts, 0, "")
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// Render captures htmlContent, slices it into pages and returns the PDF bytes.
func (c *Capturer) Render(ctx context.Context, htmlContent string) ([]byte, error) {
	shot, err := c.Screenshot(ctx, htmlContent)
	if err != nil {
		return nil, err
	}
	return FromPNG(shot)
}

// FromPNG paginates a PNG capture into a PDF.
func FromPNG(data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode capture: %w", err)
	}
	pages, err := Paginate(img)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := Assemble(&out, pages); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
