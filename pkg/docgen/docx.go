// Package docgen writes the Word documents the portal hands to directors.
package docgen

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Align paragraph alignment, values of w:jc.
type Align string

const (
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignJustify Align = "both"
)

// Run formatting of one paragraph.
type Run struct {
	Bold   bool
	Size   int // half-points, 22 = 11pt
	Align  Align
	After  int // spacing after, twips
	Before int
	Bullet bool
}

// Document accumulates body XML.
type Document struct {
	body strings.Builder
}

func esc(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// Paragraph appends a single-run paragraph.
func (d *Document) Paragraph(text string, r Run) {
	if r.Size == 0 {
		r.Size = 22
	}
	if r.Align == "" {
		r.Align = AlignJustify
	}
	d.body.WriteString("<w:p><w:pPr>")
	if r.Bullet {
		d.body.WriteString(`<w:ind w:left="720" w:hanging="360"/>`)
		text = "• " + text
	}
	fmt.Fprintf(&d.body, `<w:spacing w:before="%d" w:after="%d"/><w:jc w:val="%s"/></w:pPr>`, r.Before, r.After, r.Align)
	if text != "" {
		d.body.WriteString(`<w:r><w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial" w:cs="Arial"/>`)
		if r.Bold {
			d.body.WriteString("<w:b/>")
		}
		fmt.Fprintf(&d.body, `<w:sz w:val="%d"/></w:rPr><w:t xml:space="preserve">%s</w:t></w:r>`, r.Size, esc(text))
	}
	d.body.WriteString("</w:p>")
}

// Spacer appends an empty paragraph.
func (d *Document) Spacer(after int) {
	d.Paragraph("", Run{After: after})
}

// PageBreak starts a new page.
func (d *Document) PageBreak() {
	d.body.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
}

// Table appends a bordered full-width table. widths are percentages per
// column; the first row is rendered bold when header is true.
func (d *Document) Table(widths []int, rows [][]string, header bool) {
	d.body.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(&d.body, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="000000"/>`, side)
	}
	d.body.WriteString(`</w:tblBorders></w:tblPr><w:tblGrid>`)
	for range widths {
		d.body.WriteString(`<w:gridCol/>`)
	}
	d.body.WriteString(`</w:tblGrid>`)
	for i, row := range rows {
		d.body.WriteString("<w:tr>")
		for j, cell := range row {
			w := 0
			if j < len(widths) {
				w = widths[j] * 50 // pct is expressed in fiftieths
			}
			fmt.Fprintf(&d.body, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="pct"/></w:tcPr>`, w)
			d.Paragraph(cell, Run{Bold: header && i == 0, Size: 20, Align: AlignLeft})
			d.body.WriteString("</w:tc>")
		}
		d.body.WriteString("</w:tr>")
	}
	d.body.WriteString("</w:tbl>")
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// page margins: 0.8in top/bottom, 1in left/right
const sectPr = `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1152" w:right="1440" w:bottom="1152" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>`

// Bytes packages the document as a .docx archive.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		d.body.String() + sectPr + `</w:body></w:document>`

	for _, part := range []struct{ name, data string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", doc},
	} {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.data)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ContentType of .docx files.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
