package docgen

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Circular05 {
	return &Circular05{
		SchoolZone:   "004",
		DirectorName: "María López",
		SchoolName:   "Benito Juárez",
		CCT:          "21EBH0001A",
		Locality:     "Zacatlán",
		Recipient:    "Mtro. Pérez",
		EventName:    "Encuentro Deportivo",
		Discipline:   "Fútbol varonil",
		Venue:        "BGE Centro",
		EventDate:    "10 de octubre de 2025",
		Chaperones:   []Chaperone{{Name: "Luis", Position: "Docente"}},
		Students:     []Student{{Name: "Ana & Co", CURP: "X"}},
		CycleName:    "2025-2026",
	}
}

func readDocument(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := map[string]bool{}
	var doc string
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			b, _ := io.ReadAll(rc)
			rc.Close()
			doc = string(b)
		}
	}
	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["_rels/.rels"])
	return doc
}

func TestRenderCircular05(t *testing.T) {
	out, err := RenderCircular05(sample())
	require.NoError(t, err)

	doc := readDocument(t, out)
	assert.Contains(t, doc, "ZONA ESCOLAR 004")
	assert.Contains(t, doc, "Ana &amp; Co")
	assert.Contains(t, doc, "El total de viajeros son 4")
	assert.Contains(t, doc, "Ciclo escolar 2025-2026.")
	assert.Contains(t, doc, "OFICIO DE COMISIÓN")
	// request, project, attendees, closing, one commission
	assert.Equal(t, 4, strings.Count(doc, `w:type="page"`))
}

func TestCircular05_Missing(t *testing.T) {
	assert.Empty(t, sample().Missing())

	c := sample()
	c.CCT = " "
	c.Students = nil
	assert.Equal(t, []string{"cct", "alumnos"}, c.Missing())
}

func TestCircular05_FileName(t *testing.T) {
	assert.Equal(t, "Proyecto_Circular05_21EBH0001A_Fútbol_varonil.docx", sample().FileName())
}
