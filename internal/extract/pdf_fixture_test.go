package extract

import (
	"bytes"
	"fmt"
	"strings"
)

// minimalPDF builds a one-page document showing text in Helvetica with a
// correct cross-reference table.
func minimalPDF(text string) []byte {
	return pagesPDF(-1, text)
}

// brokenXrefPDF is minimalPDF with a startxref pointing past the end of the
// file.
func brokenXrefPDF(text string) []byte {
	return pagesPDF(9431, text)
}

// pagesPDF builds a document with one page per text. A non-negative
// startxref overrides the real cross-reference offset.
func pagesPDF(startxref int, texts ...string) []byte {
	fontID := 3 + 2*len(texts)
	kids := make([]string, len(texts))
	objects := []string{"<< /Type /Catalog /Pages 2 0 R >>", ""}
	for i, text := range texts {
		pageID := 3 + 2*i
		kids[i] = fmt.Sprintf("%d 0 R", pageID)
		stream := fmt.Sprintf("BT /F1 24 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>", pageID+1, fontID),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(texts))
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	if startxref >= 0 {
		xref = startxref
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
