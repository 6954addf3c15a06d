package resume

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Supported document mime types.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// extractText pulls plain text out of a resume document by mime type.
func extractText(document []byte, mimeType string) (string, error) {
	switch mimeType {
	case MimePDF:
		return extractPDF(document)
	case MimeDOCX:
		return extractDOCX(document)
	case MimeText:
		return cleanText(string(document)), nil
	default:
		return "", &ParseError{MimeType: mimeType, Message: "unsupported document type"}
	}
}

func extractPDF(document []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return "", &ParseError{MimeType: MimePDF, Message: "unreadable document", Cause: err}
	}
	rs, err := reader.GetPlainText()
	if err != nil {
		return "", &ParseError{MimeType: MimePDF, Message: "text extraction failed", Cause: err}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", &ParseError{MimeType: MimePDF, Message: "text extraction failed", Cause: err}
	}
	return cleanText(buf.String()), nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// extractDOCX reads word/document.xml out of the zip container and strips
// the markup. Paragraph closes become newlines so line structure survives.
func extractDOCX(document []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return "", &ParseError{MimeType: MimeDOCX, Message: "unreadable document", Cause: err}
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", &ParseError{MimeType: MimeDOCX, Message: "unreadable document", Cause: err}
			}
			docXML, err = io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				return "", &ParseError{MimeType: MimeDOCX, Message: "unreadable document", Cause: err}
			}
			break
		}
	}
	if len(docXML) == 0 {
		return "", &ParseError{MimeType: MimeDOCX, Message: "no document.xml in container"}
	}

	text := string(docXML)
	text = strings.ReplaceAll(text, "</w:p>", "\n")
	text = strings.ReplaceAll(text, "<w:tab/>", "\t")
	text = xmlTagPattern.ReplaceAllString(text, " ")
	return cleanText(text), nil
}

var blankLinesPattern = regexp.MustCompile(`\n\n\n+`)

// cleanText normalizes line endings and whitespace while keeping line
// structure, which the extractors rely on for role detection.
func cleanText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, strings.Join(strings.Fields(line), " "))
	}

	result := strings.Join(cleaned, "\n")
	result = blankLinesPattern.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
