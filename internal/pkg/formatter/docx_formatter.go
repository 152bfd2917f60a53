package formatter

import (
	"bytes"

	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(entries []entity.HistoryEntry) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titleRun := titlePar.AddRun()
	titleRun.AddText(transcriptTitle)

	doc.AddParagraph()

	for _, entry := range entries {
		par := doc.AddParagraph()

		roleRun := par.AddRun()
		roleRun.Properties().SetBold(true)
		roleRun.AddText(entry.Role + " ")

		contentRun := par.AddRun()
		contentRun.AddText(entry.Content)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
