package extract

import "time"

const (
	mimePDF  = "application/pdf"
	mimeText = "text/plain"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DefaultDispatcher wires the supported formats. Allow-listed types without a
// registration here (e.g. application/msword, image formats when no OCR is
// available) fall through to empty text.
func DefaultDispatcher(timeout time.Duration, ocr Extractor) *Dispatcher {
	d := NewDispatcher(timeout)
	d.Register(mimePDF, PDFExtractor{})
	d.Register(mimeText, TextExtractor{})
	d.Register(mimeDOCX, DOCXExtractor{})
	if ocr != nil {
		d.Register("image/*", ocr)
	}
	return d
}
