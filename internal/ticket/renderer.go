package ticket

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrRender возвращается при ошибке генерации документа
	ErrRender = errors.New("ticket: failed to render document")
)

// Ticket снимок данных бронирования для рендеринга e-ticket
// BookingID кодируется в QR как единственный payload: сканер однозначно
// находит бронирование по нему
type Ticket struct {
	BookingID string
	UserName  string
	FieldName string
	Date      string // YYYY-MM-DD
	TimeRange string // "HH:MM - HH:MM"
	Price     string // Отформатированная цена
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Renderer генератор e-ticket в формате PDF (A5, QR + факты бронирования)
type Renderer struct {
	fontBytes []byte // UTF-8 шрифт из конфигурации; nil - встроенный шрифт
	log       Logger
}

// NewRenderer создает рендерер билетов
// fontPath опционален: при пустом пути или нечитаемом файле рендерер
// деградирует к встроенному шрифту PDF вместо отказа
func NewRenderer(fontPath string, log Logger) *Renderer {
	r := &Renderer{log: log}

	if fontPath == "" {
		return r
	}

	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		log.Warn("Ticket: configured font %s is not readable, falling back to built-in font: %v", fontPath, err)
		return r
	}

	if !fontUsable(fontBytes) {
		log.Warn("Ticket: configured font %s is not a usable TTF, falling back to built-in font", fontPath)
		return r
	}

	r.fontBytes = fontBytes
	log.Info("Ticket: using configured font %s", fontPath)
	return r
}

// fontUsable регистрирует шрифт в одноразовом документе и проверяет,
// что на него можно переключиться. AddUTF8FontFromBytes глотает ошибки
// разбора TTF, поэтому пригодность видна только через SetFont
func fontUsable(fontBytes []byte) bool {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontBytes)
	pdf.SetFont(fontFamily, "", 12)
	return !pdf.Err()
}

const (
	pageWidth  = 148.0 // A5 портрет, мм
	headerH    = 22.0
	qrSize     = 38.0
	labelX     = 16.0
	valueX     = 58.0
	rowStartY  = 82.0
	rowStep    = 9.0
	fontFamily = "TicketFont"
)

// Render генерирует PDF билета
func (r *Renderer) Render(t *Ticket) ([]byte, error) {
	qrPNG, err := qrcode.Encode(t.BookingID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("%w: qr encode: %v", ErrRender, err)
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetAutoPageBreak(false, 0)

	// Шрифт проверен при создании рендерера, здесь только регистрация
	family := "Helvetica"
	if r.fontBytes != nil {
		pdf.AddUTF8FontFromBytes(fontFamily, "", r.fontBytes)
		family = fontFamily
	}

	pdf.AddPage()

	// Шапка
	pdf.SetFillColor(30, 58, 138)
	pdf.Rect(0, 0, pageWidth, headerH, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(family, "", 18)
	pdf.SetXY(12, 7)
	pdf.CellFormat(pageWidth-24, 8, "SPORTBOOK E-TICKET", "", 0, "L", false, 0, "")

	// QR по центру
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opt, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", (pageWidth-qrSize)/2, 34, qrSize, qrSize, false, opt, 0, "")

	// Факты бронирования
	rows := []struct {
		label string
		value string
	}{
		{"Nama", t.UserName},
		{"Lapangan", t.FieldName},
		{"Tanggal", t.Date},
		{"Waktu", t.TimeRange},
		{"Harga", t.Price},
		{"Status", "Sudah Dibayar"},
	}

	y := rowStartY
	pdf.SetFont(family, "", 12)
	for _, row := range rows {
		pdf.SetTextColor(17, 17, 17)
		pdf.SetXY(labelX, y)
		pdf.CellFormat(valueX-labelX, 6, row.label+":", "", 0, "L", false, 0, "")

		pdf.SetTextColor(37, 99, 235)
		pdf.SetXY(valueX, y)
		pdf.CellFormat(pageWidth-valueX-12, 6, row.value, "", 0, "L", false, 0, "")

		y += rowStep
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: pdf output: %v", ErrRender, err)
	}

	return buf.Bytes(), nil
}
