package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
	"transitpay/internal/repositories"
	"transitpay/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the e-ticket and receipt PDFs for settled bookings.
type DocsService struct {
	RequestID string
	Loader    func(int64) (bookingDocData, error)
}

type bookingDocData struct {
	BookingID      int64
	Type           string
	Status         string
	PassengerName  string
	PassengerPhone string
	Seats          []string
	RouteFrom      string
	RouteTo        string
	TripDate       string
	TripTime       string
	VehicleName    string
	DriverName     string
	Price          int64
	Reference      string
}

func (s DocsService) GenerateETicket(bookingID int64) ([]byte, string, error) {
	data, err := s.loadBookingDocData(bookingID)
	if err != nil {
		return nil, "", err
	}
	if data.Status == models.StatusPending || data.Status == models.StatusPaymentFailed || data.Status == models.StatusCancelled {
		return nil, "", domain.ConflictError{Resource: "booking", Msg: "e-ticket available after payment"}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("booking_id=%d", bookingID))
	return buildETicketPDF(data)
}

func (s DocsService) GenerateReceipt(bookingID int64) ([]byte, string, error) {
	data, err := s.loadBookingDocData(bookingID)
	if err != nil {
		return nil, "", err
	}
	if data.Reference == "" {
		return nil, "", domain.ConflictError{Resource: "booking", Msg: "receipt available after payment"}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", fmt.Sprintf("booking_id=%d", bookingID))
	return buildReceiptPDF(data)
}

func (s DocsService) loadBookingDocData(bookingID int64) (bookingDocData, error) {
	if s.Loader != nil {
		return s.Loader(bookingID)
	}

	var out bookingDocData
	bookings := repositories.BookingRepository{}
	b, err := bookings.GetByID(bookingID)
	if err != nil {
		return out, err
	}

	out.BookingID = b.ID
	out.Type = b.Type
	out.Status = b.Status
	out.PassengerName = b.PassengerName
	out.PassengerPhone = b.PassengerPhone
	out.RouteFrom = b.RouteFrom
	out.RouteTo = b.RouteTo
	out.TripDate = b.TripDate
	out.TripTime = b.TripTime
	out.Price = b.Price
	out.Reference = b.PaymentReference

	if seats, err := bookings.GetSeats(b.ID); err == nil {
		out.Seats = seats
	}

	if b.ScheduledTripID > 0 {
		if trip, err := (repositories.TripRepository{}).GetByID(b.ScheduledTripID); err == nil && trip.VehicleID > 0 {
			if v, err := (repositories.VehicleRepository{}).GetByID(trip.VehicleID); err == nil {
				out.VehicleName = v.Name
				if v.DriverID > 0 {
					if d, err := (repositories.DriverRepository{}).GetByID(v.DriverID); err == nil {
						out.DriverName = d.Name
					}
				}
			}
		}
	}
	return out, nil
}

func buildETicketPDF(d bookingDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger    : %s", safe(d.PassengerName, "-")),
		fmt.Sprintf("Phone        : %s", safe(d.PassengerPhone, "-")),
		fmt.Sprintf("Seats        : %s", safe(strings.Join(d.Seats, ", "), "-")),
		fmt.Sprintf("Service      : %s", safe(d.Type, "-")),
		fmt.Sprintf("Route        : %s -> %s", safe(d.RouteFrom, "-"), safe(d.RouteTo, "-")),
		fmt.Sprintf("Date/Time    : %s %s", safe(d.TripDate, "-"), safe(d.TripTime, "-")),
		fmt.Sprintf("Vehicle      : %s", safe(d.VehicleName, "-")),
		fmt.Sprintf("Driver       : %s", safe(d.DriverName, "-")),
		fmt.Sprintf("Booking Code : #%d", d.BookingID),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this e-ticket at departure. Valid for the listed seats only.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%d_%s.pdf", d.BookingID, safeFilenamePart(d.PassengerName))
	return buf.Bytes(), filename, nil
}

func buildReceiptPDF(d bookingDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Receipt No : RCP-%d", d.BookingID),
		fmt.Sprintf("Date       : %s", utils.FormatDateTime(time.Now())),
		fmt.Sprintf("Customer   : %s", safe(d.PassengerName, "-")),
		fmt.Sprintf("Route      : %s -> %s", safe(d.RouteFrom, "-"), safe(d.RouteTo, "-")),
		fmt.Sprintf("Seats      : %s", safe(strings.Join(d.Seats, ", "), "-")),
		fmt.Sprintf("Reference  : %s", safe(d.Reference, "-")),
		fmt.Sprintf("Amount     : %s", utils.FormatNaira(d.Price)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%d.pdf", d.BookingID)
	return buf.Bytes(), filename, nil
}

func safe(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "x"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-")
	return replacer.Replace(s)
}
