package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/apvcouncil/technocratz-registration/model"
	"github.com/apvcouncil/technocratz-registration/services/archive"
)

// ReceiptParticipant is one participant block on the receipt.
type ReceiptParticipant struct {
	Name       string
	Department string
	Semester   string
	Email      string
	Contact    string
}

// ReceiptData is the read-only projection rendered into the PDF. Derived, not
// persisted.
type ReceiptData struct {
	EventName          string
	LeaderName         string
	Email              string
	Contact            string
	Institute          string
	PaymentID          string
	RegistrationNumber string
	AmountPaid         int
	Participants       []ReceiptParticipant // only set for team events
}

// ReceiptService renders downloadable PDF receipts. Every internal failure
// degrades (missing logo becomes a text label, missing field is omitted); the
// only returned errors are from the PDF writer itself, and the orchestrator
// treats those as non-fatal too.
type ReceiptService struct {
	dir        string
	httpClient *http.Client

	// Logo sources; a path or URL. Empty or unreachable falls back to text.
	LeftLogo  string
	RightLogo string

	archiver *archive.SpacesClient
}

// NewReceiptService creates a receipt service writing PDFs under dir.
// archiver may be nil; when set, generated receipts are additionally uploaded
// best-effort.
func NewReceiptService(dir string, archiver *archive.SpacesClient) *ReceiptService {
	return &ReceiptService{
		dir:        dir,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		archiver:   archiver,
	}
}

// ExtractReceiptData derives receipt data from a registration and payment
// record. Returns nil (never panics) when either input is missing or no
// participant can be derived from any supported payload shape.
func (s *ReceiptService) ExtractReceiptData(reg *model.Registration, payment *model.PaymentRecord, eventName string) *ReceiptData {
	if reg == nil || payment == nil {
		log.Printf("[Receipt] Missing registration or payment data")
		return nil
	}

	var participants []ReceiptParticipant
	switch reg.Payload.Kind {
	case model.PayloadSingle:
		if m := reg.Payload.Single; m != nil {
			participants = append(participants, memberToReceipt(*m))
		}
	case model.PayloadTeam:
		if leader := reg.Payload.Leader; leader != nil {
			participants = append(participants, memberToReceipt(*leader))
		}
		for _, m := range reg.Payload.Members {
			participants = append(participants, memberToReceipt(m))
		}
	case model.PayloadParticipantList:
		for _, m := range reg.Payload.Participants {
			participants = append(participants, memberToReceipt(m))
		}
	}

	if len(participants) == 0 {
		log.Printf("[Receipt] No participants found")
		return nil
	}

	leader := participants[0]
	data := &ReceiptData{
		EventName:  eventName,
		LeaderName: leader.Name,
		Email:      leader.Email,
		Contact:    leader.Contact,
		Institute:  reg.Payload.PrimaryInstitute(),
		PaymentID:  payment.RazorpayPaymentID,
		AmountPaid: reg.AmountPaid,
	}
	if len(participants) > 1 {
		data.Participants = participants
	}
	return data
}

func memberToReceipt(m model.Member) ReceiptParticipant {
	return ReceiptParticipant{
		Name:       m.Name,
		Department: m.Branch,
		Semester:   m.Semester,
		Email:      m.Email,
		Contact:    m.Contact,
	}
}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ReceiptFilename derives the download filename from the primary participant.
func ReceiptFilename(leaderName string) string {
	sanitized := strings.ToLower(filenameSanitizer.ReplaceAllString(leaderName, "_"))
	return sanitized + "_Technocratz2.0.pdf"
}

// GenerateReceipt renders the PDF and returns its bytes and filename.
func (s *ReceiptService) GenerateReceipt(data *ReceiptData) (out []byte, filename string, err error) {
	if data == nil {
		return nil, "", fmt.Errorf("missing receipt data")
	}

	// The PDF library panics on some malformed inputs; the receipt path must
	// never raise past its caller.
	defer func() {
		if r := recover(); r != nil {
			out, filename = nil, ""
			err = fmt.Errorf("receipt rendering failed: %v", r)
		}
	}()

	log.Printf("[Receipt] Generating PDF receipt for %s", data.LeaderName)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pageWidth, pageHeight := pdf.GetPageSize()
	margin := 20.0
	contentWidth := pageWidth - 2*margin
	y := margin

	s.drawHeader(pdf, pageWidth, margin, y)
	y += 15

	// Title block
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(59, 130, 246)
	pdf.Text(pageWidth/2-pdf.GetStringWidth("Technocratz 2.0")/2, y, "Technocratz 2.0")
	y += 10

	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(pageWidth/2-pdf.GetStringWidth("Registration Receipt")/2, y, "Registration Receipt")
	y += 15

	if data.RegistrationNumber != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(margin, y, "Registration Number:")
		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(margin+55, y, data.RegistrationNumber)
		y += 10
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(margin, y, "Event Name:")
	pdf.SetFont("Helvetica", "", 14)
	eventLines := pdf.SplitText(data.EventName, contentWidth-40)
	for _, line := range eventLines {
		pdf.Text(margin+35, y, line)
		y += 7
	}
	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(margin, y, "Participant Details:")
	y += 8

	if len(data.Participants) > 0 {
		for i, p := range data.Participants {
			if y > pageHeight-60 {
				pdf.AddPage()
				y = margin
			}
			pdf.SetFont("Helvetica", "B", 11)
			pdf.Text(margin, y, fmt.Sprintf("Participant %d:", i+1))
			y += 6

			pdf.SetFont("Helvetica", "", 10)
			y = writeLine(pdf, margin+5, y, "Name: "+p.Name)
			if p.Department != "" {
				y = writeLine(pdf, margin+5, y, "Department: "+p.Department)
			}
			if p.Semester != "" {
				y = writeLine(pdf, margin+5, y, "Semester: "+p.Semester)
			}
			if p.Email != "" {
				y = writeLine(pdf, margin+5, y, "Email: "+p.Email)
			}
			if p.Contact != "" {
				y = writeLine(pdf, margin+5, y, "Contact: "+p.Contact)
			}
			y += 3
		}
	} else {
		pdf.SetFont("Helvetica", "", 10)
		y = writeLine(pdf, margin+5, y, "Name: "+data.LeaderName)
		y = writeLine(pdf, margin+5, y, "Email: "+data.Email)
		y = writeLine(pdf, margin+5, y, "Contact: "+data.Contact)
		if data.Institute != "" {
			for _, line := range pdf.SplitText("Institute: "+data.Institute, contentWidth-10) {
				y = writeLine(pdf, margin+5, y, line)
			}
		}
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(margin, y, "Payment ID:")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(margin+30, y, data.PaymentID)
	y += 10

	if data.AmountPaid > 0 {
		y += 5
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(5, 150, 105)
		pdf.Text(margin, y, fmt.Sprintf("Amount Paid: Rs. %d", data.AmountPaid))
		y += 10
	}

	// Footer
	y += 10
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(margin, y, pageWidth-margin, y)
	y += 10

	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(128, 128, 128)
	footer1 := "Thank you for registering for Technocratz 2.0"
	pdf.Text(pageWidth/2-pdf.GetStringWidth(footer1)/2, y, footer1)
	y += 5
	footer2 := "This is a computer-generated receipt. No signature required."
	pdf.Text(pageWidth/2-pdf.GetStringWidth(footer2)/2, y, footer2)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render receipt: %w", err)
	}

	filename = ReceiptFilename(data.LeaderName)
	log.Printf("[Receipt] Rendered %s (%d bytes)", filename, buf.Len())
	return buf.Bytes(), filename, nil
}

// drawHeader embeds the two logos when available and degrades to text labels
// in the same positions when not.
func (s *ReceiptService) drawHeader(pdf *gofpdf.Fpdf, pageWidth, margin, y float64) {
	leftDone := s.placeLogo(pdf, "left-logo", s.LeftLogo, margin, y)
	rightDone := s.placeLogo(pdf, "right-logo", s.RightLogo, pageWidth-margin-20, y)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	if !leftDone {
		pdf.Text(margin, y+5, "Agnel Polytechnic")
	}
	if !rightDone {
		pdf.Text(pageWidth-margin-30, y+5, "APV Council")
	}
}

func (s *ReceiptService) placeLogo(pdf *gofpdf.Fpdf, name, source string, x, y float64) bool {
	if source == "" {
		return false
	}
	data, err := s.loadAsset(source)
	if err != nil {
		log.Printf("[Receipt] Could not load logo %s: %v", source, err)
		return false
	}
	imageType := strings.TrimPrefix(strings.ToUpper(filepath.Ext(source)), ".")
	if imageType == "JPG" {
		imageType = "JPEG"
	}
	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() {
		log.Printf("[Receipt] Could not decode logo %s: %v", source, pdf.Error())
		pdf.ClearError()
		return false
	}
	pdf.ImageOptions(name, x, y, 20, 0, false, opts, 0, "")
	if pdf.Err() {
		pdf.ClearError()
		return false
	}
	return true
}

func (s *ReceiptService) loadAsset(source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := s.httpClient.Get(source)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(source)
}

func writeLine(pdf *gofpdf.Fpdf, x, y float64, text string) float64 {
	pdf.Text(x, y, text)
	return y + 6
}

// GenerateAndSave renders the receipt, writes it under the configured
// directory, and archives it when an archiver is configured. Returns the saved
// path.
func (s *ReceiptService) GenerateAndSave(ctx context.Context, data *ReceiptData) (string, error) {
	content, filename, err := s.GenerateReceipt(data)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create receipt directory: %w", err)
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to save receipt: %w", err)
	}
	log.Printf("[Receipt] Saved receipt to %s", path)

	if s.archiver != nil {
		key := "receipts/" + filename
		if url, err := s.archiver.UploadBytes(ctx, key, content, "application/pdf"); err != nil {
			log.Printf("[Receipt] Archive upload failed: %v", err)
		} else {
			log.Printf("[Receipt] Archived receipt at %s", url)
		}
	}

	return path, nil
}
