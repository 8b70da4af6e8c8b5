package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/apvcouncil/technocratz-registration/model"
	"github.com/apvcouncil/technocratz-registration/utils/validation"
)

// Submission pipeline stages. A failed submission always carries the stage that
// produced it so support can tell a validation miss from a backend outage.
const (
	StageValidation       = "validation"
	StageParse            = "parse"
	StageBackendRejection = "backend_rejection"
	StageBackendError     = "backend_error"
	StageNetworkError     = "network_error"
	StageCorsError        = "cors_error"
	StageUnknownError     = "unknown_error"
)

// SubmissionResult is the non-throwing outcome of a submission attempt.
type SubmissionResult struct {
	Success bool
	Stage   string
	Error   string
	Data    *model.SubmissionResponse
}

// SubmissionService posts completed registrations to the council backend.
// Unlike order creation, submission failures are recoverable (payment already
// happened), so every failure path returns a staged result instead of an error.
type SubmissionService struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSubmissionService creates a submission client for the given endpoint.
func NewSubmissionService(submissionURL string, timeout time.Duration) *SubmissionService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SubmissionService{
		BaseURL: submissionURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BuildSubmissionPayload converts a journaled registration plus the widget's
// success response into the canonical wire shape. Payment identifiers are
// accepted under either naming convention. Team members without a name are
// treated as unfilled form slots and dropped.
func BuildSubmissionPayload(reg *model.Registration, payment *model.PaymentRecord, competitionName string) *model.SubmissionPayload {
	payload := &model.SubmissionPayload{
		RazorpayPaymentID: payment.RazorpayPaymentID,
		RazorpayOrderID:   payment.RazorpayOrderID,
		RazorpaySignature: payment.RazorpaySignature,
		Competition:       competitionName,
	}

	switch reg.Payload.Kind {
	case model.PayloadSingle:
		if m := reg.Payload.Single; m != nil {
			payload.Institute = m.Institute
			payload.Participants = append(payload.Participants, memberToParticipant(*m))
		}
	case model.PayloadTeam:
		if leader := reg.Payload.Leader; leader != nil {
			payload.Institute = leader.Institute
			payload.Participants = append(payload.Participants, memberToParticipant(*leader))
		}
		for _, m := range reg.Payload.Members {
			if m.Name == "" {
				continue
			}
			payload.Participants = append(payload.Participants, memberToParticipant(m))
		}
	case model.PayloadParticipantList:
		payload.Institute = reg.Payload.PrimaryInstitute()
		for _, m := range reg.Payload.Participants {
			if m.Name == "" {
				continue
			}
			payload.Participants = append(payload.Participants, memberToParticipant(m))
		}
	}

	log.Printf("[Submission] Payload built: competition=%s participants=%d",
		payload.Competition, len(payload.Participants))
	return payload
}

func memberToParticipant(m model.Member) model.Participant {
	return model.Participant{
		Name:       m.Name,
		Department: m.Branch,
		Semester:   m.Semester,
		Email:      m.Email,
		Contact:    m.Contact,
	}
}

// Submit validates the payload and posts it to the backend. Never panics and
// never returns a Go error; the result's Stage says where a failure happened.
func (s *SubmissionService) Submit(ctx context.Context, payload *model.SubmissionPayload) SubmissionResult {
	log.Printf("[Submission] Starting submission to %s", s.BaseURL)

	if err := validation.ValidateSubmissionPayload(payload); err != nil {
		log.Printf("[Submission] Payload validation failed: %v", err)
		return SubmissionResult{
			Success: false,
			Stage:   StageValidation,
			Error:   err.Error(),
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SubmissionResult{
			Success: false,
			Stage:   StageUnknownError,
			Error:   fmt.Sprintf("failed to encode payload: %v", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.BaseURL, bytes.NewBuffer(body))
	if err != nil {
		return SubmissionResult{
			Success: false,
			Stage:   StageUnknownError,
			Error:   fmt.Sprintf("failed to create request: %v", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	log.Printf("[Submission] Response status: %d", resp.StatusCode)

	// Read as text first so a non-JSON error page still yields a useful message.
	responseText, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(err)
	}

	var responseData model.SubmissionResponse
	if err := json.Unmarshal(responseText, &responseData); err != nil {
		snippet := string(responseText)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		if strings.HasPrefix(strings.TrimSpace(string(responseText)), "<") {
			log.Printf("[Submission] Response appears to be HTML (possibly error page)")
		}
		return SubmissionResult{
			Success: false,
			Stage:   StageParse,
			Error:   fmt.Sprintf("invalid JSON response from server: %s", snippet),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errMsg := responseData.Error
		if errMsg == "" {
			errMsg = responseData.Message
		}
		if errMsg == "" {
			errMsg = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		log.Printf("[Submission] Backend returned non-OK status %d: %s", resp.StatusCode, errMsg)
		return SubmissionResult{
			Success: false,
			Stage:   StageBackendRejection,
			Error:   errMsg,
			Data:    &responseData,
		}
	}

	if !responseData.Success {
		stage := responseData.Stage
		if stage == "" {
			stage = StageBackendError
		}
		errMsg := responseData.Error
		if errMsg == "" {
			errMsg = responseData.Message
		}
		if errMsg == "" {
			errMsg = "Submission failed"
		}
		log.Printf("[Submission] Backend returned success=false, stage=%s: %s", stage, errMsg)
		return SubmissionResult{
			Success: false,
			Stage:   stage,
			Error:   errMsg,
			Data:    &responseData,
		}
	}

	log.Printf("[Submission] Submission successful, registration number: %s", responseData.RegistrationNumber())
	return SubmissionResult{
		Success: true,
		Data:    &responseData,
	}
}

func classifyTransportError(err error) SubmissionResult {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "CORS") || strings.Contains(msg, "cross-origin"):
		return SubmissionResult{
			Success: false,
			Stage:   StageCorsError,
			Error:   "CORS error: cross-origin request blocked. Please contact support.",
		}
	case strings.Contains(msg, "connection") || strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "timeout") || strings.Contains(msg, "EOF"):
		return SubmissionResult{
			Success: false,
			Stage:   StageNetworkError,
			Error:   "Network error: failed to reach server. Please check your internet connection and try again.",
		}
	default:
		return SubmissionResult{
			Success: false,
			Stage:   StageUnknownError,
			Error:   msg,
		}
	}
}
