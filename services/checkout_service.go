package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apvcouncil/technocratz-registration/model"
	"github.com/apvcouncil/technocratz-registration/storage"
	"github.com/apvcouncil/technocratz-registration/utils/notify"
)

// WidgetSuccess carries the provider-issued identifiers from the checkout
// widget's success callback.
type WidgetSuccess struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// WidgetFailure describes a declined or errored payment.
type WidgetFailure struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

// Prefill pre-populates the widget's contact fields.
type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// WidgetOptions configures a checkout widget instance. Handler must be set
// before the widget is constructed: some widget implementations fire the
// success callback synchronously, and a handler attached afterwards misses it.
type WidgetOptions struct {
	Key         string
	Amount      int64
	Currency    string
	Name        string
	Description string
	OrderID     string
	Prefill     Prefill
	ThemeColor  string
	Handler     func(WidgetSuccess)
	OnDismiss   func()
}

// CheckoutWidget is one open checkout session.
type CheckoutWidget interface {
	Open() error
	OnFailure(fn func(WidgetFailure))
}

// CheckoutGateway abstracts the third-party checkout provider. EnsureLoaded is
// the script-load step and must be idempotent: already loaded is a no-op, a
// load in flight is joined rather than duplicated.
type CheckoutGateway interface {
	EnsureLoaded(ctx context.Context) error
	NewWidget(opts WidgetOptions) (CheckoutWidget, error)
}

// PaymentOptions starts one checkout attempt for a journaled registration.
// The charge amount comes from the registration's AmountPaid (rupees); the
// paise conversion for the provider happens inside StartPayment.
type PaymentOptions struct {
	Event        string // display name, shown on the widget and the receipt
	Registration *model.Registration
}

// PaymentResult is the awaited outcome of a checkout attempt. Success reflects
// the payment outcome only: a successful payment with failed bookkeeping is
// still Success=true, with the bookkeeping failure in Warnings. Money already
// moved; the result must never contradict that.
type PaymentResult struct {
	Success       bool
	PaymentRecord *model.PaymentRecord
	Error         string
	Warnings      []string
}

// CheckoutService drives the full payment flow: script load, order creation,
// widget open, then the success/failure/dismiss callback paths folded into a
// single result.
type CheckoutService struct {
	gateway     CheckoutGateway
	orders      *OrderClient
	submissions *SubmissionService
	receipts    *ReceiptService
	journal     *storage.Journal
	notifier    notify.Notifier

	razorpayKey string
	siteName    string
	themeColor  string

	// WidgetTimeout bounds the widget-open state; 0 waits for a callback
	// forever (the reference behavior).
	WidgetTimeout time.Duration

	loading atomic.Bool
}

// NewCheckoutService wires the orchestrator. notifier may be nil, in which case
// notices go to the log.
func NewCheckoutService(
	gateway CheckoutGateway,
	orders *OrderClient,
	submissions *SubmissionService,
	receipts *ReceiptService,
	journal *storage.Journal,
	notifier notify.Notifier,
	razorpayKey string,
) *CheckoutService {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &CheckoutService{
		gateway:     NewLoadOnceGateway(gateway),
		orders:      orders,
		submissions: submissions,
		receipts:    receipts,
		journal:     journal,
		notifier:    notifier,
		razorpayKey: razorpayKey,
		siteName:    "Technocratz 2.0",
		themeColor:  "#3b82f6",
	}
}

// Loading reports whether a checkout attempt is in flight. Callers should
// disable the triggering control while true.
func (s *CheckoutService) Loading() bool {
	return s.loading.Load()
}

// StartPayment runs one checkout attempt end to end and blocks until the flow
// resolves. A second call while one is in flight fails immediately.
func (s *CheckoutService) StartPayment(ctx context.Context, opts PaymentOptions) PaymentResult {
	if !s.loading.CompareAndSwap(false, true) {
		return PaymentResult{Success: false, Error: "a payment is already in progress"}
	}
	defer s.loading.Store(false)

	if opts.Registration == nil {
		return PaymentResult{Success: false, Error: "missing registration"}
	}

	amountPaise := RupeesToPaise(float64(opts.Registration.AmountPaid))
	log.Printf("[Payment] Starting payment flow: event=%s amount(paise)=%d registration=%s",
		opts.Event, amountPaise, opts.Registration.ID)

	if err := s.gateway.EnsureLoaded(ctx); err != nil {
		msg := fmt.Sprintf("checkout failed to load: %v", err)
		s.notifier.Error(msg)
		return PaymentResult{Success: false, Error: msg}
	}
	log.Printf("[Payment] Checkout script loaded")

	orderID, err := s.orders.CreateOrder(ctx, amountPaise)
	if err != nil {
		log.Printf("[Payment] Order creation failed: %v", err)
		s.notifier.Error(err.Error())
		return PaymentResult{Success: false, Error: err.Error()}
	}

	// Exactly one of the three callback paths resolves the flow; the guard
	// drops anything the widget fires after that.
	results := make(chan PaymentResult, 1)
	var once sync.Once
	resolve := func(r PaymentResult) {
		once.Do(func() { results <- r })
	}

	widgetOpts := WidgetOptions{
		Key:         s.razorpayKey,
		Amount:      amountPaise,
		Currency:    "INR",
		Name:        s.siteName,
		Description: opts.Event,
		OrderID:     orderID,
		Prefill:     prefillFromRegistration(opts.Registration),
		ThemeColor:  s.themeColor,
		Handler: func(response WidgetSuccess) {
			resolve(s.handleSuccess(ctx, opts, amountPaise, response))
		},
		OnDismiss: func() {
			log.Printf("[Payment] Checkout dismissed by user")
			s.notifier.Error("Payment cancelled")
			resolve(PaymentResult{Success: false, Error: "payment cancelled"})
		},
	}

	widget, err := s.gateway.NewWidget(widgetOpts)
	if err != nil {
		msg := fmt.Sprintf("failed to open checkout: %v", err)
		s.notifier.Error(msg)
		return PaymentResult{Success: false, Error: msg}
	}

	widget.OnFailure(func(failure WidgetFailure) {
		description := failure.Description
		if description == "" {
			description = "Payment failed"
		}
		log.Printf("[Payment] Payment failed callback fired: %s", description)
		s.notifier.Error(description)
		resolve(PaymentResult{Success: false, Error: description})
	})

	log.Printf("[Payment] Opening checkout, order=%s", orderID)
	if err := widget.Open(); err != nil {
		msg := fmt.Sprintf("failed to open checkout: %v", err)
		s.notifier.Error(msg)
		return PaymentResult{Success: false, Error: msg}
	}

	var timeoutCh <-chan time.Time
	if s.WidgetTimeout > 0 {
		timer := time.NewTimer(s.WidgetTimeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case result := <-results:
		return result
	case <-timeoutCh:
		s.notifier.Error("Checkout timed out")
		resolve(PaymentResult{Success: false, Error: "checkout timed out"})
		return <-results
	case <-ctx.Done():
		resolve(PaymentResult{Success: false, Error: ctx.Err().Error()})
		return <-results
	}
}

// handleSuccess runs the post-payment pipeline. It must never panic back into
// the widget's callback contract, and no step after the payment itself may turn
// the result into a failure; later-step errors become warnings.
func (s *CheckoutService) handleSuccess(ctx context.Context, opts PaymentOptions, amountPaise int64, response WidgetSuccess) (result PaymentResult) {
	record := &model.PaymentRecord{
		RazorpayPaymentID: response.RazorpayPaymentID,
		RazorpayOrderID:   response.RazorpayOrderID,
		RazorpaySignature: response.RazorpaySignature,
		Amount:            amountPaise,
		Currency:          "INR",
		Status:            model.PaymentStatusSuccess,
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
		RegistrationID:    opts.Registration.ID,
		Event:             opts.Registration.Event,
	}

	result = PaymentResult{Success: true, PaymentRecord: record}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Payment] Recovered in success handler: %v", r)
			msg := fmt.Sprintf("payment successful but processing failed: %v", r)
			s.notifier.Error(msg)
			result = PaymentResult{
				Success:       true,
				PaymentRecord: record,
				Warnings:      append(result.Warnings, msg),
			}
		}
	}()

	log.Printf("[Payment] Success callback fired, payment=%s", record.RazorpayPaymentID)

	if err := s.journal.AppendPayment(ctx, *record); err != nil {
		log.Printf("[Payment] Failed to journal payment record: %v", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("payment record not saved locally: %v", err))
	}

	s.notifier.Success("Payment successful!")

	competition := model.MapEventToCompetition(opts.Event, opts.Registration.Event)
	log.Printf("[Payment] Competition name: %s", competition)

	payload := BuildSubmissionPayload(opts.Registration, record, competition)
	submission := s.submissions.Submit(ctx, payload)

	if !submission.Success {
		log.Printf("[Payment] Submission failed at stage %s: %s", submission.Stage, submission.Error)
		if err := s.journal.AppendFailedSubmission(ctx, *payload, submission.Error, submission.Stage); err != nil {
			log.Printf("[Payment] Failed to journal failed submission: %v", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed submission not saved locally: %v", err))
		}
		msg := fmt.Sprintf("Payment successful but submission failed: %s", submission.Error)
		s.notifier.Error(msg)
		result.Warnings = append(result.Warnings, msg)
		return result
	}

	log.Printf("[Submission] Completed successfully")

	// Receipt generation is best-effort; a failure here never touches the
	// payment outcome.
	if s.receipts != nil {
		data := s.receipts.ExtractReceiptData(opts.Registration, record, opts.Event)
		if data == nil {
			log.Printf("[Receipt] Could not extract receipt data")
			result.Warnings = append(result.Warnings, "receipt data could not be extracted")
		} else {
			if submission.Data != nil {
				data.RegistrationNumber = submission.Data.RegistrationNumber()
			}
			if _, err := s.receipts.GenerateAndSave(ctx, data); err != nil {
				log.Printf("[Receipt] Failed to generate receipt: %v", err)
				result.Warnings = append(result.Warnings, fmt.Sprintf("receipt generation failed: %v", err))
			}
		}
	}

	return result
}

func prefillFromRegistration(reg *model.Registration) Prefill {
	member := reg.Payload.PrimaryMember()
	if member == nil {
		return Prefill{}
	}
	return Prefill{
		Name:    member.Name,
		Email:   member.Email,
		Contact: member.Contact,
	}
}
