package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/apvcouncil/technocratz-registration/config"
	"github.com/apvcouncil/technocratz-registration/model"
	"github.com/apvcouncil/technocratz-registration/services"
	"github.com/apvcouncil/technocratz-registration/storage"
)

// Support tool for registration journals. Failed submissions are never retried
// automatically; this is the manual path.
//
// Usage:
//
//	support registrations          list journaled registrations
//	support payments               list journaled payment records
//	support failed                 list failed submissions
//	support retry -index N         re-submit failed submission N
//	support watch [-every 1m]      periodic journal summary
func main() {
	if err := config.LoadENV(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	retryCmd := flag.NewFlagSet("retry", flag.ExitOnError)
	retryIndex := retryCmd.Int("index", -1, "index of the failed submission to retry (from 'support failed')")

	watchCmd := flag.NewFlagSet("watch", flag.ExitOnError)
	watchEvery := watchCmd.String("every", "1m", "summary interval (cron @every syntax)")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	journal, err := openJournal(env)
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "registrations":
		listRegistrations(ctx, journal)
	case "payments":
		listPayments(ctx, journal)
	case "failed":
		listFailed(ctx, journal)
	case "retry":
		retryCmd.Parse(os.Args[2:])
		retryFailed(ctx, env, journal, *retryIndex)
	case "watch":
		watchCmd.Parse(os.Args[2:])
		watch(ctx, journal, *watchEvery)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: support <registrations|payments|failed|retry|watch> [flags]")
}

// openJournal prefers Redis when configured and falls back to the file store.
func openJournal(env *config.EnviornmentVariable) (*storage.Journal, error) {
	if env.REDIS_URL != "" {
		store, err := storage.NewRedisStore(env.REDIS_URL)
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		log.Printf("Using Redis journal at %s", env.REDIS_URL)
		return storage.NewJournal(store), nil
	}

	store, err := storage.NewFileStore(env.STORAGE_PATH)
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	log.Printf("Using file journal at %s", env.STORAGE_PATH)
	return storage.NewJournal(store), nil
}

func listRegistrations(ctx context.Context, journal *storage.Journal) {
	regs := journal.ListRegistrations(ctx)
	fmt.Printf("%d registration(s)\n", len(regs))
	for i, r := range regs {
		primary := "-"
		if m := r.Payload.PrimaryMember(); m != nil {
			primary = m.Name
		}
		fmt.Printf("%3d  %s  event=%s  participants=%d  amount=Rs.%d  by=%s  at=%s\n",
			i, r.ID, r.Event, r.ParticipantsCount, r.AmountPaid, primary, r.CreatedAt)
	}
}

func listPayments(ctx context.Context, journal *storage.Journal) {
	payments := journal.ListPayments(ctx)
	fmt.Printf("%d payment(s)\n", len(payments))
	for i, p := range payments {
		fmt.Printf("%3d  %s  order=%s  amount(paise)=%d  status=%s  registration=%s\n",
			i, p.RazorpayPaymentID, p.RazorpayOrderID, p.Amount, p.Status, p.RegistrationID)
	}
}

func listFailed(ctx context.Context, journal *storage.Journal) {
	failed := journal.ListFailedSubmissions(ctx)
	fmt.Printf("%d failed submission(s)\n", len(failed))
	for i, f := range failed {
		fmt.Printf("%3d  stage=%s  competition=%s  payment=%s  at=%s\n      error: %s\n",
			i, f.Stage, f.Payload.Competition, f.Payload.RazorpayPaymentID, f.Timestamp, f.Error)
	}
}

// retryFailed re-submits one journaled failed submission. A repeat failure is
// appended as a fresh record so the journal keeps the full history.
func retryFailed(ctx context.Context, env *config.EnviornmentVariable, journal *storage.Journal, index int) {
	failed := journal.ListFailedSubmissions(ctx)
	if index < 0 || index >= len(failed) {
		log.Fatalf("retry: index %d out of range (have %d failed submissions)", index, len(failed))
	}

	record := failed[index]
	log.Printf("Retrying failed submission %d (stage=%s, error=%s)", index, record.Stage, record.Error)

	submissions := services.NewSubmissionService(env.SUBMISSION_API_URL,
		time.Duration(env.HTTP_TIMEOUT_SECONDS)*time.Second)

	result := submissions.Submit(ctx, &record.Payload)
	if result.Success {
		srNo := ""
		if result.Data != nil {
			srNo = result.Data.RegistrationNumber()
		}
		fmt.Printf("Retry succeeded. Registration number: %s\n", srNo)
		regenerateReceipt(ctx, env, journal, record.Payload, srNo)
		return
	}

	fmt.Printf("Retry failed at stage %s: %s\n", result.Stage, result.Error)
	if err := journal.AppendFailedSubmission(ctx, record.Payload, result.Error, result.Stage); err != nil {
		log.Printf("Could not journal retry failure: %v", err)
	}
}

// regenerateReceipt rebuilds the receipt for a retried submission from the
// journaled payment and registration. Best-effort: the retry already succeeded,
// so a missing journal entry or a PDF failure only logs.
func regenerateReceipt(ctx context.Context, env *config.EnviornmentVariable, journal *storage.Journal, payload model.SubmissionPayload, srNo string) {
	var payment *model.PaymentRecord
	for _, p := range journal.ListPayments(ctx) {
		if p.RazorpayPaymentID == payload.RazorpayPaymentID {
			payment = &p
			break
		}
	}
	if payment == nil {
		log.Printf("No journaled payment for %s, skipping receipt", payload.RazorpayPaymentID)
		return
	}

	var reg *model.Registration
	for _, r := range journal.ListRegistrations(ctx) {
		if r.ID == payment.RegistrationID {
			reg = &r
			break
		}
	}
	if reg == nil {
		log.Printf("No journaled registration %s, skipping receipt", payment.RegistrationID)
		return
	}

	receipts := services.NewReceiptServiceFromConfig(env)
	data := receipts.ExtractReceiptData(reg, payment, payload.Competition)
	if data == nil {
		log.Printf("Could not derive receipt data, skipping receipt")
		return
	}
	data.RegistrationNumber = srNo

	path, err := receipts.GenerateAndSave(ctx, data)
	if err != nil {
		log.Printf("Receipt regeneration failed: %v", err)
		return
	}
	fmt.Printf("Receipt written to %s\n", path)
}

// watch prints a journal summary on a fixed schedule until interrupted.
func watch(ctx context.Context, journal *storage.Journal, every string) {
	c := cron.New()
	summary := func() {
		regs := journal.ListRegistrations(ctx)
		payments := journal.ListPayments(ctx)
		failed := journal.ListFailedSubmissions(ctx)
		log.Printf("journal summary: registrations=%d payments=%d failed_submissions=%d",
			len(regs), len(payments), len(failed))
		for i, f := range failed {
			log.Printf("  failed[%d]: stage=%s error=%s", i, f.Stage, f.Error)
		}
	}

	if _, err := c.AddFunc("@every "+every, summary); err != nil {
		log.Fatalf("watch: bad interval %q: %v", every, err)
	}

	summary()
	c.Start()
	defer c.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Printf("watch: shutting down")
}
