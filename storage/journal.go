package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/apvcouncil/technocratz-registration/model"
)

// Journal key namespaces. The _v1 suffix predates the version envelope and is
// kept so existing journals stay readable.
const (
	RegistrationsKey     = "technocratz_registrations_v1"
	PaymentsKey          = "technocratz_payments_v1"
	FailedSubmissionsKey = "technocratz_failed_submissions_v1"
)

const envelopeVersion = 1

// envelope wraps each journal collection with a schema version. Collections
// written before the envelope existed are bare JSON arrays and decode as
// version 0.
type envelope struct {
	Version int             `json:"version"`
	Records json.RawMessage `json:"records"`
}

// Journal is the local record store for registrations, payments, and failed
// submissions. Every write is read-modify-write of the whole collection, which
// is fine at the expected scale (hundreds of records) under the single-writer
// assumption; there is no cross-process atomicity.
type Journal struct {
	store Store
}

func NewJournal(store Store) *Journal {
	return &Journal{store: store}
}

// GenerateID returns a new registration identifier. Prefers a random UUID and
// falls back to a timestamped random token if UUID generation is unavailable.
// Collisions are accepted as negligible; the journal is never consulted.
func (j *Journal) GenerateID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Sprintf("reg_%d_%s", time.Now().UnixMilli(), randomBase36(9))
	}
	return id.String()
}

func randomBase36(n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// ListRegistrations returns every journaled registration. A corrupt or missing
// collection yields an empty slice, never an error; payment must still be able
// to proceed on a damaged journal read.
func (j *Journal) ListRegistrations(ctx context.Context) []model.Registration {
	var out []model.Registration
	if err := j.readCollection(ctx, RegistrationsKey, &out); err != nil {
		log.Printf("[Journal] Error reading registrations: %v", err)
		return []model.Registration{}
	}
	if out == nil {
		out = []model.Registration{}
	}
	return out
}

// AppendRegistration journals a registration before payment is attempted.
// Unlike reads, a failed write propagates: proceeding to payment without the
// optimistic record is not allowed.
func (j *Journal) AppendRegistration(ctx context.Context, r model.Registration) error {
	regs := j.ListRegistrations(ctx)
	regs = append(regs, r)
	if err := j.writeCollection(ctx, RegistrationsKey, regs); err != nil {
		return fmt.Errorf("failed to save registration: %w", err)
	}
	return nil
}

// ListPayments returns every journaled payment record.
func (j *Journal) ListPayments(ctx context.Context) []model.PaymentRecord {
	var out []model.PaymentRecord
	if err := j.readCollection(ctx, PaymentsKey, &out); err != nil {
		log.Printf("[Journal] Error reading payments: %v", err)
		return []model.PaymentRecord{}
	}
	if out == nil {
		out = []model.PaymentRecord{}
	}
	return out
}

// AppendPayment journals a successful payment record.
func (j *Journal) AppendPayment(ctx context.Context, record model.PaymentRecord) error {
	payments := j.ListPayments(ctx)
	payments = append(payments, record)
	if err := j.writeCollection(ctx, PaymentsKey, payments); err != nil {
		return fmt.Errorf("failed to save payment record: %w", err)
	}
	return nil
}

// ListFailedSubmissions returns every journaled failed submission.
func (j *Journal) ListFailedSubmissions(ctx context.Context) []model.FailedSubmissionRecord {
	var out []model.FailedSubmissionRecord
	if err := j.readCollection(ctx, FailedSubmissionsKey, &out); err != nil {
		log.Printf("[Journal] Error reading failed submissions: %v", err)
		return []model.FailedSubmissionRecord{}
	}
	if out == nil {
		out = []model.FailedSubmissionRecord{}
	}
	return out
}

// AppendFailedSubmission records a submission that failed after payment
// succeeded. These records are informational; nothing retries them
// automatically.
func (j *Journal) AppendFailedSubmission(ctx context.Context, payload model.SubmissionPayload, errMsg string, stage string) error {
	failed := j.ListFailedSubmissions(ctx)
	failed = append(failed, model.FailedSubmissionRecord{
		Payload:   payload,
		Error:     errMsg,
		Stage:     stage,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err := j.writeCollection(ctx, FailedSubmissionsKey, failed); err != nil {
		return fmt.Errorf("failed to save failed submission: %w", err)
	}
	return nil
}

func (j *Journal) readCollection(ctx context.Context, key string, target interface{}) error {
	data, err := j.store.Get(ctx, key)
	if err == ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Records != nil {
		if env.Version > envelopeVersion {
			return fmt.Errorf("journal %s has unsupported version %d", key, env.Version)
		}
		return json.Unmarshal(env.Records, target)
	}

	// Legacy layout: a bare JSON array.
	return json.Unmarshal(data, target)
}

func (j *Journal) writeCollection(ctx context.Context, key string, records interface{}) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}
	data, err := json.Marshal(envelope{
		Version: envelopeVersion,
		Records: raw,
	})
	if err != nil {
		return err
	}
	return j.store.Set(ctx, key, data)
}
