package model

import (
	"encoding/json"
	"fmt"
)

// PayloadKind identifies which historical form shape a registration payload uses.
type PayloadKind string

const (
	PayloadSingle          PayloadKind = "single"
	PayloadTeam            PayloadKind = "team"
	PayloadParticipantList PayloadKind = "participants"
)

// Member represents one person on a registration form
type Member struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Contact   string `json:"contact"`
	Branch    string `json:"branch"`
	Semester  string `json:"semester"`
	Institute string `json:"institute,omitempty"`
}

// RegistrationPayload is a tagged union over the three form shapes the site has
// produced over time: a flat single participant, a leader+members team, and a
// bare participant list. The JSON encoding matches whichever shape Kind selects,
// and decoding accepts any of the three.
type RegistrationPayload struct {
	Kind PayloadKind `json:"-"`

	// PayloadSingle
	Single *Member

	// PayloadTeam
	Leader  *Member
	Members []Member

	// PayloadParticipantList
	Participants []Member
	Institute    string
}

// payloadJSON is the superset wire shape used to probe incoming payloads.
type payloadJSON struct {
	Name      string   `json:"name,omitempty"`
	Email     string   `json:"email,omitempty"`
	Contact   string   `json:"contact,omitempty"`
	Branch    string   `json:"branch,omitempty"`
	Semester  string   `json:"semester,omitempty"`
	Institute string   `json:"institute,omitempty"`
	Leader    *Member  `json:"leader,omitempty"`
	Members   []Member `json:"members,omitempty"`

	Participants []Member `json:"participants,omitempty"`
}

func (p RegistrationPayload) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PayloadSingle:
		if p.Single == nil {
			return nil, fmt.Errorf("single payload missing member")
		}
		return json.Marshal(payloadJSON{
			Name:      p.Single.Name,
			Email:     p.Single.Email,
			Contact:   p.Single.Contact,
			Branch:    p.Single.Branch,
			Semester:  p.Single.Semester,
			Institute: p.Single.Institute,
		})
	case PayloadTeam:
		if p.Leader == nil {
			return nil, fmt.Errorf("team payload missing leader")
		}
		return json.Marshal(payloadJSON{
			Leader:  p.Leader,
			Members: p.Members,
		})
	case PayloadParticipantList:
		return json.Marshal(payloadJSON{
			Participants: p.Participants,
			Institute:    p.Institute,
		})
	default:
		return nil, fmt.Errorf("unknown payload kind %q", p.Kind)
	}
}

func (p *RegistrationPayload) UnmarshalJSON(data []byte) error {
	var probe payloadJSON
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	switch {
	case probe.Name != "":
		p.Kind = PayloadSingle
		p.Single = &Member{
			Name:      probe.Name,
			Email:     probe.Email,
			Contact:   probe.Contact,
			Branch:    probe.Branch,
			Semester:  probe.Semester,
			Institute: probe.Institute,
		}
	case probe.Leader != nil:
		p.Kind = PayloadTeam
		p.Leader = probe.Leader
		p.Members = probe.Members
	case probe.Participants != nil:
		p.Kind = PayloadParticipantList
		p.Participants = probe.Participants
		p.Institute = probe.Institute
	default:
		return fmt.Errorf("registration payload matches no known shape")
	}
	return nil
}

// PrimaryMember returns the single participant or team leader, or the first
// entry of a participant list. Returns nil when the payload has no usable entry.
func (p *RegistrationPayload) PrimaryMember() *Member {
	switch p.Kind {
	case PayloadSingle:
		return p.Single
	case PayloadTeam:
		return p.Leader
	case PayloadParticipantList:
		if len(p.Participants) > 0 {
			return &p.Participants[0]
		}
	}
	return nil
}

// PrimaryInstitute returns the institute attached to the payload's primary entry.
func (p *RegistrationPayload) PrimaryInstitute() string {
	switch p.Kind {
	case PayloadSingle:
		if p.Single != nil {
			return p.Single.Institute
		}
	case PayloadTeam:
		if p.Leader != nil {
			return p.Leader.Institute
		}
	case PayloadParticipantList:
		if p.Institute != "" {
			return p.Institute
		}
		if len(p.Participants) > 0 {
			return p.Participants[0].Institute
		}
	}
	return ""
}

// Registration is journaled before payment is attempted and never deleted.
type Registration struct {
	ID                string              `json:"id"`
	Event             string              `json:"event"` // event slug
	ParticipantsCount int                 `json:"participantsCount"`
	AmountPaid        int                 `json:"amountPaid"` // rupees
	Payload           RegistrationPayload `json:"payload"`
	CreatedAt         string              `json:"createdAt"` // ISO-8601
}

// PaymentRecord is created only inside the checkout success callback and is
// immutable once journaled. The razorpay_* fields are canonical; the bare
// payment_id/order_id/signature duplicates exist only in the JSON encoding as a
// compatibility shim for journal readers written against the old layout.
type PaymentRecord struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	Amount            int64  `json:"amount"` // paise
	Currency          string `json:"currency"`
	Status            string `json:"status"`
	CreatedAt         string `json:"created_at"`
	RegistrationID    string `json:"registration_id"`
	Event             string `json:"event"`
}

type paymentRecordJSON struct {
	PaymentID         string `json:"payment_id,omitempty"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	OrderID           string `json:"order_id,omitempty"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	Signature         string `json:"signature,omitempty"`
	RazorpaySignature string `json:"razorpay_signature"`
	Amount            int64  `json:"amount"`
	Currency          string `json:"currency"`
	Status            string `json:"status"`
	CreatedAt         string `json:"created_at"`
	RegistrationID    string `json:"registration_id"`
	Event             string `json:"event"`
}

func (r PaymentRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(paymentRecordJSON{
		PaymentID:         r.RazorpayPaymentID,
		RazorpayPaymentID: r.RazorpayPaymentID,
		OrderID:           r.RazorpayOrderID,
		RazorpayOrderID:   r.RazorpayOrderID,
		Signature:         r.RazorpaySignature,
		RazorpaySignature: r.RazorpaySignature,
		Amount:            r.Amount,
		Currency:          r.Currency,
		Status:            r.Status,
		CreatedAt:         r.CreatedAt,
		RegistrationID:    r.RegistrationID,
		Event:             r.Event,
	})
}

func (r *PaymentRecord) UnmarshalJSON(data []byte) error {
	var raw paymentRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.RazorpayPaymentID = firstNonEmpty(raw.RazorpayPaymentID, raw.PaymentID)
	r.RazorpayOrderID = firstNonEmpty(raw.RazorpayOrderID, raw.OrderID)
	r.RazorpaySignature = firstNonEmpty(raw.RazorpaySignature, raw.Signature)
	r.Amount = raw.Amount
	r.Currency = raw.Currency
	r.Status = raw.Status
	r.CreatedAt = raw.CreatedAt
	r.RegistrationID = raw.RegistrationID
	r.Event = raw.Event
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// PaymentStatusSuccess is the only status a PaymentRecord ever carries; failed
// payments never produce a record.
const PaymentStatusSuccess = "success"

// FailedSubmissionRecord captures a submission that failed after a successful
// payment. Informational only; retries are a manual/support action.
type FailedSubmissionRecord struct {
	Payload   SubmissionPayload `json:"payload"`
	Error     string            `json:"error"`
	Stage     string            `json:"stage,omitempty"`
	Timestamp string            `json:"timestamp"`
}
