package model

// Participant is one entry in the canonical submission wire shape.
type Participant struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Semester   string `json:"semester"`
	Email      string `json:"email"`
	Contact    string `json:"contact"`
}

// SubmissionPayload is the canonical shape sent to the submission endpoint.
// The backend verifies the razorpay signature server-side, so all three payment
// identifiers are mandatory.
type SubmissionPayload struct {
	RazorpayPaymentID string        `json:"razorpay_payment_id"`
	RazorpayOrderID   string        `json:"razorpay_order_id"`
	RazorpaySignature string        `json:"razorpay_signature"`
	Competition       string        `json:"competition"`
	Institute         string        `json:"institute"`
	Participants      []Participant `json:"participants"`
}

// SubmissionResponse is the backend's reply to a submission POST. SrNo has
// appeared under two different keys across backend revisions.
type SubmissionResponse struct {
	Success bool   `json:"success"`
	Stage   string `json:"stage,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	SrNo    string `json:"srNo,omitempty"`
	SrNoAlt string `json:"sr_no,omitempty"`
}

// RegistrationNumber returns whichever serial-number field the backend filled.
func (r *SubmissionResponse) RegistrationNumber() string {
	return firstNonEmpty(r.SrNo, r.SrNoAlt)
}
