package validation

import (
	"strings"
	"testing"

	"github.com/apvcouncil/technocratz-registration/model"
)

func validPayload() *model.SubmissionPayload {
	return &model.SubmissionPayload{
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig_1",
		Competition:       "BlindTyping",
		Institute:         "Agnel Polytechnic",
		Participants: []model.Participant{
			{Name: "Asha Rao", Department: "Computer", Semester: "3", Email: "asha@example.com", Contact: "9876543210"},
		},
	}
}

func TestValidateSubmissionPayloadAcceptsValid(t *testing.T) {
	if err := ValidateSubmissionPayload(validPayload()); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
}

func TestValidateSubmissionPayloadMissingFields(t *testing.T) {
	cases := []struct {
		mutate  func(*model.SubmissionPayload)
		wantSub string
	}{
		{func(p *model.SubmissionPayload) { p.RazorpayPaymentID = "" }, "razorpay_payment_id"},
		{func(p *model.SubmissionPayload) { p.RazorpayOrderID = "" }, "razorpay_order_id"},
		{func(p *model.SubmissionPayload) { p.RazorpaySignature = "" }, "signature"},
		{func(p *model.SubmissionPayload) { p.Competition = "" }, "competition"},
		{func(p *model.SubmissionPayload) { p.Institute = "" }, "institute"},
		{func(p *model.SubmissionPayload) { p.Participants = nil }, "participants"},
	}
	for _, tc := range cases {
		p := validPayload()
		tc.mutate(p)
		err := ValidateSubmissionPayload(p)
		if err == nil {
			t.Errorf("expected error mentioning %q, got nil", tc.wantSub)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantSub) {
			t.Errorf("error %q does not mention %q", err.Error(), tc.wantSub)
		}
	}
}

func TestValidateSubmissionPayloadParticipantChecks(t *testing.T) {
	p := validPayload()
	p.Participants[0].Contact = "12345"
	err := ValidateSubmissionPayload(p)
	if err == nil || !strings.Contains(err.Error(), "participant 1 contact must be exactly 10 digits") {
		t.Errorf("short contact: %v", err)
	}

	p = validPayload()
	p.Participants[0].Email = "not-an-email"
	err = ValidateSubmissionPayload(p)
	if err == nil || !strings.Contains(err.Error(), "participant 1 email format is invalid") {
		t.Errorf("bad email: %v", err)
	}

	p = validPayload()
	p.Participants = append(p.Participants, model.Participant{
		Name: "Ravi Kumar", Department: "Computer", Semester: "3", Email: "ravi@example.com",
	})
	err = ValidateSubmissionPayload(p)
	if err == nil || !strings.Contains(err.Error(), "participant 2 missing contact") {
		t.Errorf("second participant index: %v", err)
	}
}

// Checks run in a fixed order; the first violation wins even when several exist.
func TestValidateSubmissionPayloadFailFastOrder(t *testing.T) {
	p := validPayload()
	p.RazorpaySignature = ""
	p.Institute = ""
	p.Participants[0].Email = "broken"
	err := ValidateSubmissionPayload(p)
	if err == nil || !strings.Contains(err.Error(), "signature") {
		t.Errorf("expected the signature violation first, got %v", err)
	}
}

func TestValidateFormStructTags(t *testing.T) {
	v := NewValidator()

	form := model.TeamForm{
		Leader: model.LeaderForm{
			MemberForm: model.MemberForm{Name: "Asha Rao", Email: "asha@example.com", Contact: "9876543210", Branch: "Civil", Semester: "5"},
			Institute:  "Agnel Polytechnic",
		},
		Members: []model.MemberForm{
			{Name: "Ravi Kumar", Email: "ravi@example.com", Contact: "9876543211", Branch: "Civil", Semester: "5"},
		},
	}
	if err := v.ValidateStruct(form); err != nil {
		t.Errorf("valid team form rejected: %v", err)
	}

	form.Members[0].Contact = "12345"
	err := v.ValidateStruct(form)
	if err == nil {
		t.Fatal("expected contact length violation")
	}
	fields := FormatValidationErrors(err)
	if _, ok := fields["contact"]; !ok {
		t.Errorf("formatted errors missing contact: %v", fields)
	}

	mimic := model.TechnicalMimicForm{
		Leader: form.Leader,
		Members: []model.MemberForm{
			{Name: "A", Email: "a@example.com", Contact: "9876543210", Branch: "IT", Semester: "1"},
		},
	}
	if err := v.ValidateStruct(mimic); err == nil {
		t.Error("technical mimic accepted with 1 member, want exactly 3")
	}
}
