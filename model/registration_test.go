package model

import (
	"encoding/json"
	"testing"
)

func TestRegistrationPayloadSingleRoundTrip(t *testing.T) {
	payload := RegistrationPayload{
		Kind: PayloadSingle,
		Single: &Member{
			Name: "Asha Rao", Email: "asha@example.com", Contact: "9876543210",
			Branch: "Computer", Semester: "3", Institute: "Agnel Polytechnic",
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded RegistrationPayload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Kind != PayloadSingle {
		t.Fatalf("kind = %q, want single", decoded.Kind)
	}
	if decoded.Single == nil || decoded.Single.Name != "Asha Rao" || decoded.Single.Institute != "Agnel Polytechnic" {
		t.Errorf("single member lost: %+v", decoded.Single)
	}
}

func TestRegistrationPayloadTeamRoundTrip(t *testing.T) {
	payload := RegistrationPayload{
		Kind:   PayloadTeam,
		Leader: &Member{Name: "Asha Rao", Email: "asha@example.com", Contact: "9876543210", Branch: "Civil", Semester: "5", Institute: "Agnel Polytechnic"},
		Members: []Member{
			{Name: "Ravi Kumar", Email: "ravi@example.com", Contact: "9876543211", Branch: "Civil", Semester: "5"},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded RegistrationPayload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Kind != PayloadTeam {
		t.Fatalf("kind = %q, want team", decoded.Kind)
	}
	if decoded.Leader == nil || decoded.Leader.Name != "Asha Rao" {
		t.Errorf("leader lost: %+v", decoded.Leader)
	}
	if len(decoded.Members) != 1 || decoded.Members[0].Name != "Ravi Kumar" {
		t.Errorf("members lost: %+v", decoded.Members)
	}
}

func TestRegistrationPayloadParticipantListRoundTrip(t *testing.T) {
	payload := RegistrationPayload{
		Kind: PayloadParticipantList,
		Participants: []Member{
			{Name: "Asha Rao", Email: "asha@example.com", Contact: "9876543210", Branch: "IT", Semester: "4"},
			{Name: "Ravi Kumar", Email: "ravi@example.com", Contact: "9876543211", Branch: "IT", Semester: "4"},
		},
		Institute: "Agnel Polytechnic",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded RegistrationPayload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Kind != PayloadParticipantList {
		t.Fatalf("kind = %q, want participants", decoded.Kind)
	}
	if len(decoded.Participants) != 2 {
		t.Errorf("participants lost: %+v", decoded.Participants)
	}
	if decoded.Institute != "Agnel Polytechnic" {
		t.Errorf("institute = %q", decoded.Institute)
	}
}

func TestRegistrationPayloadUnknownShape(t *testing.T) {
	var decoded RegistrationPayload
	if err := json.Unmarshal([]byte(`{"something":"else"}`), &decoded); err == nil {
		t.Error("expected error for unknown payload shape")
	}
}

func TestPrimaryMemberAndInstitute(t *testing.T) {
	team := RegistrationPayload{
		Kind:   PayloadTeam,
		Leader: &Member{Name: "Asha Rao", Institute: "Agnel Polytechnic"},
	}
	if m := team.PrimaryMember(); m == nil || m.Name != "Asha Rao" {
		t.Errorf("team primary member: %+v", m)
	}
	if got := team.PrimaryInstitute(); got != "Agnel Polytechnic" {
		t.Errorf("team institute = %q", got)
	}

	empty := RegistrationPayload{Kind: PayloadParticipantList}
	if m := empty.PrimaryMember(); m != nil {
		t.Errorf("empty list primary member: %+v", m)
	}
	if got := empty.PrimaryInstitute(); got != "" {
		t.Errorf("empty list institute = %q", got)
	}
}

func TestPaymentRecordAliasEncoding(t *testing.T) {
	record := PaymentRecord{
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig_1",
		Amount:            100,
		Currency:          "INR",
		Status:            PaymentStatusSuccess,
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	// Compat shim: each identifier also appears under the legacy key.
	for canonical, alias := range map[string]string{
		"razorpay_payment_id": "payment_id",
		"razorpay_order_id":   "order_id",
		"razorpay_signature":  "signature",
	} {
		if raw[canonical] != raw[alias] {
			t.Errorf("%s (%v) != %s (%v)", canonical, raw[canonical], alias, raw[alias])
		}
	}
}

func TestPaymentRecordDecodesLegacyFields(t *testing.T) {
	legacy := []byte(`{"payment_id":"pay_9","order_id":"order_9","signature":"sig_9","amount":500,"currency":"INR","status":"success"}`)
	var record PaymentRecord
	if err := json.Unmarshal(legacy, &record); err != nil {
		t.Fatal(err)
	}
	if record.RazorpayPaymentID != "pay_9" || record.RazorpayOrderID != "order_9" || record.RazorpaySignature != "sig_9" {
		t.Errorf("legacy decode: %+v", record)
	}
}
