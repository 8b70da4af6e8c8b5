package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/apvcouncil/technocratz-registration/model"
	"github.com/apvcouncil/technocratz-registration/storage"
	"github.com/apvcouncil/technocratz-registration/utils/validation"
)

// RegistrationService turns a validated form payload into a journaled pending
// registration. The registration is written before payment is attempted and is
// never deleted; the checkout flow amends the journal with the outcome.
type RegistrationService struct {
	journal       *storage.Journal
	validator     *validation.Validator
	ratePerPerson int
}

func NewRegistrationService(journal *storage.Journal, ratePerPerson int) *RegistrationService {
	return &RegistrationService{
		journal:       journal,
		validator:     validation.NewValidator(),
		ratePerPerson: ratePerPerson,
	}
}

// ValidateForm runs struct-tag validation on one of the per-event form types.
func (s *RegistrationService) ValidateForm(form interface{}) map[string]string {
	if err := s.validator.ValidateStruct(form); err != nil {
		return validation.FormatValidationErrors(err)
	}
	return nil
}

// ParticipantCount counts the people a payload registers; members with empty
// names are unfilled slots and do not count.
func ParticipantCount(payload *model.RegistrationPayload) int {
	switch payload.Kind {
	case model.PayloadSingle:
		if payload.Single != nil {
			return 1
		}
	case model.PayloadTeam:
		count := 0
		if payload.Leader != nil {
			count++
		}
		for _, m := range payload.Members {
			if m.Name != "" {
				count++
			}
		}
		return count
	case model.PayloadParticipantList:
		count := 0
		for _, m := range payload.Participants {
			if m.Name != "" {
				count++
			}
		}
		return count
	}
	return 0
}

// Register journals a pending registration for the given event slug and
// returns it. Journal write failures propagate; payment must not start without
// the optimistic record.
func (s *RegistrationService) Register(ctx context.Context, eventSlug string, payload model.RegistrationPayload) (*model.Registration, error) {
	count := ParticipantCount(&payload)
	if count < 1 {
		return nil, fmt.Errorf("registration has no participants")
	}

	reg := model.Registration{
		ID:                s.journal.GenerateID(),
		Event:             eventSlug,
		ParticipantsCount: count,
		AmountPaid:        CalculateAmount(s.ratePerPerson, count),
		Payload:           payload,
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.journal.AppendRegistration(ctx, reg); err != nil {
		return nil, err
	}

	log.Printf("[Registration] Journaled registration %s: event=%s participants=%d amount=%d",
		reg.ID, reg.Event, reg.ParticipantsCount, reg.AmountPaid)
	return &reg, nil
}
