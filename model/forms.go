package model

// Form structs mirror the per-event registration forms. Validation runs through
// utils/validation using the struct tags below before a registration is journaled.

// MemberForm is a team member entry.
type MemberForm struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Contact  string `json:"contact" validate:"required,len=10,numeric"`
	Branch   string `json:"branch" validate:"required"`
	Semester string `json:"semester" validate:"required"`
}

// LeaderForm extends a member with the institute field.
type LeaderForm struct {
	MemberForm
	Institute string `json:"institute" validate:"required"`
}

// SingleParticipantForm covers solo events (BlindTyping, RoboRace, AutoCAD).
type SingleParticipantForm struct {
	Name      string `json:"name" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Contact   string `json:"contact" validate:"required,len=10,numeric"`
	Branch    string `json:"branch" validate:"required"`
	Semester  string `json:"semester" validate:"required"`
	Institute string `json:"institute" validate:"required"`
}

// TeamForm covers open-size team events (HackYourWay, BridgeBuilding).
type TeamForm struct {
	Leader  LeaderForm   `json:"leader" validate:"required"`
	Members []MemberForm `json:"members" validate:"required,min=1,dive"`
}

// DuoForm is a leader plus exactly one member.
type DuoForm struct {
	Leader  LeaderForm   `json:"leader" validate:"required"`
	Members []MemberForm `json:"members" validate:"required,len=1,dive"`
}

// TechnicalMimicForm requires exactly three members besides the leader.
type TechnicalMimicForm struct {
	Leader  LeaderForm   `json:"leader" validate:"required"`
	Members []MemberForm `json:"members" validate:"required,len=3,dive"`
}

func (f *SingleParticipantForm) ToPayload() RegistrationPayload {
	return RegistrationPayload{
		Kind: PayloadSingle,
		Single: &Member{
			Name:      f.Name,
			Email:     f.Email,
			Contact:   f.Contact,
			Branch:    f.Branch,
			Semester:  f.Semester,
			Institute: f.Institute,
		},
	}
}

func (f *TeamForm) ToPayload() RegistrationPayload {
	return teamPayload(f.Leader, f.Members)
}

func (f *DuoForm) ToPayload() RegistrationPayload {
	return teamPayload(f.Leader, f.Members)
}

func (f *TechnicalMimicForm) ToPayload() RegistrationPayload {
	return teamPayload(f.Leader, f.Members)
}

func teamPayload(leader LeaderForm, members []MemberForm) RegistrationPayload {
	out := RegistrationPayload{
		Kind: PayloadTeam,
		Leader: &Member{
			Name:      leader.Name,
			Email:     leader.Email,
			Contact:   leader.Contact,
			Branch:    leader.Branch,
			Semester:  leader.Semester,
			Institute: leader.Institute,
		},
	}
	for _, m := range members {
		out.Members = append(out.Members, Member{
			Name:     m.Name,
			Email:    m.Email,
			Contact:  m.Contact,
			Branch:   m.Branch,
			Semester: m.Semester,
		})
	}
	return out
}
