package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmitRequest() SubmitRegistrationRequest {
	return SubmitRegistrationRequest{
		RegistrationInfo: RegistrationInfo{
			TicketType:  &TicketType{Type: "full"},
			TicketLevel: &TicketLevel{Level: "standard"},
			PersonalInfo: &PersonalInfo{
				Nickname:        "Foxface",
				FirstName:       "Maria",
				LastName:        "Mustermann",
				DateOfBirth:     "1995-04-12",
				SpokenLanguages: []string{"de", "en"},
			},
			ContactInfo: &ContactInfo{
				Email:       "maria@example.com",
				PhoneNumber: "+49 111 222333",
				Street:      "Teststrasse 24",
				City:        "Berlin",
				PostalCode:  "12345",
				Country:     "DE",
			},
		},
	}
}

func TestSubmitRegistrationRequest_Validate(t *testing.T) {
	req := validSubmitRequest()
	assert.NoError(t, req.Validate())
}

func TestSubmitRegistrationRequest_Validate_MissingSections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmitRegistrationRequest)
	}{
		{"no ticket type", func(r *SubmitRegistrationRequest) { r.TicketType = nil }},
		{"no ticket level", func(r *SubmitRegistrationRequest) { r.TicketLevel = nil }},
		{"no personal info", func(r *SubmitRegistrationRequest) { r.PersonalInfo = nil }},
		{"no contact info", func(r *SubmitRegistrationRequest) { r.ContactInfo = nil }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validSubmitRequest()
			tc.mutate(&req)
			assert.Error(t, req.Validate())
		})
	}
}

func TestTicketType_Validate(t *testing.T) {
	assert.NoError(t, (&TicketType{Type: "full"}).Validate())
	assert.NoError(t, (&TicketType{Type: "day", Day: "2026-08-28"}).Validate())

	assert.Error(t, (&TicketType{}).Validate())
	assert.Error(t, (&TicketType{Type: "weekend"}).Validate())
	assert.Error(t, (&TicketType{Type: "day"}).Validate())
	assert.Error(t, (&TicketType{Type: "day", Day: "next friday"}).Validate())
}

func TestPersonalInfo_Validate_Nickname(t *testing.T) {
	base := func(nickname string) *PersonalInfo {
		return &PersonalInfo{
			Nickname:        nickname,
			FirstName:       "Maria",
			LastName:        "Mustermann",
			DateOfBirth:     "1995-04-12",
			SpokenLanguages: []string{"de"},
		}
	}

	assert.NoError(t, base("Foxface").Validate())
	assert.NoError(t, base("Fox 2.0_the-best").Validate())
	assert.NoError(t, base("x9").Validate())

	// At least one letter, only the allowed punctuation, 2-80 characters.
	require.Error(t, base("42").Validate())
	require.Error(t, base("F").Validate())
	require.Error(t, base("Fox!face").Validate())
	require.Error(t, base("Füchschen").Validate())
}

func TestPersonalInfo_Validate_DateOfBirth(t *testing.T) {
	info := &PersonalInfo{
		Nickname:        "Foxface",
		FirstName:       "Maria",
		LastName:        "Mustermann",
		DateOfBirth:     "12.04.1995",
		SpokenLanguages: []string{"de"},
	}

	assert.Error(t, info.Validate())
}

func TestContactInfo_Validate(t *testing.T) {
	valid := &ContactInfo{
		Email:       "maria@example.com",
		PhoneNumber: "+49 111 222333",
		Street:      "Teststrasse 24",
		City:        "Berlin",
		PostalCode:  "12345",
		Country:     "DE",
	}
	assert.NoError(t, valid.Validate())

	invalidEmail := *valid
	invalidEmail.Email = "not-an-email"
	assert.Error(t, invalidEmail.Validate())

	invalidCountry := *valid
	invalidCountry.Country = "Germany"
	assert.Error(t, invalidCountry.Validate())
}

func TestSaveDraftRequest_Validate(t *testing.T) {
	assert.NoError(t, (&SaveDraftRequest{}).Validate())

	assert.NoError(t, (&SaveDraftRequest{
		RegistrationInfo: RegistrationInfo{
			ContactInfo: &ContactInfo{Email: "maria@example.com"},
		},
	}).Validate())

	assert.Error(t, (&SaveDraftRequest{
		RegistrationInfo: RegistrationInfo{
			TicketType: &TicketType{Type: "weekend"},
		},
	}).Validate())

	assert.Error(t, (&SaveDraftRequest{
		RegistrationInfo: RegistrationInfo{
			ContactInfo: &ContactInfo{Email: "not-an-email"},
		},
	}).Validate())
}

func TestRegistrationInfo_ToSerialized(t *testing.T) {
	req := validSubmitRequest()
	req.TicketType = &TicketType{Type: "day", Day: "2026-08-28"}
	req.PreferredLocale = "de-DE"

	serialized := req.ToSerialized()

	require.NotNil(t, serialized)
	assert.Equal(t, "de-DE", serialized.PreferredLocale)

	require.NotNil(t, serialized.TicketType)
	assert.Equal(t, "day", serialized.TicketType.Type)
	assert.Equal(t, "2026-08-28", serialized.TicketType.Day)

	require.NotNil(t, serialized.PersonalInfo)
	assert.Equal(t, "1995-04-12", serialized.PersonalInfo.DateOfBirth)

	require.NotNil(t, serialized.ContactInfo)
	assert.Equal(t, "maria@example.com", serialized.ContactInfo.Email)

	assert.Nil(t, serialized.OptionalInfo)
}
