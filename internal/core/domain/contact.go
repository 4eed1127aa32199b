package domain

import "github.com/duynhne/contact-service/internal/core/paging"

// Contact is the persisted representation of a contact.
// ContactID is assigned by storage on insert and never changes afterwards.
type Contact struct {
	ContactID int
	Name      string
	Email     string
	Phone     string
	Address   *Address
}

// Address is the postal address embedded in a Contact. A contact may have none.
type Address struct {
	Line1   string
	Line2   string
	City    string
	State   string
	ZipCode string
}

// ContactDto is the external representation of a contact.
type ContactDto struct {
	ContactID *int        `json:"contactId,omitempty"`
	Name      string      `json:"name" validate:"notblank"`
	Email     string      `json:"email" validate:"mailaddr"`
	Phone     string      `json:"phone" validate:"phone"`
	Address   *AddressDto `json:"address,omitempty"`
}

type AddressDto struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	City    string `json:"city"`
	State   string `json:"state" validate:"statecode"`
	ZipCode string `json:"zipCode"`
}

// ContactSearchCriteria holds optional equality filters plus paging.
// Unset filters impose no constraint; set filters are ANDed together.
type ContactSearchCriteria struct {
	ContactID   *int   `form:"contactId" json:"contactId,omitempty"`
	Name        string `form:"name" json:"name,omitempty"`
	Email       string `form:"email" json:"email,omitempty"`
	PhoneNumber string `form:"phoneNumber" json:"phoneNumber,omitempty"`
	paging.Parameters
}
