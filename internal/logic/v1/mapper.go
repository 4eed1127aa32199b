package v1

import (
	"strings"

	"github.com/duynhne/contact-service/internal/core/domain"
)

// EntityToDto converts a stored contact into its external representation.
// A contact without an address maps to a DTO without an address.
func EntityToDto(entity *domain.Contact) domain.ContactDto {
	if entity == nil {
		return domain.ContactDto{}
	}

	id := entity.ContactID
	dto := domain.ContactDto{
		ContactID: &id,
		Name:      entity.Name,
		Email:     entity.Email,
		Phone:     entity.Phone,
	}
	if a := entity.Address; a != nil {
		dto.Address = &domain.AddressDto{
			Line1:   a.Line1,
			Line2:   a.Line2,
			City:    a.City,
			State:   blankToEmpty(a.State),
			ZipCode: a.ZipCode,
		}
	}
	return dto
}

// DtoToEntity converts an external contact into a storable one.
// The identity is left zero: storage assigns it on insert.
// Whitespace-only optional fields are stored as empty.
func DtoToEntity(dto domain.ContactDto) *domain.Contact {
	entity := &domain.Contact{
		Name:  dto.Name,
		Email: blankToEmpty(dto.Email),
		Phone: blankToEmpty(dto.Phone),
	}
	if a := dto.Address; a != nil {
		entity.Address = &domain.Address{
			Line1:   a.Line1,
			Line2:   a.Line2,
			City:    a.City,
			State:   blankToEmpty(a.State),
			ZipCode: a.ZipCode,
		}
	}
	return entity
}

// blankToEmpty collapses values that the validator accepts as blank.
func blankToEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
