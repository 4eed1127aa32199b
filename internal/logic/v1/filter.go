package v1

import "github.com/duynhne/contact-service/internal/core/domain"

// BuildFilter turns search criteria into a conjunction of equality predicates.
// Every set field adds one predicate; unset fields add none.
func BuildFilter(criteria domain.ContactSearchCriteria) domain.ContactFilter {
	filter := domain.ContactFilter{}

	if criteria.ContactID != nil {
		filter = append(filter, domain.ContactIDEquals(*criteria.ContactID))
	}
	if criteria.Email != "" {
		filter = append(filter, domain.EmailEquals(criteria.Email))
	}
	if criteria.PhoneNumber != "" {
		filter = append(filter, domain.PhoneEquals(criteria.PhoneNumber))
	}
	if criteria.Name != "" {
		filter = append(filter, domain.NameEquals(criteria.Name))
	}

	return filter
}
