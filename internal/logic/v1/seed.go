package v1

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/duynhne/contact-service/internal/core/domain"
)

// demoContacts are inserted by SeedContacts into an empty store.
var demoContacts = []domain.ContactDto{
	{
		Name:  "Big Bird",
		Email: "big.bird@sesame.net",
		Phone: "9876543210",
		Address: &domain.AddressDto{
			Line1:   "123 Sesame St",
			City:    "New York",
			State:   "NY",
			ZipCode: "10023",
		},
	},
	{
		Name:  "Kermit Frog",
		Email: "kermit@sesame.net",
		Phone: "4444444444",
	},
	{
		Name:  "Miss Piggy",
		Email: "miss.piggy@sesame.net",
		Phone: "555-555-5555",
		Address: &domain.AddressDto{
			Line1:   "1 Swine Ln",
			Line2:   "Penthouse",
			City:    "Hollywood",
			State:   "CA",
			ZipCode: "90028",
		},
	},
}

// SeedContacts inserts the demo contacts when the store holds no contacts yet.
// It returns how many contacts were inserted.
func (s *ContactService) SeedContacts(ctx context.Context) (int, error) {
	total, err := s.repo.Count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("count contacts before seeding: %w", err)
	}
	if total > 0 {
		s.logger.Info("Skipping contact seed, store is not empty", zap.Int("contacts", total))
		return 0, nil
	}

	for i, dto := range demoContacts {
		_, failures, err := s.CreateContact(ctx, dto)
		if err != nil {
			return i, fmt.Errorf("seed contact %q: %w", dto.Name, err)
		}
		if len(failures) > 0 {
			return i, fmt.Errorf("seed contact %q: %s", dto.Name, failures.Join())
		}
	}

	s.logger.Info("Seeded demo contacts", zap.Int("contacts", len(demoContacts)))
	return len(demoContacts), nil
}
