package service

import (
	"context"

	dErrors "signup/pkg/domain-errors"
)

// checkUnique fails with a conflict when any profile already uses the
// username or the identifier (in either the email or phone column). This is
// advisory: two concurrent requests can both pass it, and the profile
// store's unique constraints decide the loser at insert time.
func (s *Service) checkUnique(ctx context.Context, username, identifier string) error {
	matches, err := s.profiles.FindByUsernameOrEmailOrPhone(ctx, username, identifier)
	if err != nil {
		s.logger.ErrorContext(ctx, "uniqueness query failed", "username", username, "error", err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check account uniqueness")
	}
	if len(matches) > 0 {
		return dErrors.New(dErrors.CodeConflict, "Username, email, or phone number already exists.")
	}
	return nil
}
