package ledger

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/minibank/internal/domain"
	"github.com/vadiminshakov/minibank/internal/storage/records"
	"go.uber.org/zap"
)

var (
	profileMobilePattern = regexp.MustCompile(`^[+]?[6-9]\d{9,14}$`)
	emailPattern         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ProfileUpdate carries the editable profile fields. Nil optional fields keep their value.
type ProfileUpdate struct {
	Name         string
	Email        string
	Mobile       string
	Address      *string
	DOB          *string
	ProfilePhoto *string
}

// UpdateProfile validates and stores the profile fields. Balance and gold are never touched
// and no transaction is recorded.
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (domain.User, error) {
	const op = "update_profile"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateProfile(update); err != nil {
		return domain.User{}, s.rejected(op, err)
	}

	user, err := s.store.User(ctx)
	if err != nil {
		return domain.User{}, errors.Wrap(err, "load user")
	}

	user.Name = strings.TrimSpace(update.Name)
	user.Email = strings.TrimSpace(update.Email)
	user.Mobile = strings.TrimSpace(update.Mobile)
	if update.Address != nil {
		user.Address = *update.Address
	}
	if update.DOB != nil {
		user.DOB = *update.DOB
	}
	if update.ProfilePhoto != nil {
		user.ProfilePhoto = *update.ProfilePhoto
	}

	if err := s.store.Commit(ctx, records.Change{User: &user}); err != nil {
		s.logger.Error("failed to update profile", zap.Error(err))
		return domain.User{}, errors.Wrap(err, "update profile")
	}

	s.logger.Info("profile updated", zap.String("email", user.Email))
	return user, nil
}

func validateProfile(update ProfileUpdate) error {
	if strings.TrimSpace(update.Name) == "" ||
		strings.TrimSpace(update.Email) == "" ||
		strings.TrimSpace(update.Mobile) == "" {
		return reject(ReasonMissingField, "Please fill in all required fields")
	}
	if !profileMobilePattern.MatchString(strings.Join(strings.Fields(update.Mobile), "")) {
		return reject(ReasonInvalidMobile, "Please enter a valid mobile number")
	}
	if !emailPattern.MatchString(strings.TrimSpace(update.Email)) {
		return reject(ReasonInvalidEmail, "Please enter a valid email address")
	}
	return nil
}
