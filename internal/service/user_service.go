// Package service implements the business rules on top of the
// repositories: input validation, duplicate checks and the
// authorization policy.
package service

import (
	"context"

	"microblog/internal/auth"
	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UpdateProfileInput carries a partial profile update; nil fields are
// left untouched.
type UpdateProfileInput struct {
	ActorID  uint
	UserID   uint
	Username *string
	Email    *string
	Name     *string
	Location *string
	AboutMe  *string
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register validates the whole payload at once and reports every failing
// field, then creates the account with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fields := map[string]string{}

	if err := validation.ValidateUsername(in.Username); err != nil {
		fields["username"] = "Please provide a valid username."
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		fields["email"] = "Please provide a valid email address."
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		fields["password"] = "Please provide a valid password."
	}

	if _, ok := fields["username"]; !ok {
		existing, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			fields["username"] = "Please use a different username."
		}
	}
	if _, ok := fields["email"]; !ok {
		existing, err := s.userRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			fields["email"] = "Please use a different email address."
		}
	}

	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks Basic credentials. The error never reveals
// whether the username exists.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, offset, limit)
}

// UpdateProfile applies a partial update. Only the user themselves may
// change their profile.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if in.ActorID != user.ID {
		return nil, models.NewForbiddenError()
	}

	fields := map[string]string{}
	if in.Username != nil {
		if err := validation.ValidateUsername(*in.Username); err != nil {
			fields["username"] = "Please provide a valid username."
		} else if *in.Username != user.Username {
			existing, err := s.userRepo.GetByUsername(ctx, *in.Username)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				fields["username"] = "Please use a different username."
			}
		}
	}
	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			fields["email"] = "Please provide a valid email address."
		} else if *in.Email != user.Email {
			existing, err := s.userRepo.GetByEmail(ctx, *in.Email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				fields["email"] = "Please use a different email address."
			}
		}
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Location != nil {
		user.Location = *in.Location
	}
	if in.AboutMe != nil {
		user.AboutMe = *in.AboutMe
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account and cascades to everything it owns.
// Self-only.
func (s *UserService) Delete(ctx context.Context, actorID, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if actorID != user.ID {
		return models.NewForbiddenError()
	}
	return s.userRepo.Delete(ctx, user.ID)
}
