package usecase

import (
	"fmt"
	"strings"

	"storefront_service/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var _ domain.UserUseCase = (*userUseCase)(nil)

type userUseCase struct {
	userRepo domain.UserRepository
	log      *logrus.Logger
}

func NewUserUseCase(repo domain.UserRepository, logger *logrus.Logger) domain.UserUseCase {
	return &userUseCase{
		userRepo: repo,
		log:      logger,
	}
}

func (uc *userUseCase) Register(name, email, address, phoneNumber, password string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	uc.log.Infof("Use Case: Attempting registration for email: %s", email)

	if name == "" || email == "" || address == "" || phoneNumber == "" || password == "" {
		return nil, domain.NewValidationError("name, email, address, phone number and password must not be missing")
	}
	if !isValidEmail(email) {
		return nil, domain.NewValidationError("invalid email format")
	}
	if len(password) < 8 {
		return nil, domain.NewValidationError("password must be at least 8 characters long")
	}
	if role == "" {
		role = domain.RoleCustomer
	}
	if !domain.IsValidRole(role) {
		return nil, domain.NewValidationError("unknown role: %s", role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", email, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	created, err := uc.userRepo.CreateUser(&domain.User{
		Name:         name,
		Email:        email,
		Address:      address,
		PhoneNumber:  phoneNumber,
		Role:         role,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to create user %s: %v", email, err)
		return nil, err
	}

	uc.log.Infof("Use Case: User registered with ID: %d, Email: %s", created.ID, created.Email)
	return created, nil
}

func (uc *userUseCase) Login(email, password string) (*domain.AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	uc.log.Infof("Use Case: Attempting authentication for email: %s", email)

	if email == "" || password == "" {
		return nil, domain.NewValidationError("email and password must not be missing")
	}

	user, err := uc.userRepo.GetUserByEmail(email)
	if err != nil {
		uc.log.Warnf("Use Case: Auth failed, user lookup error for %s: %v", email, err)
		return nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.log.Warnf("Use Case: Auth failed, wrong password for user %s (ID: %d)", email, user.ID)
		return nil, domain.NewValidationError("email or password wrong")
	}

	// Session token is an opaque UUID persisted on the user row; the auth
	// middleware resolves it back to the user on every request.
	token := uuid.NewString()
	if err = uc.userRepo.SetToken(user.ID, token); err != nil {
		uc.log.Errorf("Use Case: Failed to persist token for user %d: %v", user.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Authentication successful for user %s (ID: %d)", email, user.ID)
	return &domain.AuthResponse{
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}

func (uc *userUseCase) Logout(userID int, callerRole domain.Role) error {
	if err := domain.RequireRole(domain.AnyRole, callerRole); err != nil {
		return err
	}
	if err := uc.userRepo.ClearToken(userID); err != nil {
		uc.log.Warnf("Use Case: Failed to clear token for user %d: %v", userID, err)
		return err
	}
	uc.log.Infof("Use Case: User %d logged out", userID)
	return nil
}

func (uc *userUseCase) GetUserByToken(token string) (*domain.User, error) {
	if token == "" {
		return nil, &domain.NotFoundError{Resource: "session"}
	}
	return uc.userRepo.GetUserByToken(token)
}

func (uc *userUseCase) GetUserByID(userID int, callerRole domain.Role) (*domain.User, error) {
	if err := domain.RequireRole(domain.AdminOnly, callerRole); err != nil {
		return nil, err
	}
	return uc.userRepo.GetUserByID(userID)
}

func (uc *userUseCase) ListUsers(nameFilter string, callerRole domain.Role) ([]domain.User, error) {
	if err := domain.RequireRole(domain.AdminOnly, callerRole); err != nil {
		return nil, err
	}
	return uc.userRepo.ListUsers(nameFilter)
}

func (uc *userUseCase) UpdateUser(user *domain.User, password string, callerRole domain.Role) (*domain.User, error) {
	existing, err := uc.userRepo.GetUserByID(user.ID)
	if err != nil {
		return nil, err
	}

	if user.Name == "" {
		user.Name = existing.Name
	}
	if user.Email == "" {
		user.Email = existing.Email
	} else {
		user.Email = strings.ToLower(strings.TrimSpace(user.Email))
		if !isValidEmail(user.Email) {
			return nil, domain.NewValidationError("invalid email format")
		}
	}
	if user.Address == "" {
		user.Address = existing.Address
	}
	if user.PhoneNumber == "" {
		user.PhoneNumber = existing.PhoneNumber
	}

	// Only an admin may change a role.
	if user.Role != "" && user.Role != existing.Role {
		if callerRole != domain.RoleAdmin {
			return nil, domain.ErrUnauthorized
		}
		if !domain.IsValidRole(user.Role) {
			return nil, domain.NewValidationError("unknown role: %s", user.Role)
		}
	} else {
		user.Role = existing.Role
	}

	if password != "" {
		if len(password) < 8 {
			return nil, domain.NewValidationError("password must be at least 8 characters long")
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			uc.log.Errorf("Use Case: Failed to hash password for user %d: %v", user.ID, err)
			return nil, fmt.Errorf("internal error processing password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	} else {
		user.PasswordHash = existing.PasswordHash
	}

	updated, err := uc.userRepo.UpdateUser(user)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to update user %d: %v", user.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: User %d updated", updated.ID)
	return updated, nil
}

func (uc *userUseCase) DeleteUser(userID int, callerRole domain.Role) error {
	if err := domain.RequireRole(domain.AdminOnly, callerRole); err != nil {
		return err
	}
	if err := uc.userRepo.DeleteUser(userID); err != nil {
		uc.log.Warnf("Use Case: Failed to delete user %d: %v", userID, err)
		return err
	}
	uc.log.Infof("Use Case: User %d deleted", userID)
	return nil
}

func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	domainParts := strings.Split(parts[1], ".")
	return len(domainParts) >= 2 && domainParts[0] != "" && domainParts[len(domainParts)-1] != ""
}
