package usecase

import (
	"errors"
	"fmt"
	"store_service/internal/domain"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserUseCase interface {
	RegisterUser(username, password, confirmPassword string) (*domain.User, error)
	AuthenticateUser(username, password string) (*domain.User, error)
	GetUserByID(id int64) (*domain.User, error)
}

type userUseCase struct {
	userRepo domain.UserRepository
	log      *logrus.Logger
}

func NewUserUseCase(repo domain.UserRepository, logger *logrus.Logger) UserUseCase {
	return &userUseCase{
		userRepo: repo,
		log:      logger,
	}
}

// RegisterUser handles user registration, including validation and password hashing
func (uc *userUseCase) RegisterUser(username, password, confirmPassword string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	uc.log.Infof("Use Case: Attempting registration for username: %s", username)

	if username == "" || password == "" || confirmPassword == "" {
		uc.log.Warn("Use Case: Registration failed - empty fields")
		return nil, domain.NewValidationError("Todos los campos son obligatorios.")
	}
	if password != confirmPassword {
		uc.log.Warnf("Use Case: Registration failed - password confirmation mismatch for %s", username)
		return nil, domain.NewValidationError("Error: Las contraseñas no coinciden. Por favor, revísalas.")
	}
	if len(password) < 8 {
		uc.log.Warnf("Use Case: Registration failed - password too short for %s", username)
		return nil, domain.NewValidationError("La contraseña debe tener al menos 8 caracteres.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", username, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	newUser := &domain.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	createdUser, err := uc.userRepo.CreateUser(newUser)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			uc.log.Warnf("Use Case: Registration failed - username already taken: %s", username)
			return nil, domain.NewValidationError("El nombre de usuario ya existe. Por favor, elige otro.")
		}
		uc.log.Errorf("Use Case: Repository failed to create user %s: %v", username, err)
		return nil, err
	}

	uc.log.Infof("Use Case: User registered successfully. ID: %d, Username: %s", createdUser.ID, createdUser.Username)
	return createdUser, nil
}

// AuthenticateUser verifies credentials. Unknown username and wrong password
// both come back as ErrInvalidCredentials.
func (uc *userUseCase) AuthenticateUser(username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	uc.log.Infof("Use Case: Attempting authentication for username: %s", username)

	if username == "" || password == "" {
		uc.log.Warnf("Use Case: Auth failed - empty username or password for %s", username)
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.userRepo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Auth failed - user not found: %s", username)
			return nil, domain.ErrInvalidCredentials
		}
		uc.log.Errorf("Use Case: Error retrieving user %s during auth: %v", username, err)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Use Case: Auth failed - incorrect password for user %s (ID: %d)", username, user.ID)
			return nil, domain.ErrInvalidCredentials
		}
		uc.log.Errorf("Use Case: Error comparing password hash for user %s: %v", username, err)
		return nil, fmt.Errorf("internal error during authentication: %w", err)
	}

	uc.log.Infof("Use Case: Authentication successful for user %s (ID: %d)", username, user.ID)
	return user, nil
}

func (uc *userUseCase) GetUserByID(id int64) (*domain.User, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Get user failed - invalid user ID: %d", id)
		return nil, domain.ErrNotFound
	}

	user, err := uc.userRepo.GetUserByID(id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get user for ID %d: %v", id, err)
		return nil, err
	}

	return user, nil
}
