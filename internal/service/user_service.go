package service

import (
	"errors"
	"sync"
	"time"

	"masteryloop_backend/internal/model"
	"masteryloop_backend/internal/util"
	"masteryloop_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore is the persistence surface the user service needs.
type UserStore interface {
	Create(user *model.User) error
	First() (*model.User, error)
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	TouchLastLogin(id uint) error
}

// UserService manages the single-learner account model: a default guest
// user created on first contact, later personalized through setup.
type UserService struct {
	store     UserStore
	jwtSecret string
	jwtExpire time.Duration

	mu sync.Mutex // serializes default-user creation
}

func NewUserService(store UserStore, jwtSecret string, jwtExpire time.Duration) *UserService {
	return &UserService{store: store, jwtSecret: jwtSecret, jwtExpire: jwtExpire}
}

// SetupInput is the onboarding payload that personalizes the default user.
type SetupInput struct {
	Name          string `json:"name"`
	Goal          string `json:"goal"`
	Subject       string `json:"subject"`
	Level         string `json:"level"`
	DailyTime     string `json:"dailyTime"`
	LearningStyle string `json:"learningStyle"`
}

// GetOrCreateDefaultUser returns the resident user, creating the guest
// account exactly once. Concurrent first calls observe the same row.
func (s *UserService) GetOrCreateDefaultUser() (*model.User, error) {
	user, err := s.store.First()
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the lock: another request may have won the race.
	user, err = s.store.First()
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &model.User{
		Name:  model.DefaultUserName,
		Email: model.DefaultUserEmail,
	}
	if err := s.store.Create(user); err != nil {
		return nil, err
	}
	logger.Log.Info("created default user", zap.Uint("id", user.ID))
	return user, nil
}

// Setup applies onboarding answers to the default user.
func (s *UserService) Setup(input SetupInput) (*model.User, error) {
	user, err := s.GetOrCreateDefaultUser()
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	user.Goal = input.Goal
	user.Subject = input.Subject
	user.Level = input.Level
	user.DailyTime = input.DailyTime
	user.LearningStyle = input.LearningStyle

	if err := s.store.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns the user by id.
func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.store.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Register creates a named account with credential login alongside the
// guest identity.
func (s *UserService) Register(name, email, password string) (*model.User, error) {
	if _, err := s.store.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.store.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *UserService) Login(email, password string) (*model.User, string, error) {
	user, err := s.store.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", util.ErrUnauthorized
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", util.ErrUnauthorized
	}

	token, err := util.GenerateJWT(user, s.jwtSecret, s.jwtExpire)
	if err != nil {
		return nil, "", err
	}

	if err := s.store.TouchLastLogin(user.ID); err != nil {
		logger.Log.Warn("touch last login failed", zap.Uint("user", user.ID), zap.Error(err))
	}
	return user, token, nil
}

// ChangePassword verifies the current password and installs a new one. The
// guest account has no password and cannot be converted here.
func (s *UserService) ChangePassword(userID uint, current, next string) error {
	user, err := s.store.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return util.ErrUnauthorized
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.store.Update(user)
}

// GuestSession issues a token for the default user so the dashboard works
// without registration.
func (s *UserService) GuestSession() (*model.User, string, error) {
	user, err := s.GetOrCreateDefaultUser()
	if err != nil {
		return nil, "", err
	}
	token, err := util.GenerateJWT(user, s.jwtSecret, s.jwtExpire)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
