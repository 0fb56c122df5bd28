package service

import (
	"errors"

	"ridgeworks/config"
	"ridgeworks/internal/auth"
	"ridgeworks/internal/domain"
	"ridgeworks/internal/models"
	"ridgeworks/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
)

type AuthService struct {
	cfg           *config.Config
	userRepo      *repository.UserRepository
	clientRepo    *repository.ClientRepository
	affiliateRepo *repository.AffiliateRepository
	log           *zap.SugaredLogger
}

func NewAuthService(
	cfg *config.Config,
	userRepo *repository.UserRepository,
	clientRepo *repository.ClientRepository,
	affiliateRepo *repository.AffiliateRepository,
	log *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		cfg:           cfg,
		userRepo:      userRepo,
		clientRepo:    clientRepo,
		affiliateRepo: affiliateRepo,
		log:           log,
	}
}

// Register creates a user account. Client signups get a Client record
// (linking an existing one by email if the admin created it first) and
// referral-code attribution; affiliate signups get an Affiliate record with
// a fresh referral code.
func (s *AuthService) Register(name, email, password, role, referralCode string) (*models.User, string, string, error) {
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, "", "", ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}

	switch role {
	case domain.RoleClient:
		s.attachClientRecord(u, referralCode)
	case domain.RoleAffiliate:
		rate := s.cfg.Commission.DefaultRate
		if err := s.affiliateRepo.Create(&models.Affiliate{
			UserID:         u.ID,
			CommissionRate: rate,
			IsActive:       true,
		}); err != nil {
			s.log.Errorw("auth: create affiliate record", "user_id", u.ID, "err", err)
		}
	}

	access, refresh, err := s.issueTokens(u)
	return u, access, refresh, err
}

// attachClientRecord links the new login to an existing client row created
// by an admin, or creates one. Referral attribution is recorded once and
// never overwritten.
func (s *AuthService) attachClientRecord(u *models.User, referralCode string) {
	var referredBy *uint
	if referralCode != "" {
		if af, err := s.affiliateRepo.GetByReferralCode(referralCode); err == nil {
			referredBy = &af.ID
		}
	}
	if existing, err := s.clientRepo.GetByEmail(u.Email); err == nil {
		if existing.UserID == nil {
			existing.UserID = &u.ID
			if existing.ReferredByID == nil {
				existing.ReferredByID = referredBy
			}
			if err := s.clientRepo.Update(existing); err != nil {
				s.log.Errorw("auth: link client record", "user_id", u.ID, "err", err)
			}
		}
		return
	}
	if err := s.clientRepo.Create(&models.Client{
		UserID:       &u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ReferredByID: referredBy,
	}); err != nil {
		s.log.Errorw("auth: create client record", "user_id", u.ID, "err", err)
	}
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, refresh, err := s.issueTokens(u)
	return u, access, refresh, err
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (*models.User, string, string, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, "", "", auth.ErrInvalidToken
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, "", "", auth.ErrInvalidToken
	}
	access, refresh, err := s.issueTokens(u)
	return u, access, refresh, err
}

func (s *AuthService) ChangePassword(userID uint, current, next string) error {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCreds
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.userRepo.Update(u)
}

// LoginOrCreateGoogleUser links Google sign-ins to accounts, creating a
// client account on first sign-in.
func (s *AuthService) LoginOrCreateGoogleUser(googleID, email, name, avatarURL, referralCode string) (*models.User, string, string, error) {
	if u, err := s.userRepo.GetByGoogleID(googleID); err == nil {
		access, refresh, err := s.issueTokens(u)
		return u, access, refresh, err
	}
	if u, err := s.userRepo.GetByEmail(email); err == nil {
		u.GoogleID = &googleID
		if u.AvatarURL == "" {
			u.AvatarURL = avatarURL
		}
		if err := s.userRepo.Update(u); err != nil {
			return nil, "", "", err
		}
		access, refresh, err := s.issueTokens(u)
		return u, access, refresh, err
	}
	u := &models.User{
		Name:      name,
		Email:     email,
		Role:      domain.RoleClient,
		GoogleID:  &googleID,
		AvatarURL: avatarURL,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	s.attachClientRecord(u, referralCode)
	access, refresh, err := s.issueTokens(u)
	return u, access, refresh, err
}

func (s *AuthService) issueTokens(u *models.User) (string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
