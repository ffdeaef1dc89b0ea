package services

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charlotte58cafe/loyalty-be/config"
	"github.com/charlotte58cafe/loyalty-be/middleware"
	"github.com/charlotte58cafe/loyalty-be/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpTTL = 5 * time.Minute

type AuthService struct {
	sms SMSSender
}

func NewAuthService() *AuthService {
	return &AuthService{
		sms: NewSMSService(),
	}
}

// NewAuthServiceWithSender is used by tests to capture outgoing messages.
func NewAuthServiceWithSender(sms SMSSender) *AuthService {
	return &AuthService{sms: sms}
}

// SendOTP validates the phone number, stores a fresh 6-digit OTP valid for
// five minutes and sends it by SMS. Earlier unused OTPs for the same number
// are discarded.
func (s *AuthService) SendOTP(phone string) error {
	if !IsValidMobileNumber(phone) {
		return ErrInvalidPhoneNumber
	}
	normalized := NormalizePhoneNumber(phone)

	otp := fmt.Sprintf("%06d", 100000+rand.Intn(900000))

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("identifier = ?", normalized).
			Delete(&models.VerificationToken{}).Error; err != nil {
			return err
		}

		token := models.VerificationToken{
			Identifier: normalized,
			Token:      otp,
			Expires:    time.Now().Add(otpTTL),
		}
		return tx.Create(&token).Error
	})
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Your Charlotte 58Cafe verification code is %s (valid %d minutes)",
		otp, int(otpTTL.Minutes()))
	return s.sms.Send(normalized, message)
}

// VerifyOTP checks the code, consumes the token, creates the customer on
// first login and returns the user with a 7-day JWT.
func (s *AuthService) VerifyOTP(phone, otp string) (*models.User, string, error) {
	if !IsValidMobileNumber(phone) {
		return nil, "", ErrInvalidPhoneNumber
	}
	if len(otp) != 6 {
		return nil, "", ErrInvalidOTP
	}
	normalized := NormalizePhoneNumber(phone)

	var user models.User
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var token models.VerificationToken
		err := tx.Where("identifier = ? AND token = ? AND expires > ?",
			normalized, otp, time.Now()).
			First(&token).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidOTP
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&token).Error; err != nil {
			return err
		}

		err = tx.Where("phone_number = ?", normalized).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{PhoneNumber: normalized}
			return tx.Create(&user).Error
		}
		return err
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.generateCustomerToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// StaffLogin authenticates a staff member by email and password and returns
// a 24-hour JWT.
func (s *AuthService) StaffLogin(email, password string) (*models.Staff, string, error) {
	var staff models.Staff
	if err := config.DB.Where("email = ? AND is_active = ?", email, true).First(&staff).Error; err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateStaffToken(&staff)
	if err != nil {
		return nil, "", err
	}
	return &staff, token, nil
}

// CreateStaff registers a new staff account with a bcrypt-hashed password.
func (s *AuthService) CreateStaff(email, password, name string, role models.StaffRole) (*models.Staff, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		return nil, err
	}

	staff := models.Staff{
		Email:    email,
		Password: string(hashed),
		Name:     name,
		Role:     role,
		IsActive: true,
	}
	if err := config.DB.Create(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (s *AuthService) generateCustomerToken(user *models.User) (string, error) {
	claims := middleware.Claims{
		UserID:      user.ID,
		PhoneNumber: user.PhoneNumber,
		Kind:        middleware.TokenCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func (s *AuthService) generateStaffToken(staff *models.Staff) (string, error) {
	claims := middleware.Claims{
		UserID: staff.ID,
		Kind:   middleware.TokenStaff,
		Role:   staff.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
