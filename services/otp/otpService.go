package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"event-guard/config"
	"event-guard/models/otp"
)

// Mailer delivers a one-time code out of band. Delivery is a blocking call
// on the request path with no retry.
type Mailer interface {
	SendOTP(to, code string, purpose otp.Purpose) error
}

// Verification failure categories. Callers map all three to a bad request.
var (
	ErrNoActiveCode = errors.New("no active otp code")
	ErrCodeExpired  = errors.New("otp code expired")
	ErrCodeMismatch = errors.New("otp code mismatch")
)

// ErrDispatchFailed wraps an email delivery failure that happened after the
// code row was already committed. The code stays valid; the next request
// supersedes it.
var ErrDispatchFailed = errors.New("otp dispatch failed")

const hashCost = 10

// Service handles OTP issuance and verification.
type Service struct {
	DB         *gorm.DB
	Mailer     Mailer
	CodeLength int
	Expiry     time.Duration
}

// NewService creates an OTP service with the configured code length and TTL.
func NewService(db *gorm.DB, mailer Mailer, cfg *config.Config) *Service {
	return &Service{
		DB:         db,
		Mailer:     mailer,
		CodeLength: cfg.OTPLength,
		Expiry:     cfg.OTPExpiry,
	}
}

// GenerateCode draws a uniform random integer with exactly CodeLength digits
// from a cryptographically secure source.
func (s *Service) GenerateCode() (string, error) {
	min := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(s.CodeLength-1)), nil)
	span := new(big.Int).Mul(min, big.NewInt(9))

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}

	return n.Add(n, min).String(), nil
}

// Request invalidates any unused code for (email, purpose), stores the
// bcrypt hash of a fresh code with a new expiry, and dispatches the
// plaintext by email. Repeated calls always supersede the prior code.
//
// When dispatch fails the committed row is kept and the error wraps
// ErrDispatchFailed: the undelivered code stays valid until superseded.
func (s *Service) Request(email string, purpose otp.Purpose) (*otp.OTP, error) {
	// One active code at a time.
	err := s.DB.Model(&otp.OTP{}).
		Where("email = ? AND purpose = ? AND used = ?", email, purpose, false).
		Update("used", true).Error
	if err != nil {
		return nil, fmt.Errorf("failed to invalidate existing codes: %w", err)
	}

	code, err := s.GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash code: %w", err)
	}

	record := &otp.OTP{
		Email:     email,
		CodeHash:  string(codeHash),
		Purpose:   purpose,
		Used:      false,
		ExpiresAt: time.Now().Add(s.Expiry),
	}

	if err := s.DB.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create otp record: %w", err)
	}

	if err := s.Mailer.SendOTP(email, code, purpose); err != nil {
		return record, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	return record, nil
}

// Status returns the most recent unused, unexpired code for (email, purpose)
// or ErrNoActiveCode.
func (s *Service) Status(email string, purpose otp.Purpose) (*otp.OTP, error) {
	var record otp.OTP

	err := s.DB.Where("email = ? AND purpose = ? AND used = ? AND expires_at > ?",
		email, purpose, false, time.Now()).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveCode
		}
		return nil, fmt.Errorf("failed to find otp record: %w", err)
	}

	return &record, nil
}

// Verify checks the supplied code against the most recent unused record for
// (email, purpose) and marks it used on success. A consumed code can never
// be verified again.
func (s *Service) Verify(email string, purpose otp.Purpose, code string) (*otp.OTP, error) {
	return s.VerifyTx(s.DB, email, purpose, code)
}

// VerifyTx is Verify running against the given handle, letting callers fold
// the mark-used step into a larger transaction.
func (s *Service) VerifyTx(tx *gorm.DB, email string, purpose otp.Purpose, code string) (*otp.OTP, error) {
	var record otp.OTP

	err := tx.Where("email = ? AND purpose = ? AND used = ?", email, purpose, false).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveCode
		}
		return nil, fmt.Errorf("failed to find otp record: %w", err)
	}

	if record.IsExpired() {
		return nil, ErrCodeExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) != nil {
		return nil, ErrCodeMismatch
	}

	if err := tx.Model(&record).Update("used", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark code as used: %w", err)
	}

	return &record, nil
}

// CleanupExpired removes expired OTP records from the database.
func (s *Service) CleanupExpired() error {
	return s.DB.Where("expires_at < ?", time.Now()).Delete(&otp.OTP{}).Error
}
