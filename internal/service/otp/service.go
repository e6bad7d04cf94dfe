package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/sevaqueue/seva-api/pkg/logger"
)

// Service issues and verifies short-lived one-time codes keyed by the
// citizen's email. Codes live in an in-memory TTL store and are
// consumed on successful verification.
type Service struct {
	store  *cache.Cache
	ttl    time.Duration
	logger *logger.Logger
}

func NewService(ttl time.Duration, logger *logger.Logger) *Service {
	return &Service{
		store:  cache.New(ttl, 2*ttl),
		ttl:    ttl,
		logger: logger,
	}
}

// Generate creates a 6-digit code for the email, replacing any code
// already outstanding.
func (s *Service) Generate(email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.store.Set(email, code, s.ttl)
	s.logger.Debug("otp issued", "email", email)

	return code, nil
}

// Verify checks the code and consumes it on success. Expired, missing
// or mismatched codes all report false.
func (s *Service) Verify(email, code string) bool {
	stored, found := s.store.Get(email)
	if !found {
		return false
	}
	if stored.(string) != code {
		return false
	}
	s.store.Delete(email)
	return true
}
