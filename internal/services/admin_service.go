package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"secondarypro/internal/models"
	"secondarypro/internal/repositories"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// AdminService guards the back-office and serves dashboard figures.
type AdminService struct {
	passwordHash []byte
	productRepo  repositories.ProductRepository
	orderRepo    repositories.OrderRepository
}

// NewAdminService hashes the shared admin password. An empty password is refused.
func NewAdminService(password string, productRepo repositories.ProductRepository, orderRepo repositories.OrderRepository) (*AdminService, error) {
	if password == "" {
		return nil, errors.New("admin password is not configured")
	}
	hash, err := bcrypt.GenerateFromPassword(digest(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &AdminService{
		passwordHash: hash,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
	}, nil
}

// digest keeps passwords longer than bcrypt's 72-byte limit usable.
func digest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}

// Authorize checks a credential against the admin password.
// Every non-empty attempt costs one bcrypt compare.
func (s *AdminService) Authorize(credential string) error {
	if credential == "" {
		return models.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, digest(credential)); err != nil {
		return models.ErrUnauthorized
	}
	return nil
}

// Stats gathers the dashboard counters concurrently.
func (s *AdminService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.productRepo.Count(ctx)
		stats.TotalProducts = n
		return err
	})
	g.Go(func() error {
		n, err := s.orderRepo.Count(ctx, "")
		stats.TotalOrders = n
		return err
	})
	g.Go(func() error {
		n, err := s.orderRepo.Count(ctx, models.StatusPending)
		stats.PendingOrders = n
		return err
	})
	g.Go(func() error {
		n, err := s.orderRepo.Count(ctx, models.StatusShipped)
		stats.ShippedOrders = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to gather dashboard stats: %w", err)
	}
	return &stats, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
