package loyalty

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/repository"
)

type LoyaltyUseCase interface {
	Balance(ctx context.Context, userID string) (*Summary, error)
}

// Summary is a user's current balance with the accruals behind it.
type Summary struct {
	UserID   string
	Balance  int64
	Accruals []domain.LoyaltyPoints
}

type LoyaltyService struct {
	repo repository.LoyaltyRepository
	now  func() time.Time
}

func NewLoyaltyService(repo repository.LoyaltyRepository) *LoyaltyService {
	return &LoyaltyService{repo: repo, now: time.Now}
}

// Balance sums the accruals that have not expired yet. The history includes
// expired accruals so the user can see what lapsed.
func (s *LoyaltyService) Balance(ctx context.Context, userID string) (*Summary, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}

	balance, err := s.repo.Balance(ctx, userID, s.now())
	if err != nil {
		return nil, domain.Persistence(err)
	}
	accruals, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return &Summary{UserID: userID, Balance: balance, Accruals: accruals}, nil
}

var _ LoyaltyUseCase = (*LoyaltyService)(nil)
