package wagering

import (
	"context"
	"fmt"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/events"
)

const maxEventPage = 500

func (s *Service) GetPlayer(ctx context.Context, identity string) (*ledger.Player, error) {
	p, err := s.players.Get(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}

	return p, nil
}

func (s *Service) GetStats(ctx context.Context) (*ledger.Stats, error) {
	stats, err := s.platform.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	return stats, nil
}

// VaultBalance returns the treasury's spendable balance.
func (s *Service) VaultBalance(ctx context.Context) (int64, error) {
	balance, err := s.accounts.GetBalance(ctx, ledger.VaultAddress())
	if err != nil {
		return 0, fmt.Errorf("vault balance: %w", err)
	}

	return balance, nil
}

// WalletBalance returns identity's spendable wallet balance.
func (s *Service) WalletBalance(ctx context.Context, identity string) (int64, error) {
	balance, err := s.accounts.GetBalance(ctx, ledger.WalletAddress(identity))
	if err != nil {
		return 0, fmt.Errorf("wallet balance: %w", err)
	}

	return balance, nil
}

// ListEvents pages the audit log after afterID.
func (s *Service) ListEvents(ctx context.Context, afterID int64, limit int) ([]events.Record, error) {
	if limit <= 0 || limit > maxEventPage {
		limit = maxEventPage
	}

	recs, err := s.events.List(ctx, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return recs, nil
}
