package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/cartel-go/internal/domain/shared"
)

// PlayerAccountModel represents the player_accounts table. The real
// account ledger lives outside this subsystem; this table is the local
// stand-in honoring the same atomic debit/credit contract.
type PlayerAccountModel struct {
	PlayerID int   `gorm:"column:player_id;primaryKey"`
	Balance  int64 `gorm:"column:balance;not null;default:0"`
}

func (PlayerAccountModel) TableName() string {
	return "player_accounts"
}

// GormPlayerLedger implements ports.PlayerLedger against the local table
type GormPlayerLedger struct {
	db *gorm.DB
}

// NewGormPlayerLedger creates a new GORM player ledger adapter
func NewGormPlayerLedger(db *gorm.DB) *GormPlayerLedger {
	return &GormPlayerLedger{db: db}
}

// Debit removes cash from the player account. The conditional update on
// balance makes the overdraft check atomic.
func (l *GormPlayerLedger) Debit(ctx context.Context, playerID int, amount int64, reason string) error {
	if amount < 0 {
		return shared.NewValidationError("amount", "debit amount cannot be negative")
	}
	result := l.db.WithContext(ctx).Model(&PlayerAccountModel{}).
		Where("player_id = ? AND balance >= ?", playerID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to debit player %d: %w", playerID, result.Error)
	}
	if result.RowsAffected == 0 {
		var account PlayerAccountModel
		err := l.db.WithContext(ctx).Where("player_id = ?", playerID).First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError("player account", playerID)
		}
		return shared.NewInsufficientFundsError(amount, account.Balance)
	}
	return nil
}

// Credit adds cash to the player account, creating the row when missing
func (l *GormPlayerLedger) Credit(ctx context.Context, playerID int, amount int64, reason string) error {
	if amount < 0 {
		return shared.NewValidationError("amount", "credit amount cannot be negative")
	}
	result := l.db.WithContext(ctx).Model(&PlayerAccountModel{}).
		Where("player_id = ?", playerID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to credit player %d: %w", playerID, result.Error)
	}
	if result.RowsAffected == 0 {
		account := PlayerAccountModel{PlayerID: playerID, Balance: amount}
		if err := l.db.WithContext(ctx).Create(&account).Error; err != nil {
			return fmt.Errorf("failed to create player account %d: %w", playerID, err)
		}
	}
	return nil
}

// Balance reads the current account balance (0 when no row exists)
func (l *GormPlayerLedger) Balance(ctx context.Context, playerID int) (int64, error) {
	var account PlayerAccountModel
	err := l.db.WithContext(ctx).Where("player_id = ?", playerID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read player balance: %w", err)
	}
	return account.Balance, nil
}
