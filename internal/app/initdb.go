package app

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/repository"
	"github.com/talkincode/storefront/pkg/common"
	"go.uber.org/zap"
)

// checkSuper makes sure the configured staff account exists, is active and
// can log in
func (a *Application) checkSuper() {
	ctx := context.Background()
	admin := a.appConfig.Admin
	if admin.Username == "" {
		return
	}

	operator, err := a.repos.Users.GetByUsername(ctx, admin.Username)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		hashedPassword, err := common.HashPassword(admin.Password)
		if err != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(err))
			return
		}
		u := &domain.User{
			Username:   admin.Username,
			Email:      admin.Email,
			Password:   hashedPassword,
			FirstName:  "administrator",
			IsStaff:    true,
			IsActive:   true,
			DateJoined: time.Now(),
		}
		if err := a.repos.Users.Register(ctx, u); err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("username", admin.Username))
		}
		return
	case err != nil:
		zap.L().Error("failed to query default admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetStaff := !operator.IsStaff
	resetActive := !operator.IsActive

	if !resetPassword && !resetStaff && !resetActive {
		return
	}

	updates := map[string]interface{}{}
	if resetPassword {
		hashedPassword, err := common.HashPassword(admin.Password)
		if err != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(err))
			return
		}
		updates["password"] = hashedPassword
	}
	if resetStaff {
		updates["is_staff"] = true
	}
	if resetActive {
		updates["is_active"] = true
	}

	if err := a.gormDB.Model(&domain.User{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair default admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default admin account",
		zap.String("username", admin.Username),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("staffReset", resetStaff),
		zap.Bool("activeReset", resetActive))
}
