package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

type LicenseUsecase struct {
	licenses provider.LicenseGateway
	logger   *zap.Logger
}

// NewLicenseUsecase creates the license activation usecase
func NewLicenseUsecase(licenses provider.LicenseGateway, logger *zap.Logger) *LicenseUsecase {
	return &LicenseUsecase{licenses: licenses, logger: logger}
}

func (u *LicenseUsecase) Activate(ctx context.Context, token, productKey string) (*entity.LicenseActivation, error) {
	productKey = strings.TrimSpace(productKey)
	if productKey == "" {
		return nil, domainErrors.ErrProductKeyRequired
	}

	result, err := u.licenses.Activate(ctx, token, productKey)
	if err != nil {
		return nil, err
	}
	u.logger.Info("License activation answered", zap.Bool("success", result.Success))
	return result, nil
}
