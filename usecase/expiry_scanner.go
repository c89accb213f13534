package usecase

import (
	"context"

	"page-scheduler/domain/model"
	"page-scheduler/domain/repository"
	"page-scheduler/infrastructure/logger"
)

// ExpiryScanner proactively refreshes credentials nearing expiry. Runs on a
// daily cadence from main.
type ExpiryScanner struct {
	credRepo      repository.ICredential
	credUsecase   ICredentialUsecase
	thresholdDays int
}

func NewExpiryScanner(credRepo repository.ICredential, credUsecase ICredentialUsecase, thresholdDays int) *ExpiryScanner {
	if thresholdDays <= 0 {
		thresholdDays = 30
	}
	return &ExpiryScanner{credRepo: credRepo, credUsecase: credUsecase, thresholdDays: thresholdDays}
}

// ScanAndRefresh refreshes every credential expiring within the threshold.
// One credential's failure never stops the rest of the scan; every attempt is
// audited by RefreshCredential.
func (s *ExpiryScanner) ScanAndRefresh(ctx context.Context) ([]*model.RefreshOutcome, error) {
	expiring, err := s.credRepo.FindExpiringWithin(ctx, s.thresholdDays)
	if err != nil {
		return nil, err
	}
	lg := logger.GetLogger()
	outcomes := make([]*model.RefreshOutcome, 0, len(expiring))
	for _, cred := range expiring {
		outcome := s.credUsecase.RefreshCredential(ctx, cred)
		if !outcome.Success {
			lg.WithField("fb_user_id", cred.FBUserID).WithField("error", outcome.Error).Warn("token refresh failed")
		}
		outcomes = append(outcomes, outcome)
	}
	if len(outcomes) > 0 {
		lg.WithField("count", len(outcomes)).Info("Expiry scan finished")
	}
	return outcomes, nil
}
