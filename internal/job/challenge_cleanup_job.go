package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/relieforg/reliefhub/internal/pkg/timeutil"
	"github.com/relieforg/reliefhub/internal/repo"
)

// ChallengeCleanupJob blanks out two-factor codes whose expiry already
// passed, so dead challenges do not accumulate in the users table.
type ChallengeCleanupJob struct {
	users *repo.UserRepo
}

func NewChallengeCleanupJob(users *repo.UserRepo) *ChallengeCleanupJob {
	return &ChallengeCleanupJob{users: users}
}

func (j *ChallengeCleanupJob) Name() string {
	return "challenge_cleanup"
}

func (j *ChallengeCleanupJob) Run(ctx context.Context) error {
	purged, err := j.users.PurgeExpiredChallenges(ctx, timeutil.NowUnix())
	if err != nil {
		return err
	}
	if purged > 0 {
		logutil.GetLogger(ctx).Info("purged expired challenges", zap.Int64("count", purged))
	}
	return nil
}
