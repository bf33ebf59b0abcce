package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"dataroom-api/internal/application/ports"
	"dataroom-api/internal/domain/user"
	"dataroom-api/internal/infrastructure/mq"
)

type AccountService struct {
	users    user.Repository
	blobs    ports.BlobStore
	events   ports.EventPublisher
	log      *zap.Logger
	mCounter *prometheus.CounterVec
}

func NewAccountService(
	users user.Repository,
	blobs ports.BlobStore,
	events ports.EventPublisher,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.AccountService {
	return &AccountService{
		users:    users,
		blobs:    blobs,
		events:   events,
		log:      logger,
		mCounter: mCounter,
	}
}

// DeleteAccount removes the user; the database cascades to credentials,
// sessions and file rows. Blobs of the removed rows go afterwards, best effort.
func (as *AccountService) DeleteAccount(ctx context.Context, id user.ID) error {
	u, keys, err := as.users.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	for _, key := range keys {
		if err = as.blobs.Delete(ctx, key); err != nil {
			as.log.Error("delete blob of removed account", zap.Int64("user_id", int64(id)), zap.String("key", key), zap.Error(err))
		}
	}

	as.events.Publish(mq.NewEvent(mq.RoutingAccountDeleted, int64(id), nil))
	as.mCounter.WithLabelValues("account_deleted_total").Inc()

	return nil
}
