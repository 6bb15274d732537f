package usecase

import (
	"context"
	"sync"
	"time"

	"telegram-subscription-admin/internal/domain"
	"telegram-subscription-admin/internal/domain/model"
	"telegram-subscription-admin/internal/domain/ports/adapter"
	"telegram-subscription-admin/internal/domain/ports/repository"
	"telegram-subscription-admin/internal/infra/metrics"
	"telegram-subscription-admin/internal/infra/worker"

	"github.com/rs/zerolog"
)

// sendTimeout bounds one delivery attempt; a slow recipient must not stall
// the rest of the batch indefinitely.
const sendTimeout = 10 * time.Second

var _ BroadcastUseCase = (*broadcastUC)(nil)

type BroadcastUseCase interface {
	// Dispatch resolves the audience, records the broadcast, fans the
	// message out and returns the record with final counts. Per-recipient
	// delivery failures are counted, never propagated.
	Dispatch(ctx context.Context, audience model.Audience, message string) (*model.BroadcastRecord, error)
}

type broadcastUC struct {
	users      repository.UserRepository
	history    repository.BroadcastRepository
	transport  adapter.MessageTransport
	workerPool *worker.Pool
	log        *zerolog.Logger
}

func NewBroadcastUseCase(
	users repository.UserRepository,
	history repository.BroadcastRepository,
	transport adapter.MessageTransport,
	pool *worker.Pool,
	logger *zerolog.Logger,
) *broadcastUC {
	return &broadcastUC{
		users:      users,
		history:    history,
		transport:  transport,
		workerPool: pool,
		log:        logger,
	}
}

func (uc *broadcastUC) Dispatch(ctx context.Context, audience model.Audience, message string) (*model.BroadcastRecord, error) {
	if message == "" || !model.ValidAudience(string(audience)) {
		return nil, domain.ErrInvalidArgument
	}

	ids, err := uc.resolveAudience(ctx, audience)
	if err != nil {
		uc.log.Error().Err(err).Str("audience", string(audience)).Msg("failed to resolve broadcast audience")
		return nil, err
	}

	// Two-phase write: the record exists before the first send, so a crash
	// mid-fan-out leaves a zero-count record rather than a missing one.
	recordID, err := uc.history.Create(ctx, audience, message)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	uc.log.Info().Int64("broadcast_id", recordID).Str("audience", string(audience)).
		Int("recipients", len(ids)).Msg("starting broadcast fan-out")

	var (
		mu     sync.Mutex
		sent   int
		failed int
		wg     sync.WaitGroup
	)
	for _, id := range ids {
		tgID := id
		wg.Add(1)
		task := func(taskCtx context.Context) error {
			defer wg.Done()
			sendCtx, cancel := context.WithTimeout(taskCtx, sendTimeout)
			defer cancel()
			err := uc.transport.Send(sendCtx, adapter.Instruction{ActorID: tgID, Text: message})
			mu.Lock()
			if err != nil {
				failed++
			} else {
				sent++
			}
			mu.Unlock()
			if err != nil {
				// e.g. the recipient blocked the bot; counted, not fatal
				uc.log.Warn().Err(err).Int64("tg_id", tgID).Msg("broadcast delivery failed")
			}
			return nil
		}
		if err := uc.workerPool.SubmitWait(ctx, task); err != nil {
			// Queueing failed (shutdown/cancel): the recipient was never
			// attempted, still accounted for in the failed column.
			wg.Done()
			mu.Lock()
			failed++
			mu.Unlock()
			uc.log.Warn().Err(err).Int64("tg_id", tgID).Msg("failed to queue broadcast task")
		}
	}
	wg.Wait()

	if err := uc.history.UpdateStats(ctx, recordID, sent, failed); err != nil {
		uc.log.Error().Err(err).Int64("broadcast_id", recordID).Msg("failed to update broadcast stats")
		return nil, err
	}

	metrics.AddBroadcastOutcomes(string(audience), sent, failed)
	metrics.ObserveBroadcastDuration(string(audience), time.Since(start).Seconds())
	uc.log.Info().Int64("broadcast_id", recordID).Int("sent", sent).Int("failed", failed).
		Msg("broadcast fan-out finished")

	return &model.BroadcastRecord{
		ID:          recordID,
		Audience:    audience,
		MessageText: message,
		SentCount:   sent,
		FailedCount: failed,
	}, nil
}

func (uc *broadcastUC) resolveAudience(ctx context.Context, audience model.Audience) ([]int64, error) {
	switch audience {
	case model.AudienceActive:
		return uc.users.IDsByStatus(ctx, model.UserActive)
	case model.AudienceExpired:
		return uc.users.IDsByStatus(ctx, model.UserExpired)
	case model.AudienceTest:
		return uc.users.TestUserIDs(ctx)
	case model.AudienceAll:
		return uc.users.AllIDs(ctx)
	}
	return nil, domain.ErrInvalidArgument
}
