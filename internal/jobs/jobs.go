package jobs

import (
	"context"
	"fmt"
	"time"

	"ridgeworks/internal/domain"
	"ridgeworks/internal/models"
	"ridgeworks/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContractSource and ClientSource are the repository slices the reminder
// job reads from, satisfied by the GORM repositories.
type ContractSource interface {
	ListAwaitingSignature(before time.Time) ([]models.Contract, error)
}

type ClientSource interface {
	GetByID(id uint) (*models.Client, error)
}

// Runner owns the background cron schedule: connection keep-alives and the
// daily reminder for contracts stuck waiting on a signature.
type Runner struct {
	cron         *cron.Cron
	db           *gorm.DB
	rdb          *redis.Client
	contractRepo ContractSource
	clientRepo   ClientSource
	events       service.EventSink
	log          *zap.SugaredLogger
}

func NewRunner(
	db *gorm.DB,
	rdb *redis.Client,
	contractRepo ContractSource,
	clientRepo ClientSource,
	events service.EventSink,
	log *zap.SugaredLogger,
) *Runner {
	return &Runner{
		cron:         cron.New(),
		db:           db,
		rdb:          rdb,
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
		events:       events,
		log:          log,
	}
}

func (r *Runner) Start() error {
	if _, err := r.cron.AddFunc("*/10 * * * *", r.keepAlive); err != nil {
		return err
	}
	if _, err := r.cron.AddFunc("0 9 * * *", r.signatureReminders); err != nil {
		return err
	}
	r.cron.Start()
	r.log.Infow("cron started", "jobs", 2)
	return nil
}

// Stop waits for running jobs to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// keepAlive pings the database and redis so idle managed connections are
// not reaped mid-request.
func (r *Runner) keepAlive() {
	if sqlDB, err := r.db.DB(); err != nil {
		r.log.Errorw("keepalive: db handle", "err", err)
	} else if err := sqlDB.Ping(); err != nil {
		r.log.Errorw("keepalive: db ping", "err", err)
	}
	if r.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.rdb.Ping(ctx).Err(); err != nil {
			r.log.Errorw("keepalive: redis ping", "err", err)
		}
	}
}

// signatureReminders nudges the missing signer on contracts that have been
// sitting in the handshake for over 48 hours.
func (r *Runner) signatureReminders() {
	cutoff := time.Now().Add(-48 * time.Hour)
	contracts, err := r.contractRepo.ListAwaitingSignature(cutoff)
	if err != nil {
		r.log.Errorw("signature reminders: list", "err", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, c := range contracts {
		ev := service.Event{
			Type:           domain.NotifSignatureReminder,
			ContractID:     c.ID,
			ContractNumber: c.ContractNumber,
			Status:         c.Status,
			Title:          "Signature pending",
			Message:        fmt.Sprintf("Contract %s is still waiting for a signature", c.ContractNumber),
			Link:           fmt.Sprintf("/contracts/%d", c.ID),
		}
		switch c.WorkflowStatus {
		case domain.WorkflowPendingAdminSignature:
			ev.NotifyAdmins = true
		case domain.WorkflowPendingClientSignature:
			cl, err := r.clientRepo.GetByID(c.ClientID)
			if err != nil || cl.UserID == nil {
				continue
			}
			ev.NotifyUserIDs = []uint{*cl.UserID}
			ev.EmailUserID = *cl.UserID
			ev.EmailSubject = fmt.Sprintf("Contract %s awaits your signature", c.ContractNumber)
			ev.EmailBody = fmt.Sprintf("Contract %s is still waiting for your signature. Please review and sign.", c.ContractNumber)
		default:
			continue
		}
		r.events.Dispatch(ctx, ev)
	}
	if len(contracts) > 0 {
		r.log.Infow("signature reminders sent", "count", len(contracts))
	}
}
