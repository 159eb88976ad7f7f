package worker

import (
	"context"
	"log/slog"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/helper"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/kyc"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/repository"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/smtp"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/stream"
)

type Worker struct {
	KafkaStream *stream.KafkaStream
	DB          repository.Database
	Engine      *kyc.Engine
	Mailer      smtp.MailerInterface
	Ctx         context.Context
	Helper      *helper.HelperRepository
	Logger      *slog.Logger
}

const (
	// kycValidationGroupID is used for workers that score an application whenever validation is requested
	kycValidationGroupID = "kyc-validation-group"

	// kycDecisionGroupID is used for workers that notify the customer after a decision has been recorded
	kycDecisionGroupID = "kyc-decision-group"
)

// Our workers typically needs access to database and kafka event stream
// worker-specific dependency can be passed as argument to the worker
func New(wk *Worker) *Worker {
	return &Worker{
		KafkaStream: wk.KafkaStream,
		DB:          wk.DB,
		Engine:      wk.Engine,
		Mailer:      wk.Mailer,
		Ctx:         wk.Ctx,
		Helper:      wk.Helper,
		Logger:      wk.Logger,
	}
}
