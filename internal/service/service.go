package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"medintake/config"
	"medintake/internal/domain"
	"medintake/internal/events"
	"medintake/internal/intake"
	"medintake/internal/repository"
	"medintake/internal/storage"
)

type Deps struct {
	Records   repository.RecordStore
	Blobs     storage.BlobStore
	Publisher events.Publisher
	Logger    *zap.Logger
	Config    *config.Config
}

type Services struct {
	Intake IntakeService
}

func NewServices(deps Deps) *Services {
	return &Services{
		Intake: NewIntakeService(deps.Blobs, deps.Records, deps.Publisher, deps.Config.Intake, deps.Logger),
	}
}

type IntakeService interface {
	Open(ctx context.Context) (string, error)
	View(ctx context.Context, sessionID string) (*intake.View, error)
	UpdateField(ctx context.Context, sessionID string, field domain.Field, value string) error
	SelectPicture(ctx context.Context, sessionID string, pic *domain.Picture) error
	Submit(ctx context.Context, sessionID string) (*domain.Submission, error)

	// RunSweeper blocks until ctx is done, dropping expired sessions every interval.
	RunSweeper(ctx context.Context, interval time.Duration)

	// SubmitForm runs a whole intake in one call: fresh form, all fields, optional picture, submit.
	SubmitForm(ctx context.Context, fields domain.DoctorFields, pic *domain.Picture) (*domain.Submission, intake.View, error)
}
