package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medintake/config"
	"medintake/internal/domain"
	"medintake/internal/events"
	"medintake/internal/intake"
	"medintake/internal/repository"
	"medintake/internal/storage"
)

type session struct {
	form     *intake.Form
	lastSeen time.Time
}

type IntakeServiceImpl struct {
	blobs     storage.BlobStore
	records   repository.RecordStore
	publisher events.Publisher
	cfg       config.IntakeConfig
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewIntakeService(
	blobs storage.BlobStore,
	records repository.RecordStore,
	publisher events.Publisher,
	cfg config.IntakeConfig,
	logger *zap.Logger,
) *IntakeServiceImpl {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = intake.DefaultKeyPrefix
	}

	return &IntakeServiceImpl{
		blobs:     blobs,
		records:   records,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
}

func (s *IntakeServiceImpl) newForm() *intake.Form {
	key := intake.PrefixKey(s.cfg.KeyPrefix)
	if s.cfg.UniqueKeys {
		key = intake.UniqueKey(s.cfg.KeyPrefix)
	}

	return intake.NewForm(s.blobs, s.records,
		intake.WithKeyFunc(key),
		intake.WithLogger(s.logger),
	)
}

func (s *IntakeServiceImpl) Open(ctx context.Context) (string, error) {
	id := uuid.NewString()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)
	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		s.logger.Warn("intake session limit reached", zap.Int("sessions", len(s.sessions)))
		return "", domain.ErrTooManySessions
	}
	s.sessions[id] = &session{form: s.newForm(), lastSeen: now}

	s.logger.Debug("intake session opened", zap.String("session_id", id), zap.Int("sessions", len(s.sessions)))
	return id, nil
}

// sweepLocked drops sessions idle for longer than the configured TTL. Caller holds s.mu.
func (s *IntakeServiceImpl) sweepLocked(now time.Time) {
	if s.cfg.SessionTTL <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.cfg.SessionTTL {
			delete(s.sessions, id)
		}
	}
}

// RunSweeper drops expired sessions, and the picture bytes their drafts hold, every interval
// until ctx is done.
func (s *IntakeServiceImpl) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.cfg.SessionTTL <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *IntakeServiceImpl) sweep() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.sessions)
	s.sweepLocked(now)
	if dropped := before - len(s.sessions); dropped > 0 {
		s.logger.Debug("expired intake sessions dropped", zap.Int("dropped", dropped), zap.Int("sessions", len(s.sessions)))
	}
}

func (s *IntakeServiceImpl) form(sessionID string) (*intake.Form, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.cfg.SessionTTL > 0 && now.Sub(sess.lastSeen) > s.cfg.SessionTTL {
		delete(s.sessions, sessionID)
		return nil, domain.ErrSessionNotFound
	}

	sess.lastSeen = now
	return sess.form, nil
}

func (s *IntakeServiceImpl) View(ctx context.Context, sessionID string) (*intake.View, error) {
	form, err := s.form(sessionID)
	if err != nil {
		return nil, err
	}

	v := form.View()
	return &v, nil
}

func (s *IntakeServiceImpl) UpdateField(ctx context.Context, sessionID string, field domain.Field, value string) error {
	form, err := s.form(sessionID)
	if err != nil {
		return err
	}
	return form.UpdateField(field, value)
}

func (s *IntakeServiceImpl) SelectPicture(ctx context.Context, sessionID string, pic *domain.Picture) error {
	form, err := s.form(sessionID)
	if err != nil {
		return err
	}
	return form.SelectFile(pic)
}

func (s *IntakeServiceImpl) Submit(ctx context.Context, sessionID string) (*domain.Submission, error) {
	form, err := s.form(sessionID)
	if err != nil {
		return nil, err
	}

	sub, err := form.Submit(ctx)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, sub)
	return sub, nil
}

func (s *IntakeServiceImpl) SubmitForm(ctx context.Context, fields domain.DoctorFields, pic *domain.Picture) (*domain.Submission, intake.View, error) {
	form := s.newForm()

	for _, f := range domain.Fields {
		if err := form.UpdateField(f, fields.Get(f)); err != nil {
			return nil, form.View(), err
		}
	}
	if err := form.SelectFile(pic); err != nil {
		return nil, form.View(), err
	}

	sub, err := form.Submit(ctx)
	if err != nil {
		return nil, form.View(), err
	}

	s.publish(ctx, sub)
	return sub, form.View(), nil
}

// publish is best effort: the doctor is already stored, so failures are only logged.
func (s *IntakeServiceImpl) publish(ctx context.Context, sub *domain.Submission) {
	if err := s.publisher.PublishDoctorCreated(ctx, *sub); err != nil {
		s.logger.Warn("failed to publish doctor created event", zap.String("id", sub.ID), zap.Error(err))
	}
}
