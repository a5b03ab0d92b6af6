// Package intake implements the doctor profile intake form: field state, picture
// selection and the upload-then-persist submission workflow.
package intake

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medintake/internal/domain"
	"medintake/internal/repository"
	"medintake/internal/storage"
	"medintake/pkg/validator"
)

const DefaultKeyPrefix = "doctorProfilePictures/"

// KeyFunc maps the picture's original file name to a Blob Store key.
type KeyFunc func(fileName string) string

// PrefixKey stores pictures under prefix + file name. Identically named files overwrite each other.
func PrefixKey(prefix string) KeyFunc {
	return func(fileName string) string {
		return prefix + baseName(fileName)
	}
}

// UniqueKey appends a random suffix so identically named files never collide.
func UniqueKey(prefix string) KeyFunc {
	return func(fileName string) string {
		return prefix + uuid.NewString() + "-" + baseName(fileName)
	}
}

func baseName(fileName string) string {
	if name := validator.CleanFileName(fileName); name != "" {
		return name
	}
	return "unnamed"
}

// View is a snapshot of the form for rendering.
type View struct {
	Fields      domain.DoctorFields `json:"fields"`
	PictureName string              `json:"picture_name,omitempty"`
	Submitted   bool                `json:"submitted"`
	Busy        bool                `json:"busy"`
	Error       string              `json:"error,omitempty"`
	ImageURL    string              `json:"image_url,omitempty"`
}

type Form struct {
	blobs      storage.BlobStore
	records    repository.RecordStore
	collection string
	key        KeyFunc
	logger     *zap.Logger
	now        func() time.Time

	mu        sync.Mutex
	draft     domain.DoctorProfileDraft
	submitted bool
	busy      bool
	imageURL  string
	errMsg    string
}

type Option func(*Form)

func WithKeyFunc(fn KeyFunc) Option {
	return func(f *Form) {
		f.key = fn
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

func NewForm(blobs storage.BlobStore, records repository.RecordStore, opts ...Option) *Form {
	f := &Form{
		blobs:      blobs,
		records:    records,
		collection: domain.DoctorsCollection,
		key:        PrefixKey(DefaultKeyPrefix),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Form) UpdateField(field domain.Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitted {
		return domain.ErrAlreadySubmitted
	}
	return f.draft.Set(field, value)
}

// SelectFile stores the picture in the draft. A nil picture (cancelled picker) keeps
// the previous selection.
func (f *Form) SelectFile(pic *domain.Picture) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitted {
		return domain.ErrAlreadySubmitted
	}
	if pic == nil {
		return nil
	}
	f.draft.ProfilePicture = pic
	return nil
}

// Submit uploads the picture, then inserts the doctor record carrying the picture URL.
// On failure the returned *domain.IntakeError carries the failed phase, the form keeps
// its draft and exposes only the generic message through View.
func (f *Form) Submit(ctx context.Context) (*domain.Submission, error) {
	f.mu.Lock()
	if f.submitted {
		f.mu.Unlock()
		return nil, domain.ErrAlreadySubmitted
	}
	if f.busy {
		f.mu.Unlock()
		return nil, domain.ErrSubmissionInProgress
	}
	if f.draft.ProfilePicture == nil {
		ierr := domain.NewMissingFileError()
		f.errMsg = ierr.Message()
		f.mu.Unlock()
		return nil, ierr
	}
	f.busy = true
	draft := f.draft
	f.mu.Unlock()

	sub, err := f.submit(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if err != nil {
		f.errMsg = err.Message()
		f.logger.Error("doctor intake failed",
			zap.String("kind", err.Kind.String()),
			zap.String("phase", string(err.Phase)),
			zap.String("file", draft.ProfilePicture.Name),
			zap.Error(err.Err),
		)
		return nil, err
	}

	f.submitted = true
	f.imageURL = sub.ImageURL
	f.errMsg = ""
	f.logger.Info("doctor added",
		zap.String("id", sub.ID),
		zap.String("name", sub.Record.Name),
		zap.String("image_url", sub.ImageURL),
	)
	return sub, nil
}

func (f *Form) submit(ctx context.Context, draft domain.DoctorProfileDraft) (*domain.Submission, *domain.IntakeError) {
	pic := draft.ProfilePicture
	key := f.key(pic.Name)

	contentType := pic.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(pic.Data)
	}

	handle, err := f.blobs.Upload(ctx, key, bytes.NewReader(pic.Data), pic.Size(), contentType)
	if err != nil {
		return nil, domain.NewBackendError(domain.PhaseUpload, err)
	}

	imageURL, err := f.blobs.RetrievalURL(ctx, handle)
	if err != nil {
		return nil, domain.NewBackendError(domain.PhaseRetrievalURL, err)
	}

	record := draft.Record(imageURL)

	id, err := f.records.Insert(ctx, f.collection, record)
	if err != nil {
		return nil, domain.NewBackendError(domain.PhasePersist, err)
	}

	return &domain.Submission{
		ID:          id,
		ImageURL:    imageURL,
		Record:      record,
		SubmittedAt: f.now(),
	}, nil
}

func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		Fields:    f.draft.DoctorFields,
		Submitted: f.submitted,
		Busy:      f.busy,
		Error:     f.errMsg,
		ImageURL:  f.imageURL,
	}
	if f.draft.ProfilePicture != nil {
		v.PictureName = f.draft.ProfilePicture.Name
	}
	return v
}
