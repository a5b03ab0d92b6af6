package intake

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medintake/internal/domain"
	"medintake/internal/storage"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (storage.Handle, error) {
	args := m.Called(ctx, key, data, size, contentType)
	return args.Get(0).(storage.Handle), args.Error(1)
}

func (m *MockBlobStore) RetrievalURL(ctx context.Context, h storage.Handle) (string, error) {
	args := m.Called(ctx, h)
	return args.String(0), args.Error(1)
}

type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Insert(ctx context.Context, collection string, record domain.DoctorRecord) (string, error) {
	args := m.Called(ctx, collection, record)
	return args.String(0), args.Error(1)
}

const mockURL = "https://storage.example.com/doctorProfilePictures/pic.png"

func scenarioFields() domain.DoctorFields {
	return domain.DoctorFields{
		Name:        "Dr. A",
		Specialty:   "Cardiology",
		Experience:  "10",
		Languages:   "English",
		License:     "L123",
		LivingPlace: "City",
	}
}

func fillForm(t *testing.T, f *Form, fields domain.DoctorFields) {
	t.Helper()
	for _, field := range domain.Fields {
		require.NoError(t, f.UpdateField(field, fields.Get(field)))
	}
}

func pngPicture() *domain.Picture {
	return &domain.Picture{Name: "pic.png", ContentType: "image/png", Data: []byte("\x89PNG\r\n\x1a\nfake")}
}

func TestSubmit_Success(t *testing.T) {
	blobs := new(MockBlobStore)
	records := new(MockRecordStore)
	form := NewForm(blobs, records)

	fillForm(t, form, scenarioFields())
	require.NoError(t, form.SelectFile(pngPicture()))

	handle := storage.Handle{Bucket: "b", Key: "doctorProfilePictures/pic.png"}
	blobs.On("Upload", mock.Anything, "doctorProfilePictures/pic.png", mock.Anything, int64(12), "image/png").Return(handle, nil).Once()
	blobs.On("RetrievalURL", mock.Anything, handle).Return(mockURL, nil).Once()

	var persisted domain.DoctorRecord
	records.On("Insert", mock.Anything, domain.DoctorsCollection, mock.Anything).
		Run(func(args mock.Arguments) { persisted = args.Get(2).(domain.DoctorRecord) }).
		Return("doc-1", nil).Once()

	sub, err := form.Submit(context.Background())
	require.NoError(t, err)

	want := domain.DoctorRecord{
		Name:           "Dr. A",
		Specialty:      "Cardiology",
		Experience:     "10",
		Languages:      "English",
		License:        "L123",
		LivingPlace:    "City",
		ProfilePicture: mockURL,
	}
	if diff := cmp.Diff(want, persisted); diff != "" {
		t.Fatalf("persisted document mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "doc-1", sub.ID)
	assert.Equal(t, mockURL, sub.ImageURL)

	view := form.View()
	assert.True(t, view.Submitted)
	assert.Empty(t, view.Error)
	assert.Equal(t, mockURL, view.ImageURL)

	blobs.AssertExpectations(t)
	records.AssertExpectations(t)
}

func TestSubmit_MissingFile(t *testing.T) {
	blobs := new(MockBlobStore)
	records := new(MockRecordStore)
	form := NewForm(blobs, records)
	fillForm(t, form, scenarioFields())

	_, err := form.Submit(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrorKindMissingFile))
	assert.Equal(t, "Please upload a profile picture", form.View().Error)
	assert.False(t, form.View().Submitted)
	blobs.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	records.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_UploadFailureSkipsPersist(t *testing.T) {
	blobs := new(MockBlobStore)
	records := new(MockRecordStore)
	form := NewForm(blobs, records)
	fillForm(t, form, scenarioFields())
	require.NoError(t, form.SelectFile(pngPicture()))

	cause := errors.New("permission denied")
	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.Handle{}, cause).Once()

	_, err := form.Submit(context.Background())

	var ierr *domain.IntakeError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, domain.ErrorKindBackend, ierr.Kind)
	assert.Equal(t, domain.PhaseUpload, ierr.Phase)
	assert.ErrorIs(t, err, cause)
	records.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)

	view := form.View()
	assert.Equal(t, "Error uploading profile picture or saving doctor details", view.Error)
	assert.False(t, view.Submitted)
	assert.Equal(t, scenarioFields(), view.Fields)
}

func TestSubmit_RetrievalURLFailureSkipsPersist(t *testing.T) {
	blobs := new(MockBlobStore)
	records := new(MockRecordStore)
	form := NewForm(blobs, records)
	require.NoError(t, form.SelectFile(pngPicture()))

	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.Handle{Key: "k"}, nil).Once()
	blobs.On("RetrievalURL", mock.Anything, mock.Anything).Return("", errors.New("not found")).Once()

	_, err := form.Submit(context.Background())

	var ierr *domain.IntakeError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, domain.PhaseRetrievalURL, ierr.Phase)
	records.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_PersistFailureKeepsFormAndAllowsRetry(t *testing.T) {
	blobs := new(MockBlobStore)
	records := new(MockRecordStore)
	form := NewForm(blobs, records)
	fillForm(t, form, scenarioFields())
	require.NoError(t, form.SelectFile(pngPicture()))

	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.Handle{Key: "k"}, nil)
	blobs.On("RetrievalURL", mock.Anything, mock.Anything).Return(mockURL, nil)
	records.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("write failed")).Once()

	_, err := form.Submit(context.Background())

	var ierr *domain.IntakeError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, domain.PhasePersist, ierr.Phase)

	view := form.View()
	assert.False(t, view.Submitted)
	assert.Equal(t, domain.MessageBackendFailure, view.Error)
	assert.Equal(t, "Dr. A", view.Fields.Name)

	records.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return("doc-2", nil).Once()

	sub, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "doc-2", sub.ID)
	assert.True(t, form.View().Submitted)
	assert.Empty(t, form.View().Error)
}

func TestSubmit_AfterSuccessIsRejected(t *testing.T) {
	blobs := storage.NewMemoryStore("b")
	form := NewForm(blobs, newCountingRecords())
	require.NoError(t, form.SelectFile(pngPicture()))

	_, err := form.Submit(context.Background())
	require.NoError(t, err)

	_, err = form.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	assert.ErrorIs(t, form.UpdateField(domain.FieldName, "x"), domain.ErrAlreadySubmitted)
	assert.ErrorIs(t, form.SelectFile(pngPicture()), domain.ErrAlreadySubmitted)
}

func TestSubmit_OverlappingSubmitIsRejected(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	blobs := new(MockBlobStore)
	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(storage.Handle{Key: "k"}, nil).Once()
	blobs.On("RetrievalURL", mock.Anything, mock.Anything).Return(mockURL, nil).Once()

	records := newCountingRecords()
	form := NewForm(blobs, records)
	require.NoError(t, form.SelectFile(pngPicture()))

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background())
		done <- err
	}()

	<-started
	assert.True(t, form.View().Busy)
	_, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubmissionInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, records.count())
	assert.False(t, form.View().Busy)
}

func TestUpdateField_LastWriteWins(t *testing.T) {
	form := NewForm(storage.NewMemoryStore("b"), newCountingRecords())

	require.NoError(t, form.UpdateField(domain.FieldSpecialty, "Cardio"))
	require.NoError(t, form.UpdateField(domain.FieldSpecialty, "Cardiology"))

	view := form.View()
	assert.Equal(t, "Cardiology", view.Fields.Specialty)
	assert.Equal(t, domain.DoctorFields{Specialty: "Cardiology"}, view.Fields)
	assert.ErrorIs(t, form.UpdateField(domain.Field("age"), "40"), domain.ErrUnknownField)
}

func TestSelectFile_NilKeepsPrevious(t *testing.T) {
	form := NewForm(storage.NewMemoryStore("b"), newCountingRecords())

	require.NoError(t, form.SelectFile(pngPicture()))
	require.NoError(t, form.SelectFile(nil))

	assert.Equal(t, "pic.png", form.View().PictureName)
}

func TestKeyFuncs(t *testing.T) {
	assert.Equal(t, "doctorProfilePictures/pic.png", PrefixKey(DefaultKeyPrefix)("pic.png"))
	assert.Equal(t, "doctorProfilePictures/pic.png", PrefixKey(DefaultKeyPrefix)("../../pic.png"))
	assert.Equal(t, "doctorProfilePictures/unnamed", PrefixKey(DefaultKeyPrefix)(""))
	assert.Equal(t, "doctorProfilePictures/ my pic.png ", PrefixKey(DefaultKeyPrefix)(" my pic.png "))

	unique := UniqueKey(DefaultKeyPrefix)
	a, b := unique("pic.png"), unique("pic.png")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, DefaultKeyPrefix))
	assert.True(t, strings.HasSuffix(a, "-pic.png"))
}

func TestSubmit_DetectsContentType(t *testing.T) {
	blobs := new(MockBlobStore)
	form := NewForm(blobs, newCountingRecords(), WithKeyFunc(PrefixKey("p/")))
	require.NoError(t, form.SelectFile(&domain.Picture{Name: "pic.png", Data: []byte("\x89PNG\r\n\x1a\n0000")}))

	blobs.On("Upload", mock.Anything, "p/pic.png", mock.Anything, int64(12), "image/png").Return(storage.Handle{Key: "p/pic.png"}, nil).Once()
	blobs.On("RetrievalURL", mock.Anything, mock.Anything).Return(mockURL, nil).Once()

	_, err := form.Submit(context.Background())
	require.NoError(t, err)
	blobs.AssertExpectations(t)
}

type countingRecords struct {
	sync.Mutex
	n int
}

func newCountingRecords() *countingRecords {
	return &countingRecords{}
}

func (c *countingRecords) Insert(_ context.Context, _ string, _ domain.DoctorRecord) (string, error) {
	c.Lock()
	defer c.Unlock()
	c.n++
	return "id", nil
}

func (c *countingRecords) count() int {
	c.Lock()
	defer c.Unlock()
	return c.n
}
