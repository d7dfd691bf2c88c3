package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"masteryloop_backend/internal/model"
	"masteryloop_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCareerStore struct {
	mu       sync.Mutex
	profiles map[uint]*model.CareerProfile
	saveErr  error
	gets     int
}

func newFakeCareerStore() *fakeCareerStore {
	return &fakeCareerStore{profiles: make(map[uint]*model.CareerProfile)}
}

func (f *fakeCareerStore) Save(userID uint, profile *model.CareerProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	stored := *profile
	f.profiles[userID] = &stored
	return nil
}

func (f *fakeCareerStore) Get(userID uint) (*model.CareerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	p, ok := f.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

type fakeSprintStore struct {
	mu     sync.Mutex
	tasks  map[uint]*model.SprintTask
	order  []uint
	nextID uint
}

func newFakeSprintStore() *fakeSprintStore {
	return &fakeSprintStore{tasks: make(map[uint]*model.SprintTask)}
}

func (f *fakeSprintStore) Create(task *model.SprintTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	task.ID = f.nextID
	if task.Status == "" {
		task.Status = model.SprintTodo
	}
	stored := *task
	f.tasks[task.ID] = &stored
	f.order = append(f.order, task.ID)
	return nil
}

func (f *fakeSprintStore) ListByUser(userID uint, offset, limit int) ([]model.SprintTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []model.SprintTask
	for _, id := range f.order {
		if t, ok := f.tasks[id]; ok && t.UserID == userID {
			all = append(all, *t)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeSprintStore) CountByUser(userID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, t := range f.tasks {
		if t.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeSprintStore) UpdateStatus(userID, taskID uint, status model.SprintTaskStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok || t.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	t.Status = status
	return nil
}

func (f *fakeSprintStore) Delete(userID, taskID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok || t.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(f.tasks, taskID)
	return nil
}

type staticResumeReader struct {
	text string
	err  error
}

func (r *staticResumeReader) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	return r.text, r.err
}

func sampleProfile() *model.CareerProfile {
	return &model.CareerProfile{
		TargetRole:     "Backend Engineer",
		ReadinessScore: 55,
		Gaps: model.SkillGaps{
			{ID: "g1", Skill: "Distributed systems", Status: model.GapCritical},
		},
		Sprint: model.SprintItems{
			{Title: "Build a job queue", Type: "project", Time: "2 weeks"},
		},
		ResumeIssues: model.StringList{"No metrics on impact"},
	}
}

func newTestCareerService(store *fakeCareerStore, sprints *fakeSprintStore, gen Generator, reader ResumeReader) *CareerService {
	if gen == nil {
		gen = &MockGenerator{}
	}
	if reader == nil {
		reader = &staticResumeReader{text: "resume text"}
	}
	return NewCareerService(store, sprints, gen, reader)
}

func TestCareerSaveThenGetServesMirror(t *testing.T) {
	store := newFakeCareerStore()
	s := newTestCareerService(store, newFakeSprintStore(), nil, nil)

	require.NoError(t, s.Save(7, sampleProfile()))

	got, err := s.Get(7)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.TargetRole)
	assert.Equal(t, uint(7), got.UserID)
	// The read was answered by the mirror, not the database.
	assert.Equal(t, 0, store.gets)
}

func TestCareerSaveIsUpsert(t *testing.T) {
	store := newFakeCareerStore()
	s := newTestCareerService(store, newFakeSprintStore(), nil, nil)

	require.NoError(t, s.Save(7, sampleProfile()))

	updated := sampleProfile()
	updated.ReadinessScore = 80
	require.NoError(t, s.Save(7, updated))

	got, err := s.Get(7)
	require.NoError(t, err)
	assert.Equal(t, 80, got.ReadinessScore)

	store.mu.Lock()
	assert.Len(t, store.profiles, 1, "one durable row per user")
	store.mu.Unlock()
}

func TestCareerGetHydratesMirrorFromStore(t *testing.T) {
	store := newFakeCareerStore()
	durable := sampleProfile()
	durable.UserID = 7
	require.NoError(t, store.Save(7, durable))

	s := newTestCareerService(store, newFakeSprintStore(), nil, nil)

	got, err := s.Get(7)
	require.NoError(t, err)
	assert.Equal(t, 55, got.ReadinessScore)
	assert.Equal(t, 1, store.gets)

	// Second read comes from the mirror.
	_, err = s.Get(7)
	require.NoError(t, err)
	assert.Equal(t, 1, store.gets)
}

func TestCareerHydrateNeverClobbersMirror(t *testing.T) {
	store := newFakeCareerStore()
	s := newTestCareerService(store, newFakeSprintStore(), nil, nil)

	fresh := sampleProfile()
	fresh.ReadinessScore = 90
	require.NoError(t, s.Save(7, fresh))

	stale := sampleProfile()
	stale.ReadinessScore = 10
	s.hydrate(7, stale)

	got, err := s.Get(7)
	require.NoError(t, err)
	assert.Equal(t, 90, got.ReadinessScore, "a populated mirror entry wins over a hydration")
}

func TestCareerGetMissing(t *testing.T) {
	s := newTestCareerService(newFakeCareerStore(), newFakeSprintStore(), nil, nil)

	_, err := s.Get(7)
	assert.ErrorIs(t, err, util.ErrProfileNotFound)
}

func TestCareerSaveSurvivesDurableFailure(t *testing.T) {
	store := newFakeCareerStore()
	store.saveErr = errors.New("db down")
	s := newTestCareerService(store, newFakeSprintStore(), nil, nil)

	// The mirror accepted the write, so the caller sees success even
	// though the durable upsert failed.
	err := s.Save(7, sampleProfile())
	assert.NoError(t, err)

	// The mirror still serves the write.
	got, err := s.Get(7)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.TargetRole)
}

func TestAnalyzeResumeGeneratesAndSaves(t *testing.T) {
	store := newFakeCareerStore()
	gen := &MockGenerator{Profile: sampleProfile()}
	s := newTestCareerService(store, newFakeSprintStore(), gen, nil)

	profile, err := s.AnalyzeResume(context.Background(), 7, []byte("raw"), "resume.txt", "Backend Engineer")
	require.NoError(t, err)
	assert.Equal(t, 55, profile.ReadinessScore)

	got, err := s.Get(7)
	require.NoError(t, err)
	assert.Equal(t, profile.ReadinessScore, got.ReadinessScore)
}

func TestAnalyzeResumeUnreadableFileStillAnalyzes(t *testing.T) {
	gen := &MockGenerator{Profile: sampleProfile()}
	reader := &staticResumeReader{err: util.ErrResumeUnreadable}
	s := newTestCareerService(newFakeCareerStore(), newFakeSprintStore(), gen, reader)

	_, err := s.AnalyzeResume(context.Background(), 7, []byte{0xff}, "resume.bin", "Backend Engineer")
	require.NoError(t, err)
	assert.Contains(t, gen.Calls, "GenerateCareerProfile")
}

func TestAnalyzeResumeGeneratorFailure(t *testing.T) {
	s := newTestCareerService(newFakeCareerStore(), newFakeSprintStore(), &MockGenerator{}, nil)

	_, err := s.AnalyzeResume(context.Background(), 7, []byte("raw"), "resume.txt", "Backend Engineer")
	assert.Error(t, err)

	_, err = s.Get(7)
	assert.ErrorIs(t, err, util.ErrProfileNotFound, "a failed analysis must not leave a partial profile")
}

func TestSprintTaskLifecycle(t *testing.T) {
	sprints := newFakeSprintStore()
	s := newTestCareerService(newFakeCareerStore(), sprints, nil, nil)

	task, err := s.CreateSprintTask(7, SprintTaskInput{Title: "Build a job queue", Type: "project", Time: "2 weeks"})
	require.NoError(t, err)
	assert.Equal(t, model.SprintTodo, task.Status)

	require.NoError(t, s.UpdateSprintTaskStatus(7, task.ID, model.SprintInProgress))
	require.NoError(t, s.UpdateSprintTaskStatus(7, task.ID, model.SprintDone))

	err = s.UpdateSprintTaskStatus(7, task.ID, "nonsense")
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	err = s.UpdateSprintTaskStatus(8, task.ID, model.SprintDone)
	assert.ErrorIs(t, err, util.ErrSprintTaskNotFound, "tasks are scoped to their owner")

	require.NoError(t, s.DeleteSprintTask(7, task.ID))
	err = s.DeleteSprintTask(7, task.ID)
	assert.ErrorIs(t, err, util.ErrSprintTaskNotFound)

	tasks, total, err := s.ListSprintTasks(7, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Zero(t, total)
}

func TestSprintTaskListPaginates(t *testing.T) {
	sprints := newFakeSprintStore()
	s := newTestCareerService(newFakeCareerStore(), sprints, nil, nil)

	titles := []string{"Read TCP paper", "Build a job queue", "Mock interview"}
	for _, title := range titles {
		_, err := s.CreateSprintTask(7, SprintTaskInput{Title: title})
		require.NoError(t, err)
	}
	// Another user's task stays out of the page and the total.
	_, err := s.CreateSprintTask(8, SprintTaskInput{Title: "Not yours"})
	require.NoError(t, err)

	tasks, total, err := s.ListSprintTasks(7, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Read TCP paper", tasks[0].Title)

	tasks, total, err = s.ListSprintTasks(7, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Mock interview", tasks[0].Title)

	// Out-of-range pages are empty, defaults normalize bad input.
	tasks, _, err = s.ListSprintTasks(7, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	tasks, _, err = s.ListSprintTasks(7, 0, 0)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}
