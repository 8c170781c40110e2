package repository

import (
	"context"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	sqlite3migrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwozniak/jobrank/modules/jobs/model"
	"github.com/mwozniak/jobrank/modules/jobs/ports"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", "file::memory:?cache=shared&_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	driver, err := sqlite3migrate.WithInstance(db.DB, &sqlite3migrate.Config{})
	require.NoError(t, err)
	m, err := migrate.NewWithDatabaseInstance("file://../../../migrations", "sqlite3", driver)
	require.NoError(t, err)
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func sampleJob(id string) *model.Job {
	return &model.Job{
		JobID:                        id,
		Title:                       "Software Developer Co-op",
		Company:                     "Acme Corp",
		Location:                   "Waterloo, ON",
		Openings:                   1,
		Applications:                0,
		Summary:                    "Work on backend systems.",
		Responsibilities:           "Build and maintain services.",
		Skills:                     "Go, SQL, Docker",
		ApplicationDocumentsRequired: []string{"resume", "transcript"},
		TargetedDegreesDisciplines:   []string{"Computer Science"},
	}
}

func TestJobRepository_UpsertAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	job := sampleJob("job-1")
	require.NoError(t, repo.Upsert(ctx, job))

	got, err := repo.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Software Developer Co-op", got.Title)
	assert.Equal(t, []string{"resume", "transcript"}, got.ApplicationDocumentsRequired)
	assert.True(t, got.IsActive)
	assert.False(t, got.ScrapedAt.IsZero())
}

func TestJobRepository_UpsertUpdatesExisting(t *testing.T) {
	db := openTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	job := sampleJob("job-2")
	require.NoError(t, repo.Upsert(ctx, job))
	firstScrapedAt := job.ScrapedAt

	updated := sampleJob("job-2")
	updated.Title = "Senior Software Developer Co-op"
	updated.ScrapedAt = firstScrapedAt
	require.NoError(t, repo.Upsert(ctx, updated))

	got, err := repo.Get(ctx, "job-2")
	require.NoError(t, err)
	assert.Equal(t, "Senior Software Developer Co-op", got.Title)
}

func TestJobRepository_UpsertBatch_CommitsAll(t *testing.T) {
	db := openTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	jobs := []*model.Job{sampleJob("batch-1"), sampleJob("batch-2"), sampleJob("batch-3")}
	require.NoError(t, repo.UpsertBatch(ctx, jobs))

	count, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestJobRepository_UpsertBatch_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	jobs := []*model.Job{sampleJob("batch-ok"), {JobID: ""}}
	err := repo.UpsertBatch(ctx, jobs)
	require.ErrorIs(t, err, model.ErrJobIDRequired)

	_, getErr := repo.Get(ctx, "batch-ok")
	assert.ErrorIs(t, getErr, model.ErrJobNotFound)
}

func TestJobRepository_UpsertBatch_EmptyIsNoop(t *testing.T) {
	db := openTestDB(t)
	repo := NewJobRepository(db)
	require.NoError(t, repo.UpsertBatch(context.Background(), nil))
}

func TestJobRepository_GetNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewJobRepository(db)
	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrJobNotFound)
}

func TestJobRepository_List_ExcludesInactiveByDefault(t *testing.T) {
	db := openTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, sampleJob("job-a")))
	require.NoError(t, repo.Upsert(ctx, sampleJob("job-b")))
	_, err := repo.MarkInactive(ctx, []string{"job-a"})
	require.NoError(t, err)

	active, err := repo.List(ctx, ports.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, "job-a", active[0].JobID)

	all, err := repo.List(ctx, ports.JobFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestJobRepository_MarkInactive_AllWhenSeenEmpty(t *testing.T) {
	db := openTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, sampleJob("job-x")))
	n, err := repo.MarkInactive(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.Get(ctx, "job-x")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestJobRepository_Delete(t *testing.T) {
	db := openTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, sampleJob("job-del")))
	require.NoError(t, repo.Delete(ctx, "job-del"))

	_, err := repo.Get(ctx, "job-del")
	assert.ErrorIs(t, err, model.ErrJobNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "job-del"), model.ErrJobNotFound)
}

func TestJobRepository_Stats(t *testing.T) {
	db := openTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, sampleJob("job-s1")))
	require.NoError(t, repo.Upsert(ctx, sampleJob("job-s2")))

	count, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
