package gigs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/gigboard-backend/pkg/db/dbtest"
	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, Repository) {
	t.Helper()
	repo := NewRepository(dbtest.New(t).DB())
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func strPtr(v string) *string { return &v }

func int64Ptr(v int64) *int64 { return &v }

func seedGig(t *testing.T, repo Repository, title string, payout int64, createdAt time.Time, tags ...string) *models.Gig {
	t.Helper()
	gig := &models.Gig{
		Title:     title,
		Payout:    payout,
		AuthorID:  "poster-1",
		CreatedAt: createdAt,
	}
	for _, tag := range tags {
		gig.Tags = append(gig.Tags, models.GigTag{Tag: tag})
	}
	require.NoError(t, repo.Create(context.Background(), gig))
	return gig
}

func TestCreateNormalisesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	gig, err := svc.Create(ctx, "poster-1", CreateGigInput{
		Title:       "  Paint my fence ",
		Description: strPtr("   "),
		Payout:      1500,
		Location:    strPtr("Lagos"),
		Tags:        []string{"Paint", "outdoor", "paint", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Paint my fence", gig.Title)
	assert.Nil(t, gig.Description)
	require.NotNil(t, gig.Location)
	assert.Equal(t, []string{"outdoor", "paint"}, gig.Tags)
	assert.Equal(t, "poster-1", gig.AuthorID)

	loaded, err := svc.Get(ctx, gig.ID)
	require.NoError(t, err)
	assert.Equal(t, gig.ID, loaded.ID)
	assert.Equal(t, []string{"outdoor", "paint"}, loaded.Tags)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "poster-1", CreateGigInput{Title: " ", Payout: 10})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, "poster-1", CreateGigInput{Title: "t", Payout: 0})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, "", CreateGigInput{Title: "t", Payout: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthenticated))
}

func TestGetMissing(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListFilters(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	fence := seedGig(t, repo, "Paint my fence", 1500, base, "paint", "outdoor")
	logo := seedGig(t, repo, "Design a logo", 5000, base.Add(time.Minute), "design")
	mural := seedGig(t, repo, "Mural painting", 9000, base.Add(2*time.Minute), "paint", "art")

	all, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all.Gigs, 3)
	assert.Equal(t, mural.ID, all.Gigs[0].ID)
	assert.Equal(t, fence.ID, all.Gigs[2].ID)
	assert.Empty(t, all.NextCursor)

	byTag, err := svc.List(ctx, ListFilter{Tag: "PAINT"})
	require.NoError(t, err)
	require.Len(t, byTag.Gigs, 2)
	assert.Equal(t, []string{"art", "paint"}, byTag.Gigs[0].Tags)

	byQuery, err := svc.List(ctx, ListFilter{Query: "LOGO"})
	require.NoError(t, err)
	require.Len(t, byQuery.Gigs, 1)
	assert.Equal(t, logo.ID, byQuery.Gigs[0].ID)

	byPayout, err := svc.List(ctx, ListFilter{MinPayout: int64Ptr(2000), MaxPayout: int64Ptr(6000)})
	require.NoError(t, err)
	require.Len(t, byPayout.Gigs, 1)
	assert.Equal(t, logo.ID, byPayout.Gigs[0].ID)

	_, err = svc.List(ctx, ListFilter{MinPayout: int64Ptr(10), MaxPayout: int64Ptr(5)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.List(ctx, ListFilter{Cursor: "not-a-cursor!"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListPaginates(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedGig(t, repo, "gig", 100, base.Add(time.Duration(i)*time.Minute))
	}

	first, err := svc.List(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Gigs, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(ctx, ListFilter{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Gigs, 2)
	assert.True(t, second.Gigs[0].CreatedAt.Before(first.Gigs[1].CreatedAt))

	third, err := svc.List(ctx, ListFilter{Limit: 2, Cursor: second.NextCursor})
	require.NoError(t, err)
	require.Len(t, third.Gigs, 1)
	assert.Empty(t, third.NextCursor)
}

func TestTags(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	tags, err := svc.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, tags)

	now := time.Now().UTC()
	seedGig(t, repo, "a", 1, now, "paint", "outdoor")
	seedGig(t, repo, "b", 1, now, "paint", "art")

	tags, err = svc.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"art", "outdoor", "paint"}, tags)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, NormalizeTags([]string{"B", " a ", "b", ""}))
	assert.Equal(t, []string{}, NormalizeTags(nil))
}

func TestListQueryMatchesWildcardsLiterally(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	literal := seedGig(t, repo, "100% organic garden", 1500, base)
	seedGig(t, repo, "1000 flyers", 900, base.Add(time.Minute))
	snake := seedGig(t, repo, "rename file_name.go", 700, base.Add(2*time.Minute))

	byPercent, err := svc.List(ctx, ListFilter{Query: "100%"})
	require.NoError(t, err)
	require.Len(t, byPercent.Gigs, 1)
	assert.Equal(t, literal.ID, byPercent.Gigs[0].ID)

	byUnderscore, err := svc.List(ctx, ListFilter{Query: "_"})
	require.NoError(t, err)
	require.Len(t, byUnderscore.Gigs, 1)
	assert.Equal(t, snake.ID, byUnderscore.Gigs[0].ID)

	byBackslash, err := svc.List(ctx, ListFilter{Query: `\`})
	require.NoError(t, err)
	assert.Empty(t, byBackslash.Gigs)
}
