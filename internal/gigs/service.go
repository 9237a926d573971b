package gigs

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/pagination"
)

// Service exposes gig operations.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*GigDTO, error)
	Create(ctx context.Context, authorID string, input CreateGigInput) (*GigDTO, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	Tags(ctx context.Context) ([]string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("gig repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*GigDTO, error) {
	gig, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load gig")
	}
	if gig == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "gig not found")
	}
	return FromModel(gig), nil
}

func (s *service) Create(ctx context.Context, authorID string, input CreateGigInput) (*GigDTO, error) {
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "author is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Payout <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payout must be greater than zero")
	}

	gig := &models.Gig{
		Title:       title,
		Description: trimmedOrNil(input.Description),
		Payout:      input.Payout,
		Location:    trimmedOrNil(input.Location),
		AuthorID:    authorID,
	}
	for _, tag := range NormalizeTags(input.Tags) {
		gig.Tags = append(gig.Tags, models.GigTag{Tag: tag})
	}

	if err := s.repo.Create(ctx, gig); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create gig")
	}
	return FromModel(gig), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.MinPayout != nil && filter.MaxPayout != nil && *filter.MinPayout > *filter.MaxPayout {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minPayout must not exceed maxPayout")
	}
	cursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	rows, err := s.repo.List(ctx, ListQuery{
		Tag:       strings.ToLower(strings.TrimSpace(filter.Tag)),
		Query:     strings.TrimSpace(filter.Query),
		MinPayout: filter.MinPayout,
		MaxPayout: filter.MaxPayout,
		Limit:     limit + 1,
		Cursor:    cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list gigs")
	}

	rows, next := pagination.Page(rows, limit, func(g models.Gig) pagination.Cursor {
		return pagination.Cursor{CreatedAt: g.CreatedAt, ID: g.ID}
	})
	result := &ListResult{Gigs: make([]GigDTO, 0, len(rows)), NextCursor: next}
	for i := range rows {
		result.Gigs = append(result.Gigs, *FromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.repo.DistinctTags(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list tags")
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// NormalizeTags lower-cases, trims and de-duplicates tags, sorted.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
