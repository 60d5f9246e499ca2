package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/models"
	"github.com/HSouheill/webinar_backend/repositories"
	"github.com/HSouheill/webinar_backend/utils"
)

// ProfileStore reads user profiles
type ProfileStore interface {
	FindByUID(ctx context.Context, uid string) (*models.UserProfile, error)
	FindByUsername(ctx context.Context, username string) (*models.UserProfile, error)
	FindBySponsors(ctx context.Context, usernames []string) ([]models.UserProfile, error)
}

// ReferralService walks the sponsor tree below a user
type ReferralService struct {
	profiles  ProfileStore
	batchSize int
}

func NewReferralService(profiles ProfileStore) *ReferralService {
	return &ReferralService{
		profiles:  profiles,
		batchSize: repositories.MaxInQueryValues,
	}
}

// FetchTree returns models.MaxCommissionLevels levels below root. Level n holds
// every profile sponsored by a username of level n-1, level 1 being root's
// direct sponsees. A username already placed in the tree, root included, is
// never placed again, so sponsor cycles and duplicates cannot fan out. Any
// error abandons the whole fetch. A viewer without a username sponsors nobody.
func (s *ReferralService) FetchTree(ctx context.Context, root string) ([][]models.UserProfile, error) {
	levels := make([][]models.UserProfile, models.MaxCommissionLevels)
	if root == "" {
		for i := range levels {
			levels[i] = []models.UserProfile{}
		}
		return levels, nil
	}
	seen := map[string]bool{root: true}
	parents := []string{root}

	for depth := 0; depth < models.MaxCommissionLevels; depth++ {
		level := []models.UserProfile{}
		if len(parents) > 0 {
			found, err := s.fetchSponsored(ctx, parents)
			if err != nil {
				return nil, fmt.Errorf("level %d: %w", depth+1, err)
			}
			for _, p := range found {
				if p.Username == "" || seen[p.Username] {
					logging.Warn("Skipping repeated profile in referral tree",
						"root", root, "level", depth+1, "username", p.Username, "uid", p.UID)
					continue
				}
				seen[p.Username] = true
				level = append(level, p)
			}
		}

		levels[depth] = level
		parents = make([]string, 0, len(level))
		for _, p := range level {
			parents = append(parents, p.Username)
		}
	}

	return levels, nil
}

// fetchSponsored queries all batches of one level concurrently and returns the
// results in batch order.
func (s *ReferralService) fetchSponsored(ctx context.Context, sponsors []string) ([]models.UserProfile, error) {
	batches := utils.Chunk(sponsors, s.batchSize)
	results := make([][]models.UserProfile, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			found, err := s.profiles.FindBySponsors(gctx, batch)
			if err != nil {
				return err
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.UserProfile
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// Tree returns the usernames of each level below root
func (s *ReferralService) Tree(ctx context.Context, root string) (*models.ReferralTree, error) {
	levels, err := s.FetchTree(ctx, root)
	if err != nil {
		return nil, err
	}

	tree := &models.ReferralTree{Root: root, Levels: make([][]string, len(levels))}
	for i, level := range levels {
		names := make([]string, 0, len(level))
		for _, p := range level {
			names = append(names, p.Username)
		}
		tree.Levels[i] = names
	}
	return tree, nil
}
