package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/webinar_backend/middleware"
	"github.com/HSouheill/webinar_backend/models"
)

type TreeFetcher interface {
	Tree(ctx context.Context, root string) (*models.ReferralTree, error)
}

// ProfileController serves the caller's profile and referral tree
type ProfileController struct {
	profiles middleware.ProfileLookup
	tree     TreeFetcher
}

func NewProfileController(profiles middleware.ProfileLookup, tree TreeFetcher) *ProfileController {
	return &ProfileController{profiles: profiles, tree: tree}
}

func (pc *ProfileController) GetProfile(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := pc.profiles.FindByUID(ctx, middleware.UID(c))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", profile)
}

func (pc *ProfileController) GetReferralTree(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := pc.profiles.FindByUID(ctx, middleware.UID(c))
	if err != nil {
		return respondError(c, err)
	}

	tree, err := pc.tree.Tree(ctx, profile.Username)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, http.StatusOK, "", tree)
}
