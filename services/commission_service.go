package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/metrics"
	"github.com/HSouheill/webinar_backend/models"
)

var hundred = decimal.NewFromInt(100)

// PackageFinder looks up packages by id
type PackageFinder interface {
	FindByID(ctx context.Context, id string) (*models.Package, error)
}

// CommissionSettingsSource provides the rate table of a role
type CommissionSettingsSource interface {
	CommissionLevels(ctx context.Context, table string) ([]models.CommissionLevelSetting, error)
}

// TableForRole picks the rate table from the viewer's role. The same table
// applies to every level of the viewer's tree whatever the downstream roles.
func TableForRole(role string) string {
	if role == models.RoleClient {
		return models.TableConsumidor
	}
	return models.TableImpulsor
}

// CalculateLevel computes the entries of one level. Profiles without a
// package, with a non-positive activation fee, or whose discount leaves
// nothing paid contribute nothing. An inactive level records no entries.
// Each commission is rounded half-up to cents and the level earnings are the
// sum of the rounded entries.
func CalculateLevel(level int, profiles []models.UserProfile, setting models.CommissionLevelSetting, packages map[string]*models.Package) models.LevelEarnings {
	result := models.LevelEarnings{
		Level:      level,
		Percentage: setting.Percentage,
		Active:     setting.Active,
		Referrals:  len(profiles),
		Entries:    []models.CommissionEntry{},
	}
	if !setting.Active {
		return result
	}

	rate := decimal.NewFromFloat(setting.Percentage).Div(hundred)
	earnings := decimal.Zero

	for _, p := range profiles {
		pkg := packages[p.SelectedPackageID]
		if pkg == nil {
			continue
		}

		fee := decimal.NewFromFloat(pkg.ActivationFee)
		if !fee.IsPositive() {
			continue
		}

		paid := fee.Sub(decimal.NewFromFloat(p.DiscountApplied))
		if !paid.IsPositive() {
			continue
		}

		commission := paid.Mul(rate).Round(2)
		earnings = earnings.Add(commission)

		result.Entries = append(result.Entries, models.CommissionEntry{
			Level:      level,
			FromUser:   p.Username,
			PackageID:  p.SelectedPackageID,
			AmountPaid: paid.Round(2).InexactFloat64(),
			Commission: commission.InexactFloat64(),
		})
	}

	result.Earnings = earnings.InexactFloat64()
	return result
}

// CommissionService builds commission reports for dashboard viewers
type CommissionService struct {
	profiles  ProfileStore
	referrals *ReferralService
	packages  PackageFinder
	settings  CommissionSettingsSource
}

func NewCommissionService(profiles ProfileStore, referrals *ReferralService, packages PackageFinder, settings CommissionSettingsSource) *CommissionService {
	return &CommissionService{
		profiles:  profiles,
		referrals: referrals,
		packages:  packages,
		settings:  settings,
	}
}

// Report computes the viewer's commissions over the four levels of their tree.
// role is the authenticated role and picks the rate table; the stored profile
// role is used only when it is empty.
func (s *CommissionService) Report(ctx context.Context, viewerUID, role string) (*models.CommissionReport, error) {
	viewer, err := s.profiles.FindByUID(ctx, viewerUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer profile: %w", err)
	}

	if role == "" {
		role = viewer.Role
	}
	table := TableForRole(role)
	settings, err := s.settings.CommissionLevels(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s commission levels: %w", table, err)
	}

	levels, err := s.referrals.FetchTree(ctx, viewer.Username)
	if err != nil {
		return nil, err
	}

	packages, err := s.resolvePackages(ctx, levels)
	if err != nil {
		return nil, err
	}

	metrics.CommissionRunsTotal.WithLabelValues(table).Inc()
	return BuildReport(viewer.Username, table, levels, settings, packages), nil
}

// BuildReport assembles per-level earnings. Personal earnings are level 1,
// team earnings levels 2 and below, and total is their sum.
func BuildReport(viewer, table string, levels [][]models.UserProfile, settings []models.CommissionLevelSetting, packages map[string]*models.Package) *models.CommissionReport {
	report := &models.CommissionReport{
		Viewer: viewer,
		Table:  table,
		Levels: make([]models.LevelEarnings, 0, len(levels)),
	}

	personal := decimal.Zero
	team := decimal.Zero
	for i, profiles := range levels {
		var setting models.CommissionLevelSetting
		if i < len(settings) {
			setting = settings[i]
		}

		le := CalculateLevel(i+1, profiles, setting, packages)
		report.Levels = append(report.Levels, le)

		earned := decimal.NewFromFloat(le.Earnings)
		if i == 0 {
			personal = personal.Add(earned)
		} else {
			team = team.Add(earned)
		}
	}

	report.PersonalEarnings = personal.InexactFloat64()
	report.TeamEarnings = team.InexactFloat64()
	report.TotalEarnings = personal.Add(team).InexactFloat64()
	return report
}

// resolvePackages loads every distinct package selected in the tree. Unknown
// or malformed ids resolve to nothing.
func (s *CommissionService) resolvePackages(ctx context.Context, levels [][]models.UserProfile) (map[string]*models.Package, error) {
	packages := map[string]*models.Package{}
	for _, level := range levels {
		for _, p := range level {
			id := p.SelectedPackageID
			if id == "" {
				continue
			}
			if _, done := packages[id]; done {
				continue
			}

			pkg, err := s.packages.FindByID(ctx, id)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidID) {
					logging.Warn("Profile references unknown package", "username", p.Username, "packageId", id)
					packages[id] = nil
					continue
				}
				return nil, fmt.Errorf("failed to load package %s: %w", id, err)
			}
			packages[id] = pkg
		}
	}
	return packages, nil
}
