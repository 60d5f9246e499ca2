package models

import "time"

// User roles
const (
	RoleAdmin    = "admin"
	RoleClient   = "client"
	RoleImpulsor = "impulsor_de_impacto"
	// RoleService is carried by server-to-server tokens, never by a profile
	RoleService = "service"
)

// UserProfile is the Firestore document at users/{uid}. SponsorUsername is the
// parent edge of the referral tree.
type UserProfile struct {
	UID               string    `json:"uid" firestore:"uid"`
	Username          string    `json:"username" firestore:"username"`
	Email             string    `json:"email,omitempty" firestore:"email,omitempty"`
	FullName          string    `json:"fullName,omitempty" firestore:"fullName,omitempty"`
	SponsorUsername   string    `json:"sponsorUsername,omitempty" firestore:"sponsorUsername,omitempty"`
	Role              string    `json:"role" firestore:"role"`
	SelectedPackageID string    `json:"selectedPackageId,omitempty" firestore:"selectedPackageId,omitempty"`
	DiscountApplied   float64   `json:"discountApplied" firestore:"discountApplied"`
	FCMToken          string    `json:"-" firestore:"fcmToken,omitempty"`
	CreatedAt         time.Time `json:"createdAt,omitempty" firestore:"createdAt,omitempty"`
}

// ReferralTree lists usernames per level, level 1 first
type ReferralTree struct {
	Root   string     `json:"root"`
	Levels [][]string `json:"levels"`
}
