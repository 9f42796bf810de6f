// Package identity decides whether the viewer owns a profile.
package identity

import (
	"strings"

	"github.com/promorang/promorang-cli/pkg/models"
)

// State is the ownership resolution state.
type State int

const (
	// StateUnknown means the profile or the viewer is not loaded yet.
	StateUnknown State = iota
	// StateResolved means IsOwner is meaningful.
	StateResolved
)

func (s State) String() string {
	if s == StateResolved {
		return "resolved"
	}
	return "unknown"
}

// Ownership is the result of comparing a profile with the viewer.
type Ownership struct {
	State   State `json:"-"`
	IsOwner bool  `json:"is_owner"`
}

// Known reports whether the comparison could be made.
func (o Ownership) Known() bool {
	return o.State == StateResolved
}

// Resolve compares profile with viewer. When both ids are present they are
// compared as exact strings and usernames are ignored; usernames are only
// compared when an id is empty on either side.
func Resolve(profile *models.ProfileUser, viewer *models.SessionUser) Ownership {
	if profile == nil || viewer == nil {
		return Ownership{State: StateUnknown}
	}

	if profile.ID != "" && viewer.ID != "" {
		return Ownership{State: StateResolved, IsOwner: profile.ID == viewer.ID}
	}

	pu := strings.TrimSpace(profile.Username)
	vu := strings.TrimSpace(viewer.Username)
	return Ownership{
		State:   StateResolved,
		IsOwner: pu != "" && strings.EqualFold(pu, vu),
	}
}
