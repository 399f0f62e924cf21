// Package injury converts team injury reports into prediction adjustments
// and provides the cached injury lookup path.
package injury

import (
	"strings"

	"github.com/XavierBriggs/courtline/pkg/models"
	"github.com/XavierBriggs/courtline/pkg/normalize"
)

const (
	// SelfInjuredAdjustment applies when the target player appears on the
	// injury report themselves
	SelfInjuredAdjustment = 0.30

	// MaxAdjustment caps the uplift so sparse injury signal cannot inflate
	// a projection unboundedly
	MaxAdjustment = 1.30

	// rotationImpactThreshold filters the report to rotation-relevant players
	rotationImpactThreshold = 80
)

// ComputeAdjustment maps a team's injury list to a multiplicative factor in
// [0.30, 1.30] for the target player's projection. An injured target is a
// large downward adjustment; injured high-impact teammates are a bounded
// uplift, since their absence increases the target's shot and possession
// share.
func ComputeAdjustment(targetPlayer, targetTeam string, injuries []models.InjuryRecord) float64 {
	target := normalize.Normalize(targetPlayer)

	for _, rec := range injuries {
		if isSamePlayer(target, rec.PlayerName) {
			return SelfInjuredAdjustment
		}
	}

	sum := 0
	top := 0
	for _, rec := range injuries {
		if rec.ImpactScore < rotationImpactThreshold {
			continue
		}
		sum += rec.ImpactScore
		if rec.ImpactScore > top {
			top = rec.ImpactScore
		}
	}

	if sum == 0 {
		return 1.0
	}

	adj := 1.0
	switch {
	case sum >= 180:
		adj = 1.25
	case sum >= 120:
		adj = 1.15
	case sum >= 80:
		adj = 1.08
	}

	switch {
	case top >= 100:
		adj += 0.10
	case top >= 90:
		adj += 0.05
	}

	if adj > MaxAdjustment {
		adj = MaxAdjustment
	}
	return adj
}

// isSamePlayer substring-matches normalized names in either direction, so
// "J. Alvarado" and "Jose Alvarado" collide the way providers render them
func isSamePlayer(normalizedTarget, candidate string) bool {
	if normalizedTarget == "" {
		return false
	}
	c := normalize.Normalize(candidate)
	if c == "" {
		return false
	}
	return strings.Contains(c, normalizedTarget) || strings.Contains(normalizedTarget, c)
}
