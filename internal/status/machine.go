// Package status holds the review lifecycle of a document version as an
// explicit state machine. Every mutating path in the engine asks this package
// whether a transition is legal before touching the store, so the guards live
// in one place instead of being implied by column diffs.
package status

import (
	"fmt"

	"land-document-service/internal/domain"
	"land-document-service/internal/errors"
)

// Transition describes one legal status change.
type Transition struct {
	From string
	To   string
}

// Decisions a reviewer can record when completing a review.
const (
	DecisionApproved = domain.StatusApproved
	DecisionRejected = domain.StatusRejected
)

// Normalize maps the legacy "active" value written by early deployments onto
// approved. New rows never carry it.
func Normalize(s string) string {
	if s == domain.StatusLegacyActive {
		return domain.StatusApproved
	}
	return s
}

// Lock validates a reviewer claiming a version. A re-lock by the current
// holder is a no-op (ok=false); a claim on a version held by someone else
// fails with AlreadyLocked.
func Lock(current string, holder *string, reviewerID string) (Transition, bool, error) {
	current = Normalize(current)
	if current == domain.StatusUnderReview {
		if holder != nil && *holder == reviewerID {
			return Transition{}, false, nil
		}
		return Transition{}, false, errors.AlreadyLocked("Version is already locked by another reviewer", nil)
	}
	if current != domain.StatusPending {
		return Transition{}, false, errors.InvalidTransition(
			fmt.Sprintf("Cannot lock a version in status %q", current), nil)
	}
	return Transition{From: current, To: domain.StatusUnderReview}, true, nil
}

// Unlock releases a lock without a decision, returning the version to
// pending. Only the lock holder may release unless force is set.
func Unlock(current string, holder *string, reviewerID string, force bool) (Transition, error) {
	if Normalize(current) != domain.StatusUnderReview || holder == nil {
		return Transition{}, errors.InvalidTransition("Version is not under review", nil)
	}
	if !force && *holder != reviewerID {
		return Transition{}, errors.NotLockHolder("You are not the reviewer of record", nil)
	}
	return Transition{From: domain.StatusUnderReview, To: domain.StatusPending}, nil
}

// Complete releases a lock with a decision. Only the lock holder may decide.
func Complete(current string, holder *string, reviewerID string, decision string) (Transition, error) {
	if decision != DecisionApproved && decision != DecisionRejected {
		return Transition{}, errors.BadRequest(fmt.Sprintf("Unknown review decision %q", decision), nil)
	}
	if Normalize(current) != domain.StatusUnderReview || holder == nil {
		return Transition{}, errors.InvalidTransition("Version is not under review", nil)
	}
	if *holder != reviewerID {
		return Transition{}, errors.NotLockHolder("You are not the reviewer of record", nil)
	}
	return Transition{From: domain.StatusUnderReview, To: decision}, nil
}

// Archive validates explicitly retiring a version. A locked version is never
// archived underneath its reviewer.
func Archive(current string, holder *string) (Transition, error) {
	current = Normalize(current)
	if current == domain.StatusUnderReview || holder != nil {
		return Transition{}, errors.CannotArchiveLocked("Version is locked for review, unlock it first", nil)
	}
	if current == domain.StatusArchived {
		return Transition{}, errors.InvalidTransition("Version is already archived", nil)
	}
	return Transition{From: current, To: domain.StatusArchived}, nil
}

// Supersede decides what happens to the previous latest version when a newer
// one is uploaded. A version under review keeps its status so the in-flight
// review is not discarded; the caller surfaces that as a warning instead.
func Supersede(current string) (Transition, bool) {
	current = Normalize(current)
	if current == domain.StatusUnderReview {
		return Transition{}, false
	}
	if current == domain.StatusArchived {
		return Transition{}, false
	}
	return Transition{From: current, To: domain.StatusArchived}, true
}
