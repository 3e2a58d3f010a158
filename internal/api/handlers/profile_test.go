// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reelmates/reelsync/internal/fetcher"
	"github.com/reelmates/reelsync/internal/normalize"
	"github.com/reelmates/reelsync/internal/profile"
)

type stubProfileAPI struct{}

func (stubProfileAPI) UpdateProfile(ctx context.Context, update fetcher.ProfileUpdate) (normalize.Profile, error) {
	return normalize.Profile{}, nil
}

func (stubProfileAPI) UpdateSelectedServices(ctx context.Context, serviceIDs []string) ([]normalize.Service, error) {
	return nil, nil
}

func newSelectionReconciler(selected ...string) *profile.Reconciler {
	services := []normalize.Service{
		{ID: "s1", Name: "Netflix", DisplayPriority: 90},
		{ID: "s2", Name: "Hulu", DisplayPriority: 80},
		{ID: "s3", Name: "Max", DisplayPriority: 70},
	}
	selection := make([]normalize.Service, 0, len(selected))
	for _, id := range selected {
		for _, svc := range services {
			if svc.ID == id {
				selection = append(selection, svc)
			}
		}
	}
	return profile.NewReconciler(stubProfileAPI{}, normalize.Profile{Name: "Ida", Username: "ida_w"}, selection, services)
}

func TestApplySelectionReplacesDraftSelection(t *testing.T) {
	r := newSelectionReconciler("s1", "s3")

	applySelection(r, []string{"s2", "s3"})

	assert.Equal(t, []string{"s2", "s3"}, r.Draft().SelectedServiceIDs)
}

func TestApplySelectionDuplicateIDSelectsOnce(t *testing.T) {
	r := newSelectionReconciler()

	applySelection(r, []string{"s2", "s2"})

	assert.Equal(t, []string{"s2"}, r.Draft().SelectedServiceIDs)
}

func TestApplySelectionDuplicateOfKeptIDIsIgnored(t *testing.T) {
	r := newSelectionReconciler("s1")

	applySelection(r, []string{"s2", "s1", "s2"})

	assert.Equal(t, []string{"s1", "s2"}, r.Draft().SelectedServiceIDs)
}
