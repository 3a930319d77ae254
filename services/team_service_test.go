package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeamValidatesName(t *testing.T) {
	service := NewTeamService(newFakeTeamRepo(), nil)

	_, err := service.Create(context.Background(), CreateTeamInput{Name: "   "})
	assert.ErrorIs(t, err, ErrTeamNameRequired)

	_, err = service.Create(context.Background(), CreateTeamInput{Name: "Rovers", ShortName: "TOOLONG"})
	assert.ErrorIs(t, err, ErrTeamShortNameLong)
}

func TestCreateTeamDerivesShortName(t *testing.T) {
	service := NewTeamService(newFakeTeamRepo(), nil)

	team, err := service.Create(context.Background(), CreateTeamInput{Name: "Riverside United"})
	require.NoError(t, err)
	assert.Equal(t, "RIVER", team.ShortName)

	team, err = service.Create(context.Background(), CreateTeamInput{Name: "Ajax", ShortName: "AJX"})
	require.NoError(t, err)
	assert.Equal(t, "AJX", team.ShortName)
}

func TestUploadLogoRequiresConfiguredStorage(t *testing.T) {
	repo := newFakeTeamRepo()
	service := NewTeamService(repo, nil)

	_, err := service.UploadLogo(context.Background(), 1, "image/png", nil)
	assert.ErrorIs(t, err, ErrLogoUploadDisabled)
}
