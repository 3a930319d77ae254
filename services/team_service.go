package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/matchday-dev/cup-manager/models"
	"github.com/matchday-dev/cup-manager/repositories"
	"github.com/matchday-dev/cup-manager/storage"
)

const maxShortNameLength = 5

type CreateTeamInput struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	Update(ctx context.Context, id int, input CreateTeamInput) (*models.Team, error)
	UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Team, error)
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) error
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader) TeamService {
	return &teamService{teamRepo: teamRepo, uploader: uploader}
}

func validateTeamInput(input *CreateTeamInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.ShortName = strings.TrimSpace(input.ShortName)
	if input.Name == "" {
		return ErrTeamNameRequired
	}
	if len(input.ShortName) > maxShortNameLength {
		return ErrTeamShortNameLong
	}
	if input.ShortName == "" {
		short := input.Name
		if len(short) > maxShortNameLength {
			short = short[:maxShortNameLength]
		}
		input.ShortName = strings.ToUpper(short)
	}
	return nil
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if err := validateTeamInput(&input); err != nil {
		return nil, err
	}

	team := &models.Team{Name: input.Name, ShortName: input.ShortName}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachLogoURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		s.attachLogoURL(team)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id int, input CreateTeamInput) (*models.Team, error) {
	if err := validateTeamInput(&input); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Name = input.Name
	team.ShortName = input.ShortName
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}
	s.attachLogoURL(team)
	return team, nil
}

func (s *teamService) UploadLogo(ctx context.Context, id int, contentType string, reader io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrLogoUploadDisabled
	}

	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("teams/%d/logo", team.ID)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	team.LogoKey = &result.Key
	if err := s.teamRepo.UpdateLogoKey(ctx, team.ID, team.LogoKey); err != nil {
		return nil, err
	}
	s.attachLogoURL(team)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.uploader != nil && team.LogoKey != nil {
		// best effort, the team row is the source of truth
		_ = s.uploader.Delete(ctx, *team.LogoKey)
	}
	return s.teamRepo.Delete(ctx, id)
}

func (s *teamService) DeleteAll(ctx context.Context) error {
	return s.teamRepo.DeleteAll(ctx)
}

func (s *teamService) attachLogoURL(team *models.Team) {
	if s.uploader == nil || team.LogoKey == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*team.LogoKey); url != "" {
		team.LogoURL = &url
	}
}
