package handlers

import (
	"net/http"
	"strconv"

	"github.com/matchday-dev/cup-manager/models"
	"github.com/matchday-dev/cup-manager/repositories"
	"github.com/matchday-dev/cup-manager/services"
)

type MatchHandler struct {
	matchService    services.MatchService
	fixtureService  services.FixtureService
	resolverService services.ResolverService
}

func NewMatchHandler(
	matchService services.MatchService,
	fixtureService services.FixtureService,
	resolverService services.ResolverService,
) *MatchHandler {
	return &MatchHandler{
		matchService:    matchService,
		fixtureService:  fixtureService,
		resolverService: resolverService,
	}
}

// List supports optional group_id, round and status query filters.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repositories.MatchFilter

	if raw := r.URL.Query().Get("group_id"); raw != "" {
		groupID, err := strconv.Atoi(raw)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.GroupID = &groupID
	}
	if raw := r.URL.Query().Get("round"); raw != "" {
		round := models.MatchRound(raw)
		if !round.Valid() {
			mapServiceErrorToHTTP(w, r, services.ErrMatchRoundInvalid)
			return
		}
		filter.Round = &round
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.MatchStatus(raw)
		filter.Status = &status
	}

	matches, err := h.matchService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) CreateKnockout(w http.ResponseWriter, r *http.Request) {
	var input services.CreateKnockoutMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateKnockout(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.UpdateScore(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.Delete(r.Context(), matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateFixtures replaces the whole group-stage schedule.
func (h *MatchHandler) GenerateFixtures(w http.ResponseWriter, r *http.Request) {
	var input services.GenerateFixturesInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.fixtureService.Generate(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResolvePlaceholders re-runs bracket resolution and reports how many
// knockout matches were updated.
func (h *MatchHandler) ResolvePlaceholders(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.resolverService.ResolvePlaceholders(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"resolved": resolved}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
