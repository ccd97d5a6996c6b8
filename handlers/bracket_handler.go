package handlers

import (
	"net/http"

	"github.com/Dosada05/tennis-ladder/middleware"
	"github.com/Dosada05/tennis-ladder/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

// GenerateBracketHandler обрабатывает POST /api/tournaments/{tournamentID}/bracket
//
//	@Summary		Generate tournament bracket
//	@Description	Seeds the roster, creates and schedules the first-round matches and moves the tournament to in_progress.
//	@Tags			brackets
//	@Produce		json
//	@Security		BearerAuth
//	@Param			tournamentID	path		int	true	"Tournament ID"
//	@Success		200				{object}	services.GenerateBracketResult
//	@Failure		400				{object}	map[string]string
//	@Failure		404				{object}	map[string]string
//	@Failure		500				{object}	map[string]string
//	@Router			/api/tournaments/{tournamentID}/bracket [post]
func (h *BracketHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()
	if userID, err := middleware.GetUserIDFromContext(ctx); err == nil {
		ctx = services.WithRequestedBy(ctx, userID)
	}

	result, err := h.bracketService.GenerateBracket(ctx, tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatchesHandler обрабатывает GET /api/tournaments/{tournamentID}/matches
//
//	@Summary	List tournament matches
//	@Tags		brackets
//	@Produce	json
//	@Param		tournamentID	path		int	true	"Tournament ID"
//	@Success	200				{object}	map[string][]models.Match
//	@Failure	400				{object}	map[string]string
//	@Failure	404				{object}	map[string]string
//	@Router		/api/tournaments/{tournamentID}/matches [get]
func (h *BracketHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.bracketService.ListMatches(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PreflightHandler отвечает на OPTIONS без тела. CORS-заголовки ставит cors.Handler.
func (h *BracketHandler) PreflightHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
