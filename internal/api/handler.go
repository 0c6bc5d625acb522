package api

import (
	"errors"
	"net/http"

	"github.com/ikclouds/not-fight-club/internal/battle"
	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/logging"
	"github.com/ikclouds/not-fight-club/internal/service"
	"github.com/ikclouds/not-fight-club/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler groups all HTTP handlers of the local game UI.
type Handler struct {
	repo   *storage.Repository
	battle *battle.Controller
}

// NewHandler creates a Handler over the repository and battle controller.
func NewHandler(repo *storage.Repository, ctrl *battle.Controller) *Handler {
	return &Handler{repo: repo, battle: ctrl}
}

type errorMapping struct {
	err     error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{service.ErrFieldsRequired, http.StatusBadRequest, constants.ErrFieldsRequired},
	{service.ErrPasswordsMismatch, http.StatusBadRequest, constants.ErrPasswordsMismatch},
	{service.ErrCharacterExists, http.StatusConflict, constants.ErrCharacterExists},
	{service.ErrCharacterNotFound, http.StatusNotFound, constants.ErrCharacterNotFound},
	{service.ErrIncorrectPassword, http.StatusUnauthorized, constants.ErrIncorrectPassword},
	{service.ErrNameTaken, http.StatusConflict, constants.ErrNameTaken},
	{service.ErrNotLoggedIn, http.StatusUnauthorized, constants.ErrNotLoggedIn},
	{service.ErrUnknownAvatar, http.StatusBadRequest, constants.ErrUnknownAvatar},
	{service.ErrInvalidBudget, http.StatusBadRequest, constants.ErrInvalidBudget},
	{battle.ErrNotLoggedIn, http.StatusUnauthorized, constants.ErrNotLoggedIn},
	{battle.ErrInvalidTransition, http.StatusConflict, constants.ErrBattleUnavailable},
	{battle.ErrBattleNotActive, http.StatusConflict, constants.MsgBattleNotActive},
	{battle.ErrNoAttackZone, http.StatusConflict, constants.MsgSelectAttackZone},
	{battle.ErrDefenseZones, http.StatusConflict, constants.MsgSelectDefenseZones},
	{battle.ErrTurnInProgress, http.StatusConflict, constants.ErrAttackInProgress},
	{battle.ErrUnknownZone, http.StatusBadRequest, constants.ErrUnknownZone},
	{battle.ErrInvalidEnemy, http.StatusBadRequest, constants.ErrUnknownEnemy},
}

// respondError maps a domain error to its HTTP status and message.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{constants.JSONKeyError: m.message})
			return
		}
	}
	logging.Error("unexpected handler error", err, logging.Fields{constants.LogFieldPath: c.FullPath()})
	c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: err.Error()})
}

// LoginRequired rejects requests without a logged-in character and injects
// the character name into the context.
func (h *Handler) LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := h.repo.CurrentCharacter()
		if name == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrNotLoggedIn})
			return
		}
		c.Set(ctxCharacter, name)
		c.Next()
	}
}

const ctxCharacter = "character"
