package api

import (
	"net/http"

	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/logging"
	"github.com/ikclouds/not-fight-club/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateCharacterRequest struct {
	Name           string `json:"name"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeat_password"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type UpdateCharacterRequest struct {
	Name           string `json:"name"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeat_password"`
	CriticalHits   *int   `json:"critical_hits"`
	DoubleHits     *int   `json:"double_hits"`
}

type SelectAvatarRequest struct {
	Avatar string `json:"avatar"`
}

// CreateCharacter registers a new character.
func (h *Handler) CreateCharacter(c *gin.Context) {
	var req CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	ch, err := service.CreateCharacter(h.repo, req.Name, req.Password, req.RepeatPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

// Login starts a session and prepares the battle screen.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := service.Login(h.repo, req.Name, req.Password); err != nil {
		respondError(c, err)
		return
	}
	if err := h.battle.InitializeBattle(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.battle.Snapshot())
}

// Logout drops the session battle and logs the character out.
func (h *Handler) Logout(c *gin.Context) {
	h.battle.Abandon()
	service.Logout(h.repo)
	c.Status(http.StatusNoContent)
}

// GetCharacter returns the profile of the current character.
func (h *Handler) GetCharacter(c *gin.Context) {
	ch, ok := h.repo.Character(c.GetString(ctxCharacter))
	if !ok {
		respondError(c, service.ErrCharacterNotFound)
		return
	}
	c.JSON(http.StatusOK, ch)
}

// UpdateCharacter applies the settings form to the current character.
func (h *Handler) UpdateCharacter(c *gin.Context) {
	var req UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	ch, err := service.UpdateCharacter(h.repo, service.UpdateCharacterRequest{
		Name:         req.Name,
		Password:     req.Password,
		Repeat:       req.RepeatPassword,
		CriticalHits: req.CriticalHits,
		DoubleHits:   req.DoubleHits,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

// SelectAvatar changes the avatar of the current character.
func (h *Handler) SelectAvatar(c *gin.Context) {
	var req SelectAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := service.SelectAvatar(h.repo, req.Avatar); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": req.Avatar})
}

// GetScore returns the record of the current character.
func (h *Handler) GetScore(c *gin.Context) {
	name := c.GetString(ctxCharacter)
	rec, err := service.GetScore(h.repo, name)
	if err != nil {
		logging.Error("score lookup failed", err, logging.Fields{constants.LogFieldCharacter: name})
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"character": name, "wins": rec.Wins, "losses": rec.Losses})
}
