package api

import (
	"net/http"

	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/dedupe"
	"github.com/ikclouds/not-fight-club/internal/game"

	"github.com/gin-gonic/gin"
)

type SelectEnemyRequest struct {
	Name string `json:"name"`
}

type RandomEnemyRequest struct {
	Enabled bool `json:"enabled"`
}

type ZoneRequest struct {
	Zone    string `json:"zone"`
	Checked bool   `json:"checked"`
}

type enemyView struct {
	Name         string `json:"name"`
	HitPoints    int    `json:"hit_points"`
	CriticalHits int    `json:"critical_hits"`
	DoubleHits   int    `json:"double_hits"`
}

// ListEnemies returns the enemy catalog and the current selection.
func (h *Handler) ListEnemies(c *gin.Context) {
	names := h.repo.EnemyNames()
	out := make([]enemyView, 0, len(names))
	for _, n := range names {
		e, ok := h.repo.Enemy(n)
		if !ok {
			continue
		}
		out = append(out, enemyView{Name: e.Name, HitPoints: e.MaxHP, CriticalHits: e.CriticalHits, DoubleHits: e.DoubleHits})
	}
	c.JSON(http.StatusOK, gin.H{
		"enemies":      out,
		"selected":     h.repo.SelectedEnemyName(),
		"random_enemy": h.repo.RandomEnemyEnabled(),
	})
}

// SelectEnemy selects a catalog enemy.
func (h *Handler) SelectEnemy(c *gin.Context) {
	var req SelectEnemyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	e, ok := h.repo.Enemy(req.Name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrUnknownEnemy})
		return
	}
	if err := h.battle.SelectEnemy(e.Name, e.MaxHP); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.battle.Snapshot())
}

// SetRandomEnemy toggles random enemy selection after each battle.
func (h *Handler) SetRandomEnemy(c *gin.Context) {
	var req RandomEnemyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	h.repo.SetRandomEnemyEnabled(req.Enabled)
	c.JSON(http.StatusOK, gin.H{"random_enemy": req.Enabled})
}

// GetBattle returns the battle snapshot.
func (h *Handler) GetBattle(c *gin.Context) {
	c.JSON(http.StatusOK, h.battle.Snapshot())
}

// GetBattleLog returns the battle log.
func (h *Handler) GetBattleLog(c *gin.Context) {
	c.JSON(http.StatusOK, h.battle.Log())
}

// battleAction wraps a controller operation that returns only an error.
func (h *Handler) battleAction(op func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := op(); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, h.battle.Snapshot())
	}
}

func (h *Handler) InitBattle() gin.HandlerFunc   { return h.battleAction(h.battle.InitializeBattle) }
func (h *Handler) StartBattle() gin.HandlerFunc  { return h.battleAction(h.battle.StartBattle) }
func (h *Handler) PauseBattle() gin.HandlerFunc  { return h.battleAction(h.battle.PauseBattle) }
func (h *Handler) FinishBattle() gin.HandlerFunc { return h.battleAction(h.battle.ForfeitBattle) }

// Attack runs one round. Concurrent requests for the same character share
// a single round.
func (h *Handler) Attack(c *gin.Context) {
	key := c.GetString(ctxCharacter)
	v, err, shared := dedupe.AttackGroup.Do(key, func() (interface{}, error) {
		if err := h.battle.Attack(); err != nil {
			return nil, err
		}
		return h.battle.Snapshot(), nil
	})
	if shared {
		c.Header("X-Deduplicated", "true")
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// SelectAttackZone selects the attack zone.
func (h *Handler) SelectAttackZone(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	ready, err := h.battle.SelectAttackZone(game.Zone(req.Zone))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attack_zone": h.battle.SelectedAttackZone(), "can_attack": ready})
}

// ToggleDefenseZone checks or unchecks a defense zone.
func (h *Handler) ToggleDefenseZone(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	ready, err := h.battle.ToggleDefenseZone(game.Zone(req.Zone), req.Checked)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"defense_zones": h.battle.SelectedDefenseZones(), "can_attack": ready})
}
