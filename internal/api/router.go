package api

import (
	"net/http"

	"github.com/ikclouds/not-fight-club/internal/constants"

	"github.com/gin-gonic/gin"
)

// NewRouter registers every route on a new gin engine.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.POST(constants.RouteCharacters, h.CreateCharacter)
		apiRoutes.POST(constants.RouteLogin, h.Login)
		apiRoutes.POST(constants.RouteLogout, h.Logout)
		apiRoutes.GET(constants.RouteEnemies, h.ListEnemies)
		apiRoutes.PUT(constants.RouteRandomEnemy, h.SetRandomEnemy)

		// Endpoints for the logged-in character
		protected := apiRoutes.Group("")
		protected.Use(h.LoginRequired())

		protected.GET(constants.RouteCharacter, h.GetCharacter)
		protected.PUT(constants.RouteCharacter, h.UpdateCharacter)
		protected.PUT(constants.RouteCharacterAvatar, h.SelectAvatar)
		protected.GET(constants.RouteScore, h.GetScore)
		protected.PUT(constants.RouteEnemy, h.SelectEnemy)

		protected.GET(constants.RouteBattle, h.GetBattle)
		protected.GET(constants.RouteBattleLog, h.GetBattleLog)
		protected.POST(constants.RouteBattleInit, h.InitBattle())
		protected.POST(constants.RouteBattleStart, h.StartBattle())
		protected.POST(constants.RouteBattlePause, h.PauseBattle())
		protected.POST(constants.RouteBattleFinish, h.FinishBattle())
		protected.POST(constants.RouteBattleAttack, h.Attack)
		protected.PUT(constants.RouteBattleAttackZone, h.SelectAttackZone)
		protected.PUT(constants.RouteBattleDefenseZone, h.ToggleDefenseZone)
	}
	return router
}
