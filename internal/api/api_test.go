package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ikclouds/not-fight-club/internal/battle"
	"github.com/ikclouds/not-fight-club/internal/config"
	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/game"
	"github.com/ikclouds/not-fight-club/internal/storage"
	"github.com/ikclouds/not-fight-club/internal/version"
)

type missRoller struct{}

func (missRoller) Float64() float64 { return 0.99 }
func (missRoller) Intn(n int) int   { return 0 }

// heldScheduler never fires, so enemy turns stay pending.
type heldScheduler struct{}

type heldTimer struct{}

func (heldTimer) Stop() bool { return true }

func (heldScheduler) AfterFunc(time.Duration, func()) battle.Timer { return heldTimer{} }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := storage.NewRepository(storage.NewMemoryStore(), config.Default(), nil)
	repo.Init()
	ctrl := battle.New(repo, battle.WithRoller(missRoller{}), battle.WithScheduler(heldScheduler{}))
	return NewRouter(NewHandler(repo, ctrl))
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestBattleFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/characters", CreateCharacterRequest{Name: "Neo", Password: "pw", RepeatPassword: "pw"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodPost, "/api/characters", CreateCharacterRequest{Name: "Neo", Password: "pw", RepeatPassword: "pw"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate create: %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/battle", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("battle before login: %d", w.Code)
	}

	w = do(t, r, http.MethodPost, "/api/login", LoginRequest{Name: "Neo", Password: "pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var snap battle.Snapshot
	decode(t, w, &snap)
	if snap.State != "ready" || snap.Character != "Neo" {
		t.Fatalf("unexpected snapshot after login: %+v", snap)
	}

	w = do(t, r, http.MethodGet, "/api/character", nil)
	var profile game.Character
	decode(t, w, &profile)
	if w.Code != http.StatusOK || profile.Name != "Neo" || profile.CurrentHP != 150 || profile.CriticalHits != 3 {
		t.Fatalf("unexpected profile %d %+v", w.Code, profile)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("$2")) {
		t.Fatalf("profile leaked the password hash: %s", w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/battle/attack", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("attack before start: %d", w.Code)
	}
	var errBody map[string]string
	decode(t, w, &errBody)
	if errBody[constants.JSONKeyError] != constants.MsgBattleNotActive {
		t.Fatalf("unexpected error body %v", errBody)
	}

	if w = do(t, r, http.MethodPost, "/api/battle/start", nil); w.Code != http.StatusOK {
		t.Fatalf("start: %d", w.Code)
	}
	if w = do(t, r, http.MethodPut, "/api/battle/zones/attack", ZoneRequest{Zone: "Head"}); w.Code != http.StatusOK {
		t.Fatalf("attack zone: %d", w.Code)
	}
	do(t, r, http.MethodPut, "/api/battle/zones/defense", ZoneRequest{Zone: "Neck", Checked: true})
	w = do(t, r, http.MethodPut, "/api/battle/zones/defense", ZoneRequest{Zone: "Body", Checked: true})
	var zones struct {
		CanAttack bool `json:"can_attack"`
	}
	decode(t, w, &zones)
	if !zones.CanAttack {
		t.Fatalf("expected attack gate open: %s", w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/battle/attack", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("attack: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &snap)
	if snap.EnemyHP != 160 || !snap.TurnInProgress {
		t.Fatalf("unexpected snapshot after attack: %+v", snap)
	}

	if w = do(t, r, http.MethodPost, "/api/battle/finish", nil); w.Code != http.StatusOK {
		t.Fatalf("finish: %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/api/score", nil)
	var score struct {
		Wins   int `json:"wins"`
		Losses int `json:"losses"`
	}
	decode(t, w, &score)
	// forfeiting behind on hit points (150 vs 160) is a loss
	if score.Wins != 0 || score.Losses != 1 {
		t.Fatalf("unexpected score %+v", score)
	}

	if w = do(t, r, http.MethodPost, "/api/logout", nil); w.Code != http.StatusNoContent {
		t.Fatalf("logout: %d", w.Code)
	}
	if w = do(t, r, http.MethodGet, "/api/score", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("score after logout: %d", w.Code)
	}
}

func TestLogin_Errors(t *testing.T) {
	r := newTestRouter(t)
	if w := do(t, r, http.MethodPost, "/api/login", LoginRequest{Name: "Ghost", Password: "pw"}); w.Code != http.StatusNotFound {
		t.Fatalf("unknown character: %d", w.Code)
	}
	do(t, r, http.MethodPost, "/api/characters", CreateCharacterRequest{Name: "Neo", Password: "pw", RepeatPassword: "pw"})
	if w := do(t, r, http.MethodPost, "/api/login", LoginRequest{Name: "Neo", Password: "nope"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", w.Code)
	}
}

func TestEnemies(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/api/enemies", nil)
	var body struct {
		Enemies  []enemyView `json:"enemies"`
		Selected string      `json:"selected"`
	}
	decode(t, w, &body)
	if len(body.Enemies) != 6 || body.Selected != "Spacemarine" {
		t.Fatalf("unexpected enemies %+v", body)
	}

	do(t, r, http.MethodPost, "/api/characters", CreateCharacterRequest{Name: "Neo", Password: "pw", RepeatPassword: "pw"})
	do(t, r, http.MethodPost, "/api/login", LoginRequest{Name: "Neo", Password: "pw"})
	if w := do(t, r, http.MethodPut, "/api/enemy", SelectEnemyRequest{Name: "Godzilla"}); w.Code != http.StatusNotFound {
		t.Fatalf("unknown enemy: %d", w.Code)
	}
	w = do(t, r, http.MethodPut, "/api/enemy", SelectEnemyRequest{Name: "Draggo"})
	var snap battle.Snapshot
	decode(t, w, &snap)
	if snap.Enemy != "Draggo" || snap.EnemyHP != 90 || snap.EnemyDoubleHits != -1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestVersion(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/api/version", nil)
	var body version.Info
	decode(t, w, &body)
	if w.Code != http.StatusOK || body.Version == "" || body.GoVersion == "" {
		t.Fatalf("unexpected version response %d %v", w.Code, body)
	}
}
