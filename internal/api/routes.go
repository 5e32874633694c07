package api

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/char5742/touch-gestures/internal/config"
	"github.com/char5742/touch-gestures/internal/gesture"
)

// ルートの設定
func (s *Server) setupRoutes(router *http.ServeMux) {
	// マスク関連のエンドポイント
	router.HandleFunc("GET /api/mask", s.handleGetMask)
	router.HandleFunc("POST /api/mask/enable", s.handleEnableMask)
	router.HandleFunc("POST /api/mask/disable", s.handleDisableMask)

	// モード遷移のエンドポイント
	router.HandleFunc("POST /api/mode/gesture", s.handleEnterGestureMode)

	// 座標レポートのエンドポイント
	router.HandleFunc("GET /api/coords", s.handleGetCoords)

	// 設定関連のエンドポイント
	router.HandleFunc("GET /api/config", s.handleGetConfig)
	router.HandleFunc("PUT /api/config", s.handleUpdateConfig)
	router.HandleFunc("POST /api/config/save", s.handleSaveConfig)

	// サービス関連のエンドポイント
	router.HandleFunc("POST /api/service/start", s.handleStartService)
	router.HandleFunc("POST /api/service/stop", s.handleStopService)
	router.HandleFunc("GET /api/service/status", s.handleServiceStatus)

	// ヘルスチェック用エンドポイント
	router.HandleFunc("GET /api/health", s.handleHealthCheck)
}

// requireDriver は実行中のサービスのドライバを取得する
func (s *Server) requireDriver(w http.ResponseWriter) *gesture.Driver {
	driver := s.service.Driver()
	if driver == nil || !s.service.IsRunning() {
		writeError(w, http.StatusConflict, "サービスが実行されていません")
		return nil
	}
	return driver
}

// maskRequest はマスク操作リクエストのボディを表す
type maskRequest struct {
	// 16進文字列のマスクデルタ。省略時はnil扱い
	Mask string `json:"mask"`
}

func (r *maskRequest) bytes() ([]byte, error) {
	if r.Mask == "" {
		return nil, nil
	}
	return hex.DecodeString(r.Mask)
}

// マスク取得ハンドラ
func (s *Server) handleGetMask(w http.ResponseWriter, r *http.Request) {
	driver := s.requireDriver(w)
	if driver == nil {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"mask":   hex.EncodeToString(driver.Mask()),
		"active": driver.IsAnyGestureActive() == gesture.FeatEnable,
	})
}

// マスク有効化ハンドラ
func (s *Server) handleEnableMask(w http.ResponseWriter, r *http.Request) {
	driver := s.requireDriver(w)
	if driver == nil {
		return
	}

	var request maskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "リクエストの解析に失敗しました")
		return
	}

	delta, err := request.bytes()
	if err != nil {
		writeError(w, http.StatusBadRequest, "マスクの解析に失敗しました: "+err.Error())
		return
	}

	if err := driver.EnableGesture(delta); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("ジェスチャーの有効化に失敗しました: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"mask":   hex.EncodeToString(driver.Mask()),
	})
}

// マスク無効化ハンドラ
// マスクを省略した場合は全ジェスチャーを無効化する
func (s *Server) handleDisableMask(w http.ResponseWriter, r *http.Request) {
	driver := s.requireDriver(w)
	if driver == nil {
		return
	}

	var request maskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "リクエストの解析に失敗しました")
		return
	}

	delta, err := request.bytes()
	if err != nil {
		writeError(w, http.StatusBadRequest, "マスクの解析に失敗しました: "+err.Error())
		return
	}

	if err := driver.DisableGesture(delta); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("ジェスチャーの無効化に失敗しました: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"mask":   hex.EncodeToString(driver.Mask()),
	})
}

// ジェスチャーモード遷移ハンドラ
func (s *Server) handleEnterGestureMode(w http.ResponseWriter, r *http.Request) {
	driver := s.requireDriver(w)
	if driver == nil {
		return
	}

	var request struct {
		Force bool `json:"force"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "リクエストの解析に失敗しました")
		return
	}

	if err := driver.EnterGestureMode(request.Force); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": fmt.Sprintf("ジェスチャーモードへの遷移に失敗しました: %v", err),
			"tags":  uint32(gesture.Tags(err)),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// 座標レポート取得ハンドラ
func (s *Server) handleGetCoords(w http.ResponseWriter, r *http.Request) {
	driver := s.requireDriver(w)
	if driver == nil {
		return
	}

	count, x, y := driver.GestureCoords()
	if count < 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{"count": count})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": count,
		"x":     x,
		"y":     y,
	})
}

// 設定取得ハンドラ
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.GetConfig())
}

// 設定更新ハンドラ
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var newConfig config.Config

	if err := json.NewDecoder(r.Body).Decode(&newConfig); err != nil {
		writeError(w, http.StatusBadRequest, "設定の解析に失敗しました")
		return
	}

	s.UpdateConfig(&newConfig)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// 設定保存ハンドラ
func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var saveRequest struct {
		Path string `json:"path"`
	}

	if err := json.NewDecoder(r.Body).Decode(&saveRequest); err != nil {
		writeError(w, http.StatusBadRequest, "リクエストの解析に失敗しました")
		return
	}

	configPath := saveRequest.Path
	if configPath == "" {
		// デフォルトパスを使用
		userConfigDir, err := config.GetDefaultConfigDir()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "デフォルト設定ディレクトリの取得に失敗しました")
			return
		}
		configPath = filepath.Join(userConfigDir, "config.toml")
	}

	if err := config.SaveConfig(configPath, s.GetConfig()); err != nil {
		writeError(w, http.StatusInternalServerError, "設定の保存に失敗しました: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"path":   configPath,
	})
}

// サービス起動ハンドラ
func (s *Server) handleStartService(w http.ResponseWriter, r *http.Request) {
	if s.service.IsRunning() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "already_running"})
		return
	}

	if err := s.service.Start(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("サービスの起動に失敗しました: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

// サービス停止ハンドラ
func (s *Server) handleStopService(w http.ResponseWriter, r *http.Request) {
	if !s.service.IsRunning() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "not_running"})
		return
	}

	if err := s.service.Stop(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("サービスの停止に失敗しました: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// サービス状態取得ハンドラ
func (s *Server) handleServiceStatus(w http.ResponseWriter, r *http.Request) {
	status := "stopped"
	if s.service.IsRunning() {
		status = "running"
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// ヘルスチェックハンドラ
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
