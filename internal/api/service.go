package api

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/char5742/touch-gestures/internal/config"
	"github.com/char5742/touch-gestures/internal/consts"
	"github.com/char5742/touch-gestures/internal/device"
	"github.com/char5742/touch-gestures/internal/gesture"
)

// ControllerDevice はサービスが必要とするコントローラ操作の集合
type ControllerDevice interface {
	device.Transport
	device.InterruptController
	// コントローラから1つのイベントフレームを読み出す
	ReadEvent() ([]byte, error)
	Close() error
}

// GestureService はジェスチャー検出サービスを管理する構造体
type GestureService struct {
	cfg         *config.Config
	stopChan    chan struct{}
	cfgChanged  chan struct{}
	running     bool
	statusMutex sync.RWMutex

	ctrl   ControllerDevice
	driver *gesture.Driver

	// テストおよびデバイス差し替え用。nilの場合は設定のパスからデバイスを開く
	openDevice func(path string) (ControllerDevice, error)
}

// NewGestureService は新しいジェスチャー検出サービスを作成する
func NewGestureService(cfg *config.Config) *GestureService {
	return &GestureService{
		cfg:        cfg,
		stopChan:   make(chan struct{}),
		cfgChanged: make(chan struct{}, 1),
		running:    false,
		openDevice: func(path string) (ControllerDevice, error) {
			return device.OpenController(path)
		},
	}
}

// Start はジェスチャー検出サービスを開始する
func (s *GestureService) Start() error {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()

	if s.running {
		return fmt.Errorf("サービスは既に実行中です")
	}

	// コントローラデバイスを開く
	ctrl, err := s.openDevice(s.cfg.Device.Path)
	if err != nil {
		return fmt.Errorf("コントローラのオープンに失敗しました[path=%s]: %v", s.cfg.Device.Path, err)
	}
	s.ctrl = ctrl
	s.driver = gesture.NewDriver(ctrl, ctrl)

	// 設定されたマスクプリセットを適用する
	preset, err := s.cfg.MaskPresetBytes()
	if err != nil {
		s.ctrl.Close()
		return err
	}
	if preset != nil {
		if err := s.driver.EnableGesture(preset); err != nil {
			s.ctrl.Close()
			return fmt.Errorf("マスクプリセットの適用に失敗しました: %v", err)
		}
		log.Printf("マスクプリセットを適用しました: %X", preset)
	}

	s.stopChan = make(chan struct{})
	s.running = true
	go s.run()

	log.Println("ジェスチャー検出サービスを開始しました")
	return nil
}

// Stop はジェスチャー検出サービスを停止する
func (s *GestureService) Stop() error {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()

	if !s.running {
		return fmt.Errorf("サービスは実行されていません")
	}

	close(s.stopChan)
	s.running = false

	if s.ctrl != nil {
		s.ctrl.Close()
		s.ctrl = nil
	}

	log.Println("ジェスチャー検出サービスを停止しました")
	return nil
}

// IsRunning はサービスが実行中かどうかを返す
func (s *GestureService) IsRunning() bool {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	return s.running
}

// Driver はサービスが保持するドライバを返す
// サービスが開始されていない場合はnil
func (s *GestureService) Driver() *gesture.Driver {
	s.statusMutex.RLock()
	defer s.statusMutex.RUnlock()
	return s.driver
}

// Suspend はコントローラをジェスチャー検出モードへ遷移させる
func (s *GestureService) Suspend() error {
	s.statusMutex.RLock()
	driver := s.driver
	force := s.cfg.Gesture.ForceReload
	s.statusMutex.RUnlock()

	if driver == nil {
		return fmt.Errorf("サービスは実行されていません")
	}
	return driver.EnterGestureMode(force)
}

// UpdateConfig は設定を差し替える。ポーリング間隔の変更は実行中のループにも反映される
func (s *GestureService) UpdateConfig(cfg *config.Config) {
	s.statusMutex.Lock()
	s.cfg = cfg
	s.statusMutex.Unlock()

	// 実行中のループへ通知する。停止中は次回のStartが新しい設定を読む
	select {
	case s.cfgChanged <- struct{}{}:
	default:
	}
}

// run はコントローラのイベントを読み出し、ジェスチャーイベントをデコードし続ける
func (s *GestureService) run() {
	s.statusMutex.RLock()
	interval := s.cfg.Device.PollInterval
	s.statusMutex.RUnlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-s.cfgChanged:
			s.statusMutex.RLock()
			interval = s.cfg.Device.PollInterval
			s.statusMutex.RUnlock()
			ticker.Reset(interval)
		case <-ticker.C:
			s.pollEvent()
		}
	}
}

// pollEvent は1つのイベントフレームを処理する
func (s *GestureService) pollEvent() {
	s.statusMutex.RLock()
	ctrl := s.ctrl
	driver := s.driver
	s.statusMutex.RUnlock()

	if ctrl == nil {
		return
	}

	event, err := ctrl.ReadEvent()
	if err != nil {
		// 非ブロッキングのためイベントがない間は読み出しに失敗する
		return
	}
	if len(event) < 2 {
		return
	}

	if event[0] == consts.EvtIDUserReport && event[1] == consts.EvtTypeUserGesture {
		if err := driver.ReadGestureCoords(event); err != nil {
			log.Printf("ジェスチャーイベントのデコードに失敗しました: %v", err)
			return
		}
		n, _, _ := driver.GestureCoords()
		log.Printf("ジェスチャーを検出しました: 座標ペア数 = %d", n)
	}
}
