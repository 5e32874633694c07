package device

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// MonitorEventType はデバイスノードのイベント種別を表す
type MonitorEventType int

const (
	DeviceAttached MonitorEventType = iota
	DeviceDetached
)

// MonitorEvent はデバイスノードの接続状態の変化を表す
type MonitorEvent struct {
	Type MonitorEventType
	Path string
}

// MonitorCallback はデバイスイベント発生時に呼び出されるコールバック関数の型
type MonitorCallback func(event MonitorEvent)

// Monitor はコントローラのデバイスノードの接続状態を監視する構造体
type Monitor struct {
	watcher   *fsnotify.Watcher
	path      string
	callbacks []MonitorCallback
	mutex     sync.Mutex
	stopChan  chan struct{}
	isRunning bool
}

// NewMonitor は指定されたデバイスノードを監視するMonitorを作成する
func NewMonitor(path string) (*Monitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Monitor{
		watcher:   watcher,
		path:      path,
		callbacks: make([]MonitorCallback, 0),
		stopChan:  make(chan struct{}),
	}, nil
}

// RegisterCallback はデバイスイベントのコールバック関数を登録する
func (m *Monitor) RegisterCallback(callback MonitorCallback) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// Start はデバイスノードの監視を開始する
// デバイスノードが現れた時点でDeviceAttached、消えた時点でDeviceDetachedを通知する
func (m *Monitor) Start() error {
	m.mutex.Lock()
	if m.isRunning {
		m.mutex.Unlock()
		return nil // すでに実行中
	}

	dir := filepath.Dir(m.path)
	if err := m.watcher.Add(dir); err != nil {
		m.mutex.Unlock()
		return err
	}
	log.Printf("デバイスノードの監視を開始: %s", m.path)
	m.isRunning = true
	m.mutex.Unlock()

	// デバイスが既に存在する場合は接続済みとして通知
	if _, err := os.Stat(m.path); err == nil {
		m.notify(MonitorEvent{Type: DeviceAttached, Path: m.path})
	}

	go m.watchEvents()
	return nil
}

// Stop はデバイスノードの監視を停止する
func (m *Monitor) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.isRunning {
		return
	}

	log.Println("デバイスノードの監視を停止します")
	close(m.stopChan)
	m.watcher.Close()
	m.isRunning = false
}

// watchEvents はfsnotifyのイベントを監視する
func (m *Monitor) watchEvents() {
	for {
		select {
		case <-m.stopChan:
			return

		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Name != m.path {
				continue
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				log.Printf("デバイスが接続されました: %s", m.path)
				m.notify(MonitorEvent{Type: DeviceAttached, Path: m.path})
			}
			if event.Op&fsnotify.Remove == fsnotify.Remove {
				log.Printf("デバイスが切断されました: %s", m.path)
				m.notify(MonitorEvent{Type: DeviceDetached, Path: m.path})
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("ファイルシステム監視エラー: %v", err)
		}
	}
}

// notify は登録されたコールバックへイベントを通知する
func (m *Monitor) notify(event MonitorEvent) {
	m.mutex.Lock()
	callbacks := make([]MonitorCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mutex.Unlock()

	for _, callback := range callbacks {
		go callback(event)
	}
}
