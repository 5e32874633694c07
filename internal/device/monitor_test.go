package device

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func waitForEvent(t *testing.T, ch <-chan MonitorEvent, want MonitorEventType) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev.Type == want {
				return
			}
		case <-deadline:
			t.Fatalf("timeout waiting for event %d", want)
		}
	}
}

func TestMonitorReportsAttachAndDetach(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "touch_controller")

	monitor, err := NewMonitor(path)
	if err != nil {
		t.Fatalf("NewMonitor = %v", err)
	}
	defer monitor.Stop()

	events := make(chan MonitorEvent, 8)
	monitor.RegisterCallback(func(ev MonitorEvent) {
		events <- ev
	})

	if err := monitor.Start(); err != nil {
		t.Fatalf("Start = %v", err)
	}

	// デバイスノードの出現
	if err := os.WriteFile(path, nil, 0660); err != nil {
		t.Fatal(err)
	}
	waitForEvent(t, events, DeviceAttached)

	// デバイスノードの消滅
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitForEvent(t, events, DeviceDetached)
}

func TestMonitorReportsExistingDevice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "touch_controller")
	if err := os.WriteFile(path, nil, 0660); err != nil {
		t.Fatal(err)
	}

	monitor, err := NewMonitor(path)
	if err != nil {
		t.Fatalf("NewMonitor = %v", err)
	}
	defer monitor.Stop()

	events := make(chan MonitorEvent, 8)
	monitor.RegisterCallback(func(ev MonitorEvent) {
		events <- ev
	})

	// 既に存在するデバイスは開始時に接続済みとして通知される
	if err := monitor.Start(); err != nil {
		t.Fatalf("Start = %v", err)
	}
	waitForEvent(t, events, DeviceAttached)
}

func TestMonitorConcurrentStartStop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "touch_controller")

	monitor, err := NewMonitor(path)
	if err != nil {
		t.Fatalf("NewMonitor = %v", err)
	}

	if err := monitor.Start(); err != nil {
		t.Fatalf("Start = %v", err)
	}
	// 2回目のStartは何もしない
	if err := monitor.Start(); err != nil {
		t.Fatalf("Start = %v", err)
	}

	// 並行してStopしてもstopChanが二重にcloseされないこと
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			monitor.Stop()
		}()
	}
	wg.Wait()
}
