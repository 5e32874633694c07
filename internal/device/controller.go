package device

import (
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/char5742/touch-gestures/internal/consts"
)

// コントローラ制御用のIOCTL
const (
	iocScanMode   = 0x40024601 // スキャンモード切り替え用のIOCTL
	iocIrqDisable = 0x00004602 // 割り込み無効化用のIOCTL
	iocIrqEnable  = 0x00004603 // 割り込み有効化用のIOCTL
)

// Controller はキャラクタデバイスファイルを介してタッチコントローラと入出力を行う構造体
// TransportとInterruptControllerの両方を実装する
type Controller struct {
	file *os.File
	mu   sync.Mutex
}

// OpenController は指定されたパスのコントローラデバイスを開く
func OpenController(path string) (*Controller, error) {
	f, err := os.OpenFile(path, syscall.O_RDWR|syscall.O_NONBLOCK, 0660)
	if err != nil {
		return nil, fmt.Errorf("デバイスファイルを開くのに失敗しました: %w", err)
	}
	return &Controller{file: f}, nil
}

// SetFeature はフィーチャー設定バッファをコントローラへ書き込む
func (c *Controller) SetFeature(featureID byte, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := make([]byte, 0, len(payload)+2)
	buf = append(buf, featureID, byte(len(payload)))
	buf = append(buf, payload...)

	if _, err := c.file.Write(buf); err != nil {
		return fmt.Errorf("failed to write feature buffer: %w", err)
	}
	return nil
}

// ReadAt は指定アドレスからlengthバイトを読み出す
func (c *Controller) ReadAt(command byte, addrBits int, address uint16, length int, dummy int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.file.Write(readRequest(command, addrBits, address)); err != nil {
		return nil, fmt.Errorf("failed to write read request: %w", err)
	}

	buf := make([]byte, dummy+length)
	if _, err := io.ReadFull(c.file, buf); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return buf[dummy:], nil
}

// readRequest は読み出しコマンドのリクエストフレームを組み立てる
func readRequest(command byte, addrBits int, address uint16) []byte {
	if addrBits == consts.AddrBits16 {
		return []byte{command, byte(address >> 8), byte(address)}
	}
	return []byte{command, byte(address)}
}

// SetScanMode はスキャンモード切り替えコマンドを発行する
func (c *Controller) SetScanMode(mode byte, extra byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ioctl(c.file, iocScanMode, uintptr(mode)|uintptr(extra)<<8)
}

// DisableNoSync は実行中のハンドラを待たずに割り込みを無効化する
func (c *Controller) DisableNoSync() error {
	return ioctl(c.file, iocIrqDisable, 0)
}

// Enable は割り込みを有効化する
func (c *Controller) Enable() error {
	return ioctl(c.file, iocIrqEnable, 0)
}

// ReadEvent はコントローラから1つのイベントフレームを読み出す
func (c *Controller) ReadEvent() ([]byte, error) {
	buf := make([]byte, consts.EventSize)
	n, err := c.file.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Close はデバイスファイルを閉じる
func (c *Controller) Close() error {
	return c.file.Close()
}
