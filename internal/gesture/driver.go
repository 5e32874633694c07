package gesture

import (
	"sync"

	"github.com/char5742/touch-gestures/internal/consts"
	"github.com/char5742/touch-gestures/internal/device"
)

// Feature は機能の有効/無効を表す
type Feature int

const (
	FeatDisable Feature = 0 // 無効化
	FeatEnable  Feature = 1 // 有効化
)

// Driver はタッチコントローラのジェスチャー検出状態を管理する構造体
// ジェスチャーマスクとその未送信フラグは単一のミューテックスで保護される
// 座標レポートはデコード元が単一であることを前提としており、ロックしない
type Driver struct {
	tr  device.Transport
	irq device.InterruptController

	mu    sync.Mutex
	mask  [consts.GestureMaskSize]byte
	stale bool

	coordsReported int
	coordsX        [consts.MaxCoordPairs]uint16
	coordsY        [consts.MaxCoordPairs]uint16
}

// NewDriver は新しいドライバを作成する
// マスクは全ジェスチャー無効の状態で初期化される
func NewDriver(tr device.Transport, irq device.InterruptController) *Driver {
	return &Driver{
		tr:             tr,
		irq:            irq,
		coordsReported: CoordsNone,
	}
}
