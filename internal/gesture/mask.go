package gesture

import (
	"fmt"
	"log"

	"github.com/char5742/touch-gestures/internal/consts"
)

// UpdateMask はドライバ内に保持するジェスチャーマスクを更新する
// deltaの長さはGestureMaskSize以下であること。opがFeatEnableの場合はdeltaの
// ビットを立て、FeatDisableの場合はdeltaのビットだけを落とす
// 更新はメモリ上のマスクにのみ反映され、ファームウェアへの送信は行わない
func (d *Driver) UpdateMask(delta []byte, op Feature) error {
	if len(delta) > consts.GestureMaskSize {
		return fmt.Errorf("%w: %d > %d", ErrInvalidArgument, len(delta), consts.GestureMaskSize)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch op {
	case FeatEnable:
		for i := range delta {
			d.mask[i] |= delta[i]
		}
	case FeatDisable:
		for i := range delta {
			temp := d.mask[i] ^ delta[i]
			d.mask[i] = temp & d.mask[i]
		}
	default:
		return fmt.Errorf("%w: op=%d", ErrInvalidOperation, op)
	}

	d.stale = true
	return nil
}

// IsAnyGestureActive はマスク中に有効化されたジェスチャーが1つでもあるかを返す
// 有効化されたビットが存在する場合はFeatEnable、全て無効の場合はFeatDisable
func (d *Driver) IsAnyGestureActive() Feature {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, b := range d.mask {
		if b != 0 {
			log.Printf("有効なジェスチャーがあります: mask[%d] = %02X", i, b)
			return FeatEnable
		}
	}
	return FeatDisable
}

// Mask は現在のマスクのコピーを返す
func (d *Driver) Mask() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]byte, consts.GestureMaskSize)
	copy(out, d.mask[:])
	return out
}

func (d *Driver) isStale() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stale
}
