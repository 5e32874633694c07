package gesture

import (
	"errors"
	"fmt"

	"github.com/char5742/touch-gestures/internal/consts"
)

// EnableGesture はdeltaで指定されたジェスチャーを有効化した上で、マスク全体を
// ファームウェアへ送信する。deltaがnilの場合は保持しているマスクをそのまま送信する
// 送信に失敗してもメモリ上のマスクは巻き戻さない。未送信フラグが立ったままになるため
// 次回のモード遷移時に再送される
func (d *Driver) EnableGesture(delta []byte) error {
	if len(delta) > consts.GestureMaskSize {
		return fmt.Errorf("%w: %d > %d", ErrInvalidArgument, len(delta), consts.GestureMaskSize)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if delta != nil {
		for i := range delta {
			d.mask[i] |= delta[i]
		}
		d.stale = true
	}

	if err := d.tr.SetFeature(consts.FeatSelGesture, d.mask[:]); err != nil {
		return &DriverError{
			Tags: TagMaskPush,
			Err:  fmt.Errorf("ジェスチャーマスクの送信に失敗しました: %w", err),
		}
	}
	d.stale = false
	return nil
}

// DisableGesture はdeltaで指定されたジェスチャーを無効化した上で、マスク全体を
// ファームウェアへ送信する。deltaがnilの場合は全ジェスチャーを無効化する
// （ゼロ埋めしたマスクを送信し、保持しているマスクもクリアする）
func (d *Driver) DisableGesture(delta []byte) error {
	if len(delta) > consts.GestureMaskSize {
		return fmt.Errorf("%w: %d > %d", ErrInvalidArgument, len(delta), consts.GestureMaskSize)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if delta != nil {
		for i := range delta {
			temp := d.mask[i] ^ delta[i]
			d.mask[i] = temp & d.mask[i]
		}
	} else {
		d.mask = [consts.GestureMaskSize]byte{}
	}
	d.stale = true

	if err := d.tr.SetFeature(consts.FeatSelGesture, d.mask[:]); err != nil {
		return &DriverError{
			Tags: TagMaskPush,
			Err:  fmt.Errorf("ジェスチャーマスクの送信に失敗しました: %w", err),
		}
	}
	d.stale = false
	return nil
}

// EnterGestureMode はコントローラをジェスチャー検出モード（低消費電力の待ち受け状態）へ
// 遷移させる。forceReloadがtrueの場合、またはマスクに未送信の変更がある場合は、
// 遷移前に現在のマスクをファームウェアへ再送する
//
// 割り込みの無効化に成功した後は、途中のステップが失敗しても必ず割り込みを再有効化して
// から戻る。複数のステップが失敗した場合、エラータグはORで結合される
func (d *Driver) EnterGestureMode(forceReload bool) (err error) {
	if derr := d.irq.DisableNoSync(); derr != nil {
		return &DriverError{
			Tags: TagDisableInter,
			Err:  fmt.Errorf("割り込みの無効化に失敗しました: %w", derr),
		}
	}

	var tags ErrorTag
	var errs error

	defer func() {
		if eerr := d.irq.Enable(); eerr != nil {
			tags |= TagEnableInter
			errs = errors.Join(errs, fmt.Errorf("割り込みの再有効化に失敗しました: %w", eerr))
		}
		if errs != nil {
			err = &DriverError{Tags: tags, Err: errs}
		}
	}()

	if forceReload || d.isStale() {
		if perr := d.EnableGesture(nil); perr != nil {
			tags |= Tags(perr)
			errs = errors.Join(errs, perr)
		}
	}

	if errs == nil {
		if serr := d.tr.SetScanMode(consts.ScanModeLowPower, 0); serr != nil {
			tags |= TagScanMode
			errs = errors.Join(errs, fmt.Errorf("スキャンモードの切り替えに失敗しました: %w", serr))
		}
	}

	return nil
}
