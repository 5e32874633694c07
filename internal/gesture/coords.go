package gesture

import (
	"fmt"
	"log"

	"github.com/char5742/touch-gestures/internal/consts"
)

// CoordsNone は有効な座標レポートが存在しないことを表す
const CoordsNone = -1

// ReadGestureCoords はファームウェアが報告したジェスチャーイベントを検証し、
// そのイベントが指すフレームバッファ領域から座標ペアを読み出して展開する
//
// イベントの3,4バイト目が読み出しアドレス、5バイト目が座標ペア数を示す。読み出した
// バッファは全ペアのX座標（下位・上位バイトの組）のあとに全ペアのY座標が並ぶ形式で、
// 各座標は12ビットのみ有効。上位バイトの上位4ビットは予約領域のため捨てる
func (d *Driver) ReadGestureCoords(event []byte) error {
	if len(event) < 6 || event[0] != consts.EvtIDUserReport || event[1] != consts.EvtTypeUserGesture {
		return fmt.Errorf("%w: header=% X", ErrInvalidEvent, event[:min(len(event), 2)])
	}

	address := uint16(event[4])<<8 | uint16(event[3])
	reported := int(event[5])
	if reported > consts.MaxCoordPairs {
		log.Printf("ファームウェアが%d個の座標ペアを報告しました。%d個に切り詰めます", reported, consts.MaxCoordPairs)
		reported = consts.MaxCoordPairs
	}

	raw, err := d.tr.ReadAt(consts.CmdFramebufferRead, consts.AddrBits16, address, reported*2*2, consts.DummyFramebuffer)
	if err != nil {
		d.coordsReported = CoordsNone
		return &DriverError{
			Tags: TagTransport,
			Err:  fmt.Errorf("座標の読み出しに失敗しました: %w", err),
		}
	}
	if len(raw) < reported*2*2 {
		d.coordsReported = CoordsNone
		return &DriverError{
			Tags: TagTransport,
			Err:  fmt.Errorf("座標バッファが不足しています: %d < %d", len(raw), reported*2*2),
		}
	}

	for i := 0; i < reported; i++ {
		d.coordsX[i] = uint16(raw[i*2+1]&0x0F)<<8 | uint16(raw[i*2])
		d.coordsY[i] = uint16(raw[reported*2+i*2+1]&0x0F)<<8 | uint16(raw[reported*2+i*2])
	}
	d.coordsReported = reported

	return nil
}

// GestureCoords は最後に検出されたジェスチャーの座標ペア数とX/Y座標列を返す
// 有効なレポートがない場合、ペア数はCoordsNoneになる
// 返されるスライスは内部バッファへの参照で、次のReadGestureCoordsまで有効
func (d *Driver) GestureCoords() (int, []uint16, []uint16) {
	n := d.coordsReported
	if n < 0 {
		return n, nil, nil
	}
	return n, d.coordsX[:n], d.coordsY[:n]
}
