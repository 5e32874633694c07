package gesture

import (
	"errors"
	"fmt"
)

// 入力検証のエラー
var (
	ErrInvalidArgument  = errors.New("マスクのサイズが不正です")
	ErrInvalidOperation = errors.New("有効化/無効化の指定が不正です")
	ErrInvalidEvent     = errors.New("ジェスチャーイベントが不正です")
)

// ErrorTag は失敗したフェーズを表すビットフラグ
// モード遷移中に複数のフェーズが失敗した場合はORで結合される
type ErrorTag uint32

const (
	TagMaskPush     ErrorTag = 0x00010000 // マスクのファームウェア送信
	TagScanMode     ErrorTag = 0x00020000 // スキャンモード切り替え
	TagDisableInter ErrorTag = 0x00040000 // 割り込みの無効化
	TagEnableInter  ErrorTag = 0x00080000 // 割り込みの再有効化
	TagTransport    ErrorTag = 0x00100000 // コントローラとの入出力
)

// DriverError はどのフェーズで失敗したかをタグとして保持するエラー
type DriverError struct {
	Tags ErrorTag
	Err  error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("gesture: ERROR %08X: %v", uint32(e.Tags), e.Err)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

// Tags はエラーからフェーズタグを取り出す
// DriverErrorでない場合は0を返す
func Tags(err error) ErrorTag {
	var de *DriverError
	if errors.As(err, &de) {
		return de.Tags
	}
	return 0
}
