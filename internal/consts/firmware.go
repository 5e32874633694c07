package consts

// ジェスチャーマスク関連の定数
const (
	GestureMaskSize = 4   // ジェスチャーマスクのバイト数
	MaxCoordPairs   = 100 // 1ジェスチャーで報告される座標ペアの最大数
)

// ファームウェアイベントの定数
const (
	EvtIDUserReport    = 0x53 // ユーザーレポートイベントID
	EvtTypeUserGesture = 0x02 // ジェスチャー検出レポートタイプ
	EventSize          = 8    // イベントフレームのバイト数
)

// コントローラコマンドの定数
const (
	CmdFramebufferRead = 0xA6 // フレームバッファ読み出しコマンド
	AddrBits16         = 16   // 16ビットアドレッシング
	DummyFramebuffer   = 1    // フレームバッファ読み出し時のダミーバイト数
	FeatSelGesture     = 0x02 // ジェスチャーマスク設定のフィーチャーID
	ScanModeLowPower   = 0x00 // 低消費電力スキャンモード
)
