package device

// コントローラとのコマンド/レスポンス交換を行うインターフェース
type Transport interface {
	// フィーチャー設定バッファをコントローラへ送信する
	SetFeature(featureID byte, payload []byte) error
	// 指定アドレスからlengthバイトを読み出す
	// dummyは応答先頭に付加されるダミーバイト数で、返り値には含まれない
	ReadAt(command byte, addrBits int, address uint16, length int, dummy int) ([]byte, error)
	// スキャンモード切り替えコマンドを発行する
	SetScanMode(mode byte, extra byte) error
}

// 割り込みラインの制御を行うインターフェース
type InterruptController interface {
	// 実行中のハンドラの完了を待たずに割り込みを無効化する
	DisableNoSync() error
	// 割り込みを有効化する
	Enable() error
}
