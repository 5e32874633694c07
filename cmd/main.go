package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/browser"

	"github.com/char5742/touch-gestures/internal/api"
	"github.com/char5742/touch-gestures/internal/config"
	"github.com/char5742/touch-gestures/internal/device"
)

func main() {
	// コマンドライン引数の解析
	useApi := flag.Bool("api", false, "APIサーバーモードで起動します")
	configPath := flag.String("config", "", "設定ファイルのパス (指定しない場合はデフォルトパスを使用)")
	port := flag.Int("port", 8080, "APIサーバーのポート番号")
	devicePath := flag.String("device", "", "コントローラデバイスのパス (設定ファイルの値を上書きします)")
	openBrowser := flag.Bool("open", false, "APIサーバー起動後にブラウザで開きます")
	flag.Parse()

	// デフォルト設定ファイルパスの設定
	defaultConfigPath := ""
	configDir, err := config.GetDefaultConfigDir()
	if err == nil {
		defaultConfigPath = filepath.Join(configDir, "config.toml")
	}

	// 設定ファイルパスの決定
	cfgPath := defaultConfigPath
	if *configPath != "" {
		cfgPath = *configPath
	}

	// 設定ファイルの読み込み
	var cfg *config.Config
	if cfgPath != "" {
		cfg, err = config.LoadConfig(cfgPath)
		if err != nil {
			fmt.Printf("設定ファイルの読み込みに失敗しました: %v\nデフォルト設定を使用します\n", err)
			cfg = config.DefaultConfig()
		} else {
			fmt.Printf("設定ファイルを読み込みました: %s\n", cfgPath)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if *devicePath != "" {
		cfg.Device.Path = *devicePath
	}

	// シグナルハンドラの設定
	handleSignals()

	// APIモードかCLIモードかを判断
	if *useApi {
		// APIモードで実行
		fmt.Printf("APIサーバーモードで起動します (ポート: %d)...\n", *port)
		runApiServer(cfg, *port, *openBrowser)
	} else {
		// CLIモードで実行
		fmt.Println("CLIモードで起動します...")
		runCLI(cfg)
	}
}

// APIサーバーモードでの実行
func runApiServer(cfg *config.Config, port int, open bool) {
	// APIサーバーを作成
	server := api.NewServer(cfg, port)

	if open {
		go func() {
			url := fmt.Sprintf("http://localhost:%d/api/health", port)
			if err := browser.OpenURL(url); err != nil {
				log.Printf("ブラウザを開けませんでした: %v", err)
			}
		}()
	}

	// サーバー起動
	if err := server.Start(); err != nil {
		log.Fatalf("APIサーバーの起動に失敗しました: %v", err)
	}
}

// CLIモードでの実行
func runCLI(cfg *config.Config) {
	// ジェスチャー検出サービスを作成
	service := api.NewGestureService(cfg)

	// デバイスノードの接続状態に合わせてサービスを起動・停止する
	monitor, err := device.NewMonitor(cfg.Device.Path)
	if err != nil {
		fmt.Printf("デバイスモニターの作成に失敗しました: %v\n", err)
		os.Exit(1)
	}
	monitor.RegisterCallback(func(ev device.MonitorEvent) {
		switch ev.Type {
		case device.DeviceAttached:
			if !service.IsRunning() {
				if err := service.Start(); err != nil {
					log.Printf("ジェスチャー検出サービスの起動に失敗しました: %v", err)
				}
			}
		case device.DeviceDetached:
			if service.IsRunning() {
				if err := service.Stop(); err != nil {
					log.Printf("ジェスチャー検出サービスの停止に失敗しました: %v", err)
				}
			}
		}
	})

	if err := monitor.Start(); err != nil {
		fmt.Printf("デバイスモニターの起動に失敗しました: %v\n", err)
		os.Exit(1)
	}

	// シグナルが来るまで待機（終了処理はhandleSignals内で行われる）
	select {}
}

func handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("シャットダウンします...")
		os.Exit(0)
	}()
}
