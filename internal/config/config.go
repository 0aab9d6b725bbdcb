package config

import "os"

// デフォルト値の定義なのだ
const (
	DefaultAssetsDir   = "assets"
	DefaultPattern     = "GA_image*.png" // GA_image.png, GA_image1.png, GA_image2.png, etc.
	DefaultOutputFile  = "assets/protein-visualizer-pipeline.png"
	DefaultPanelHeight = 340 // 各パネルをこの高さに揃える
	DefaultScale       = 2   // 最終出力の拡大倍率
	DefaultDPI         = 144 // 出力PNGに埋め込む解像度メタデータ
)

// レイアウトの固定値なのだ。タイトでミニマルな見た目を狙っているのだよ。
const (
	DefaultLetterWidth = 18 // パネル左のラベル用ガター幅
	DefaultLetterSize  = 14 // ラベル文字のポイントサイズ
	DefaultArrowWidth  = 10 // パネル間の矢印が占める幅
	DefaultPadding     = 12 // キャンバス外周の余白
	DefaultRowGap      = 20 // 1段目と2段目の間の隙間
	DefaultRowCapacity = 3  // 1段目に置けるパネルの最大数
)

// Config はアプリケーション全体の環境設定を保持する構造体なのだ。
// 環境変数で上書きできるのは入出力パスだけで、レイアウトはフラグで調整するのだ。
type Config struct {
	AssetsDir  string
	OutputFile string

	Options ComposeOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		AssetsDir:  getEnv("COLLAGE_ASSETS_DIR", DefaultAssetsDir),
		OutputFile: getEnv("COLLAGE_OUTPUT_FILE", DefaultOutputFile),
	}
	return cfg
}

// ComposeOptions は CLI フラグから渡される実行時のパラメータなのだ。
type ComposeOptions struct {
	// 入力関連
	AssetsDir string // --assets-dir: パネル画像を探すディレクトリ
	Pattern   string // --pattern: パネル画像のファイル名グロブ

	// 出力関連
	OutputFile string // --output-file

	// レイアウト調整
	PanelHeight int // --panel-height
	Scale       int // --scale
}

// getEnv は環境変数 key の値を返し、未設定なら fallback を返すのだ。
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
