package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/shouni/go-collage-kit/internal/config"
	"github.com/shouni/go-collage-kit/pkg/asset"

	"github.com/spf13/cobra"
)

// opts はフラグの値を受け取る共有の実行時パラメータなのだ。
var opts config.ComposeOptions

// rootCmd はアプリケーションのルートコマンドなのだ。
// サブコマンド無しで実行された場合も compose と同じ処理を行うのだよ。
var rootCmd = &cobra.Command{
	Use:   "collage-kit",
	Short: "連番パネル画像を1枚のパイプラインコラージュに合成するのだ。",
	Long: `アセットディレクトリから連番のパネル画像（GA_image.png, GA_image1.png, ...）を探索し、
ステップラベルと矢印付きの2段コラージュを1枚のPNGとして書き出すのだ。`,
	RunE:          composeCommand,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.AssetsDir, "assets-dir", "d", config.DefaultAssetsDir, "パネル画像を探索するディレクトリなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.Pattern, "pattern", "p", config.DefaultPattern, "パネル画像のファイル名グロブなのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputFile, "output-file", "o", config.DefaultOutputFile, "合成したPNGの保存パスなのだ。")

	// --- レイアウト調整 ---
	rootCmd.PersistentFlags().IntVar(&opts.PanelHeight, "panel-height", config.DefaultPanelHeight, "各パネルを揃える高さ（ピクセル）なのだ。")
	rootCmd.PersistentFlags().IntVar(&opts.Scale, "scale", config.DefaultScale, "最終出力の整数拡大倍率なのだ。")
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(composeCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError は失敗の種別に応じて人間向けのメッセージを出力するのだ。
func reportError(err error) {
	switch {
	case errors.Is(err, asset.ErrAssetsDirMissing):
		slog.Error("アセットディレクトリが見つからないのだ", "error", err)
	case errors.Is(err, asset.ErrNoMatchingImages):
		slog.Error("パターンに一致する画像が1枚も無いのだ", "error", err)
	default:
		slog.Error("コラージュの生成に失敗したのだ", "error", err)
	}
}
