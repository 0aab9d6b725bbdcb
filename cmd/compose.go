package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-collage-kit/internal/config"
	"github.com/shouni/go-collage-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// composeCmd は、探索から保存までの合成パイプラインを明示的に実行するサブコマンドなのだ。
// ルートコマンドの既定動作と同じだけど、スクリプトから呼ぶときに意図が明確になるのだ。
var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "パネル画像を探索してパイプラインコラージュを書き出すのだ。",
	Long: `アセットディレクトリのパネル画像をステップ順に並べ、各パネルにA, B, C...のラベルと
パネル間の矢印を描いた2段コラージュを合成して、2倍スケールのPNGとして保存するのだ。`,
	RunE: composeCommand,
}

// composeCommand は、compose コマンドの実行ロジック本体なのだ。
// 設定のバリデーションを行い、pipeline.ExecuteCompose を呼び出して一連の処理をキックするのだ。
func composeCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.PanelHeight <= 0 {
		return fmt.Errorf("パネルの高さ（--panel-height）は正の値にしてほしいのだ: %d", opts.PanelHeight)
	}
	if opts.Scale <= 0 {
		return fmt.Errorf("拡大倍率（--scale）は正の整数にしてほしいのだ: %d", opts.Scale)
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// フラグがユーザーによって指定されなかった場合は、環境変数側の値を採用する
	if !cmd.Flags().Changed("assets-dir") {
		opts.AssetsDir = cfg.AssetsDir
	}
	if !cmd.Flags().Changed("output-file") {
		opts.OutputFile = cfg.OutputFile
	}

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts

	slog.Info("コラージュ合成を起動するのだ！",
		"assets_dir", cfg.Options.AssetsDir,
		"pattern", cfg.Options.Pattern,
		"output_file", cfg.Options.OutputFile)

	// 3. パイプライン実行
	return pipeline.ExecuteCompose(ctx, cfg)
}
