package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-collage-kit/internal/builder"
	"github.com/shouni/go-collage-kit/internal/config"
	"github.com/shouni/go-collage-kit/pkg/asset"
	"github.com/shouni/go-collage-kit/pkg/layout"
	"github.com/shouni/go-collage-kit/pkg/panel"
)

// ExecuteCompose は、発見したパネル画像を2段構成のパイプラインコラージュに合成し、
// 1枚のPNGとして保存するまでの全フェーズを実行するのだ。
func ExecuteCompose(ctx context.Context, cfg *config.Config) error {
	appCtx := builder.NewAppContext(cfg)

	// --- Phase 1: Discovery (パネル探索) ---
	paths, err := runDiscoverStep(appCtx)
	if err != nil {
		return err
	}

	// --- Phase 2: Preparation (パネル準備) ---
	panels, err := runPrepareStep(ctx, appCtx, paths)
	if err != nil {
		return err
	}

	// --- Phase 3 & 4: Layout + Render (レイアウト計算と描画) ---
	plan := buildPlan(appCtx, panels)
	slog.Info("キャンバスを描画するのだ...",
		"width", plan.CanvasWidth,
		"height", plan.CanvasHeight,
		"rows", len(plan.Rows))

	canvas, err := appCtx.Renderer.Compose(panels, plan)
	if err != nil {
		return fmt.Errorf("キャンバスの描画に失敗したのだ: %w", err)
	}

	// --- Phase 5: Finalization (拡大と保存) ---
	outputPath := appCtx.Options.OutputFile
	if err := appCtx.Publisher.Publish(canvas, outputPath); err != nil {
		return fmt.Errorf("最終出力の保存に失敗したのだ: %w", err)
	}

	slog.Info("パイプライン画像が完成したのだ！", "path", outputPath)
	return nil
}

// runDiscoverStep はアセットディレクトリからパネル画像をステップ順に探索するのだ
func runDiscoverStep(appCtx builder.AppContext) ([]string, error) {
	dir := appCtx.Options.AssetsDir
	pattern := appCtx.Options.Pattern
	slog.Info("Phase 1: パネル探索を開始するのだ...", "dir", dir, "pattern", pattern)

	paths, err := asset.Discover(dir, pattern)
	if err != nil {
		return nil, err
	}

	slog.Info("パネル画像が見つかったのだ", "count", len(paths))
	return paths, nil
}

// runPrepareStep は全パネルのデコード・強調・リサイズを並列実行するのだ
func runPrepareStep(ctx context.Context, appCtx builder.AppContext, paths []string) ([]*panel.Panel, error) {
	slog.Info("Phase 2: パネル準備を開始するのだ...", "target_height", appCtx.Preparer.TargetHeight())

	panels, err := appCtx.Preparer.PrepareAll(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("パネル準備に失敗したのだ: %w", err)
	}
	return panels, nil
}

// buildPlan は準備済みパネルの幅からレイアウト計画を構築するのだ
func buildPlan(appCtx builder.AppContext, panels []*panel.Panel) layout.Plan {
	widths := make([]int, len(panels))
	for i, p := range panels {
		widths[i] = p.Width()
	}
	return layout.BuildPlan(widths, appCtx.LayoutSpec)
}
