package builder

import (
	"log/slog"

	"github.com/shouni/go-collage-kit/internal/config"
	"github.com/shouni/go-collage-kit/pkg/layout"
	"github.com/shouni/go-collage-kit/pkg/panel"
	"github.com/shouni/go-collage-kit/pkg/publisher"
	"github.com/shouni/go-collage-kit/pkg/render"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各フェーズに渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config        // Configは、環境変数から読み込まれたグローバルな設定です。
	Options    config.ComposeOptions // Optionsは、コマンドラインから渡された実行時の設定です。
	LayoutSpec layout.Spec           // LayoutSpecは、レイアウト計算に使う幾何パラメータです。
	Preparer   *panel.Preparer       // Preparerは、パネル画像のデコードとリサイズを担います。
	Renderer   *render.Renderer      // Rendererは、ラベル・パネル・矢印のキャンバス描画を担います。
	Publisher  *publisher.Publisher  // Publisherは、拡大・エンコード・保存を担います。
}

// NewAppContext は設定からアプリケーションコンテキストを組み立てるのだ。
// フォントが見つからない場合は組み込みフォントに切り替えて続行するのだよ。
func NewAppContext(cfg *config.Config) AppContext {
	face, fallback := render.ResolveFontFace(config.DefaultLetterSize)
	if fallback {
		slog.Warn("TrueTypeフォントが見つからないので組み込みフォントを使うのだ")
	}

	spec := layout.Spec{
		PanelHeight: cfg.Options.PanelHeight,
		LetterWidth: config.DefaultLetterWidth,
		ArrowWidth:  config.DefaultArrowWidth,
		Padding:     config.DefaultPadding,
		RowGap:      config.DefaultRowGap,
		RowCapacity: config.DefaultRowCapacity,
	}

	return AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		LayoutSpec: spec,
		Preparer:   panel.NewPreparer(cfg.Options.PanelHeight),
		Renderer:   render.NewRenderer(face),
		Publisher:  publisher.NewPublisher(publisher.LocalWriter{}, cfg.Options.Scale, config.DefaultDPI),
	}
}
