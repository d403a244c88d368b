package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// TagAction はプロフィールファイルを処理してタグをJSONで出力する
func TagAction(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("プロフィールファイルの読み込みに失敗: %w", err)
	}

	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	threshold := appCtx.Config.Pipeline.SimilarityThreshold
	if cmd.IsSet("threshold") {
		threshold = cmd.Float("threshold")
	}

	appCtx.Logger().Info("タグ付けを開始", "file", path, "threshold", threshold)

	res, err := appCtx.Container.TagService.ProcessTalent(ctx, raw, threshold)
	if err != nil {
		appCtx.Logger().Error("タグ付けに失敗しました", "error", err)
		return err
	}

	for _, w := range res.Warnings {
		appCtx.Logger().Warn("データ欠落", "warning", w)
	}

	return writePayload(cmd.Root().Writer, res.Payload())
}

func writePayload(w io.Writer, payload any) error {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"tags": payload}); err != nil {
		return fmt.Errorf("結果の出力に失敗: %w", err)
	}
	return nil
}
