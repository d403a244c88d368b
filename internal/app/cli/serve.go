package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/jinford/talent-tagger/internal/interface/httpapi"
)

// ServeAction は HTTP サーバを起動する
func ServeAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	addr := appCtx.Config.HTTPAddr
	if cmd.IsSet("addr") {
		addr = cmd.String("addr")
	}

	server := httpapi.NewServer(
		appCtx.Container.TagService,
		appCtx.Container.Metrics,
		httpapi.WithServerLogger(appCtx.Logger()),
		httpapi.WithDefaultThreshold(appCtx.Config.Pipeline.SimilarityThreshold),
	)
	return server.Run(ctx, addr)
}
