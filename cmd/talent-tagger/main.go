package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	appcli "github.com/jinford/talent-tagger/internal/app/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "talent-tagger",
		Usage: "人材プロフィールを会社情報とニュースで補強し、類似人材のタグ再利用または新規タグ生成を行う",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "環境変数ファイルパス",
				Value: ".env",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "tag",
				Usage: "プロフィールJSONファイルのタグを出力",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "プロフィールJSONファイルパス",
						Required: true,
					},
					&cli.FloatFlag{
						Name:  "threshold",
						Usage: "類似度しきい値（省略時は SIMILARITY_THRESHOLD または 0.85）",
					},
				},
				Action: appcli.TagAction,
			},
			{
				Name:  "serve",
				Usage: "HTTPサーバを起動",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "待ち受けアドレス（省略時は HTTP_ADDR または :8000）",
					},
				},
				Action: appcli.ServeAction,
			},
			{
				Name:   "migrate",
				Usage:  "データベーススキーマを作成",
				Action: appcli.MigrateAction,
			},
			{
				Name:  "seed",
				Usage: "会社データとニュースをデータベースに投入",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "companies/<会社名>.json と news.json を含むディレクトリ",
						Required: true,
					},
				},
				Action: appcli.SeedAction,
			},
		},
	}
}
