package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/osgb-lab/riskcatalog/pkg/cli/config"
	"github.com/osgb-lab/riskcatalog/pkg/usecase"
	"github.com/osgb-lab/riskcatalog/pkg/utils/safe"
)

func cmdSync() *cli.Command {
	var batchSize int
	var repoCfg config.Repository
	var docStoreCfg config.DocumentStore

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "batch-size",
			Usage:       "Relational-store insert batch size",
			Value:       usecase.DefaultSyncBatchSize,
			Sources:     cli.EnvVars("RISKCATALOG_SYNC_BATCH_SIZE"),
			Destination: &batchSize,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, docStoreCfg.Flags()...)

	return &cli.Command{
		Name:  "sync",
		Usage: "Reconcile the document store and the relational store",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			docStore, err := docStoreCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize document store")
			}
			defer safe.Close(ctx, docStore)

			uc := usecase.NewSyncUseCase(docStore, repo, batchSize)
			report, err := uc.Reconcile(ctx)
			if err != nil {
				return goerr.Wrap(err, "reconciliation failed")
			}

			fmt.Println("Reconciliation report:")
			fmt.Printf("  staged to relational store: %d\n", report.LocalToRemote)
			fmt.Printf("  staged to document store:   %d\n", report.RemoteToLocal)
			fmt.Printf("  already in both:            %d\n", report.AlreadyInBoth)
			fmt.Printf("  uploaded:                   %d\n", report.Uploaded)

			if report.Success {
				color.Green("Reconciliation succeeded")
				return nil
			}

			for _, msg := range report.Errors {
				color.Red("  batch error: %s", msg)
			}
			color.Yellow("Reconciliation finished with %d failed batch(es)", len(report.Errors))
			return goerr.New("reconciliation finished with errors",
				goerr.V("errors", len(report.Errors)))
		},
	}
}
