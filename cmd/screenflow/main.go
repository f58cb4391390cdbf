/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"screenflow/internal/backend"
	"screenflow/internal/bundle"
	"screenflow/internal/config"
	"screenflow/internal/crash"
	"screenflow/internal/export"
	applog "screenflow/internal/log"
	"screenflow/internal/storage"
	"screenflow/internal/telemetry"
	"screenflow/internal/ui"
	"screenflow/internal/version"
)

func usage() {
	fmt.Println("ScreenFlow — screen-flow canvas")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  screenflow version|-v|--version              Show version")
	fmt.Println("  screenflow serve                             Run the canvas persistence server")
	fmt.Println("  screenflow ui [<projectID>]                  Launch desktop UI (build with -tags fyne for full UI)")
	fmt.Println("  screenflow export <projectID> [preset] [dir] Export canvas overviews (preset: share|review)")
	fmt.Println("  screenflow bundle <exportsDir> <zipPath>     Zip exported overviews into a share pack")
	fmt.Println("  screenflow snapshot <projectID> [dir]        Cache the project's board state locally")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	telemetry.InitDefault()
	defer func() { crash.Recover(nil) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("ScreenFlow — screen-flow canvas")
			fmt.Println(version.String())
			return
		case "serve":
			l.Info("starting persistence server")
			if err := backend.Start(); err != nil {
				l.Error("server failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var projectID string
			if len(args) >= 3 {
				projectID = args[2]
			}
			if err := ui.Run(projectID); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "export":
			if len(args) < 3 {
				fmt.Println("export requires <projectID>")
				usage()
				os.Exit(2)
			}
			preset := export.PresetReview
			if len(args) >= 4 {
				preset = export.PresetName(args[3])
			}
			outDir := "exports"
			if len(args) >= 5 {
				outDir = args[4]
			}
			if err := runExport(args[2], preset, outDir); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported canvas overviews to", outDir)
			return
		case "bundle":
			if len(args) < 4 {
				fmt.Println("bundle requires <exportsDir> and <zipPath>")
				usage()
				os.Exit(2)
			}
			if err := bundle.Pack(args[2], args[3]); err != nil {
				l.Error("bundle failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Share pack written to", args[3])
			return
		case "snapshot":
			if len(args) < 3 {
				fmt.Println("snapshot requires <projectID>")
				usage()
				os.Exit(2)
			}
			root := "."
			if len(args) >= 4 {
				root = args[3]
			}
			if err := runSnapshot(args[2], root); err != nil {
				l.Error("snapshot failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Board state cached under", storage.CachePath(root))
			return
		}
	}

	usage()
}

func openClient() (*backend.Client, error) {
	cfg, sec, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return backend.NewClient(cfg.Backend.BaseURL, sec.Token, sec.AntiForgery), nil
}

func runExport(projectID string, preset export.PresetName, outDir string) error {
	client, err := openClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	features, err := client.DesignFeatures(ctx, projectID)
	if err != nil {
		return fmt.Errorf("load design features: %w", err)
	}
	canvases, err := client.ListCanvases(ctx, projectID)
	if err != nil {
		return fmt.Errorf("load canvases: %w", err)
	}
	return export.BatchExport(features, canvases, export.BatchOptions{
		Preset: preset,
		OutDir: outDir,
	})
}

func runSnapshot(projectID, root string) error {
	client, err := openClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	features, err := client.DesignFeatures(ctx, projectID)
	if err != nil {
		return fmt.Errorf("load design features: %w", err)
	}
	canvases, err := client.ListCanvases(ctx, projectID)
	if err != nil {
		return fmt.Errorf("load canvases: %w", err)
	}
	db, err := storage.InitOrOpenCache(root)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer func() { _ = db.Close() }()
	if err := storage.SaveSnapshot(ctx, db, storage.SnapshotPayload{
		ProjectID: projectID,
		Canvases:  canvases,
		Features:  features,
	}); err != nil {
		return err
	}
	return storage.PruneSnapshots(ctx, db, projectID, 5)
}
