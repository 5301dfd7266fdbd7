// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/efemapa/config"
	"github.com/jcodagnone/efemapa/pipeline"
	"github.com/spf13/cobra"
)

var serveOpts = struct {
	configFile string
	output     string
	port       int
	open       bool
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Sirve el último mapa generado por HTTP (solo local)",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load(serveOpts.configFile)
		if err != nil {
			return err
		}

		if serveOpts.output != "" {
			cfg.OutputPath = serveOpts.output
		}

		if _, err := os.Stat(cfg.OutputPath); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("map not found at %s - run 'generate' first", cfg.OutputPath)
		}

		addr := fmt.Sprintf("localhost:%d", serveOpts.port)

		fmt.Printf("🗺️  Serving %s\n", cfg.OutputPath)
		fmt.Printf("📍 Open http://%s in your browser\n", addr)
		fmt.Println("🔒 Local only - not exposed to internet")

		if serveOpts.open {
			go func() {
				time.Sleep(300 * time.Millisecond)

				if err := openBrowser("http://" + addr); err != nil {
					log.Printf("[!] Error opening browser: %v", err)
				}
			}()
		}

		return newServeRouter(cfg.OutputPath).Run(addr)
	},
}

func newServeRouter(mapPath string) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(ctx *gin.Context) {
		ctx.File(mapPath)
	})
	r.GET("/api/events", func(ctx *gin.Context) {
		raw, err := os.ReadFile(eventsPath(mapPath))
		if err != nil {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "no events file next to the map"})

			return
		}

		var events []pipeline.ResolvedEvent
		if err := json.Unmarshal(raw, &events); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "events file is corrupt"})

			return
		}

		ctx.JSON(http.StatusOK, events)
	})
	r.Static("/files", filepath.Dir(mapPath))

	return r
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveOpts.configFile, "config", "c", "", "Archivo de configuración JSON")
	serveCmd.Flags().StringVarP(&serveOpts.output, "output", "o", "", "Ruta del mapa HTML a servir")
	serveCmd.Flags().IntVarP(&serveOpts.port, "port", "p", 8080, "Puerto local donde escuchar")
	serveCmd.Flags().BoolVar(&serveOpts.open, "open", false, "Abrir el mapa en el navegador al iniciar")
}
