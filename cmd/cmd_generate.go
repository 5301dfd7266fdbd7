// Copyright 2025 The Efemapa Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jcodagnone/efemapa/config"
	"github.com/jcodagnone/efemapa/geocode"
	"github.com/jcodagnone/efemapa/pipeline"
	"github.com/jcodagnone/efemapa/render"
	"github.com/jcodagnone/efemapa/utils/httputils"
	"github.com/jcodagnone/efemapa/utils/textutils"
	"github.com/jcodagnone/efemapa/wiki"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	configFile  string
	month       string
	day         int
	output      string
	maxEvents   int
	language    string
	geocoder    string
	cacheFile   string
	rateLimitMs int
	noCluster   bool
	heatmap     bool
	noOpen      bool
	noCache     bool
	traceHTTP   bool
}

var generateOpts = &generateOptions{}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Genera el mapa de efemérides para una fecha",
	Long: `
Descarga la página "Selected anniversaries" de Wikipedia para la fecha
indicada (hoy por omisión), elige eventos al azar, geocodifica sus lugares y
escribe un mapa HTML interactivo junto con un events.json con los datos.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadGenerateConfig()
		if err != nil {
			return err
		}

		month, day, err := resolveDate(generateOpts.month, generateOpts.day, time.Now())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		httpClient := newHTTPClient(cfg)

		log.Printf("Fetching events for %s %d from the %s Wikipedia", month, day, cfg.Language)

		client := wiki.NewClient(
			wiki.WithLanguage(cfg.Language),
			wiki.WithHTTPClient(httpClient),
		)

		events, err := client.FetchEvents(ctx, month, day)
		if err != nil {
			return fmt.Errorf("fetching events: %w", err)
		}

		if len(events) == 0 {
			return fmt.Errorf("no events found for %s %d", month, day)
		}

		sampled := wiki.SampleEvents(events, cfg.MaxEvents)
		log.Printf("Picked %s of %s events", textutils.FormatInt(int64(len(sampled))), textutils.FormatInt(int64(len(events))))

		cache := geocode.NewCache()
		if cfg.CacheLocations {
			cache = geocode.LoadCache(cfg.EffectiveCachePath())
			log.Printf("Location cache loaded with %s entries", textutils.FormatInt(int64(cache.Len())))

			// The cache keeps whatever resolved before an interruption.
			defer func() {
				if err := cache.Save(cfg.EffectiveCachePath()); err != nil {
					log.Printf("[!] Error saving location cache: %v", err)
				} else {
					log.Printf("Location cache saved with %s entries", textutils.FormatInt(int64(cache.Len())))
				}
			}()
		}

		geocoder, err := buildGeocoder(cfg, httpClient)
		if err != nil {
			return err
		}

		limiter := geocode.NewIntervalLimiter(time.Duration(cfg.RateLimitMs) * time.Millisecond)
		resolver := geocode.NewResolver(geocoder, cache, limiter)

		resolved := pipeline.New(resolver).ResolveAll(ctx, sampled)
		if len(resolved) == 0 {
			// Still worth writing: the empty map and the cache are
			// valid outputs of the run.
			log.Printf("[!] None of the %d events could be located", len(sampled))
		}

		data := render.MapData{
			Title:       fmt.Sprintf("Historical Events of %s %d", month, day),
			Description: "This map shows important events that happened on this day in history.",
			Cluster:     cfg.Cluster,
			Events:      resolved,
		}

		if cfg.Heatmap {
			heat, err := render.HeatPoints(resolved, render.DefaultHeatResolution)
			if err != nil {
				return fmt.Errorf("building heat layer: %w", err)
			}

			data.HeatPoints = heat
		}

		if err := data.SaveMap(cfg.OutputPath); err != nil {
			return err
		}

		if err := saveEvents(eventsPath(cfg.OutputPath), resolved); err != nil {
			return err
		}

		log.Printf("Map with %s events saved at %s", textutils.FormatInt(int64(len(resolved))), cfg.OutputPath)

		if cfg.AutoOpen {
			if err := openBrowser(cfg.OutputPath); err != nil {
				log.Printf("[!] Error opening browser: %v", err)
			}
		}

		return nil
	},
}

// loadGenerateConfig layers the command line flags on top of the config
// file and environment. Flags win only when the user actually set them.
func loadGenerateConfig() (config.Config, error) {
	cfg, err := config.Load(generateOpts.configFile)
	if err != nil {
		return config.Config{}, err
	}

	if generateOpts.output != "" {
		cfg.OutputPath = generateOpts.output
	}

	if generateOpts.maxEvents > 0 {
		cfg.MaxEvents = generateOpts.maxEvents
	}

	if generateOpts.language != "" {
		cfg.Language = generateOpts.language
	}

	if generateOpts.geocoder != "" {
		cfg.Geocoder = generateOpts.geocoder
	}

	if generateOpts.cacheFile != "" {
		cfg.CachePath = generateOpts.cacheFile
	}

	if generateOpts.rateLimitMs >= 0 {
		cfg.RateLimitMs = generateOpts.rateLimitMs
	}

	if generateOpts.noCluster {
		cfg.Cluster = false
	}

	if generateOpts.heatmap {
		cfg.Heatmap = true
	}

	if generateOpts.noOpen {
		cfg.AutoOpen = false
	}

	if generateOpts.noCache {
		cfg.CacheLocations = false
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func newHTTPClient(cfg config.Config) *http.Client {
	var transport http.RoundTripper = http.DefaultTransport

	transport = &httputils.AppendRequestHeadersRoundTripper{
		Transport: transport,
		Headers: map[string]string{
			"User-Agent": fmt.Sprintf("efemapa/%s (+https://github.com/jcodagnone/efemapa)", Version),
		},
	}

	if generateOpts.traceHTTP {
		transport = &httputils.LoggingRoundTripper{
			Transport: transport,
			Writer:    os.Stderr,
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

func buildGeocoder(cfg config.Config, httpClient *http.Client) (geocode.Geocoder, error) {
	switch cfg.Geocoder {
	case "nominatim":
		opts := []geocode.NominatimOption{geocode.WithHTTPClient(httpClient)}
		if cfg.NominatimURL != "" {
			opts = append(opts, geocode.WithBaseURL(cfg.NominatimURL))
		}

		return geocode.NewNominatim(opts...), nil
	case "google":
		return geocode.NewGoogleMapsGeocoder(
			cfg.GoogleAPIKey,
			geocode.WithGoogleHTTPClient(httpClient),
		), nil
	default:
		return nil, fmt.Errorf("unknown geocoder %q", cfg.Geocoder)
	}
}

// eventsPath is the JSON sidecar written next to the HTML map.
func eventsPath(outputPath string) string {
	base := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))

	return filepath.Join(filepath.Dir(outputPath), base+"_events.json")
}

func saveEvents(path string, resolved []pipeline.ResolvedEvent) error {
	raw, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}

	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing events file %s: %w", path, err)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateOpts.configFile, "config", "c", "", "Archivo de configuración JSON")
	generateCmd.Flags().StringVarP(&generateOpts.month, "month", "m", "", "Mes (nombre en inglés o número 1-12); por omisión, hoy")
	generateCmd.Flags().IntVarP(&generateOpts.day, "day", "d", 0, "Día del mes; por omisión, hoy")
	generateCmd.Flags().StringVarP(&generateOpts.output, "output", "o", "", "Ruta del mapa HTML a generar")
	generateCmd.Flags().IntVar(&generateOpts.maxEvents, "max-events", 0, "Cantidad máxima de eventos a incluir")
	generateCmd.Flags().StringVarP(&generateOpts.language, "language", "l", "", "Edición de Wikipedia (en, es, tr, ...)")
	generateCmd.Flags().StringVar(&generateOpts.geocoder, "geocoder", "", "Proveedor de geocodificación (nominatim o google)")
	generateCmd.Flags().StringVar(&generateOpts.cacheFile, "cache-file", "", "Archivo de caché de ubicaciones")
	generateCmd.Flags().IntVar(&generateOpts.rateLimitMs, "rate-limit-ms", -1, "Milisegundos mínimos entre consultas de geocodificación")
	generateCmd.Flags().BoolVar(&generateOpts.noCluster, "no-cluster", false, "No agrupar marcadores cercanos")
	generateCmd.Flags().BoolVar(&generateOpts.heatmap, "heatmap", false, "Agregar capa de calor al mapa")
	generateCmd.Flags().BoolVar(&generateOpts.noOpen, "no-open", false, "No abrir el mapa en el navegador")
	generateCmd.Flags().BoolVar(&generateOpts.noCache, "no-cache", false, "No persistir la caché de ubicaciones")
	generateCmd.Flags().BoolVar(&generateOpts.traceHTTP, "trace-http", false, "Display HTTP requests-responses")
}
