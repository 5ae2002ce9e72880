package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/awr103/medi8-final/pkg/logger"
	"github.com/awr103/medi8-final/pkg/openai"
	"github.com/awr103/medi8-final/relay"
)

const rootLongDesc = `medi8 is a stateless HTTP relay in front of an LLM completion provider.

It accepts a chat message list on POST /chat, validates it, forwards it
upstream with fixed generation parameters, and returns the generated reply.

Configuration resolves in order: defaults, then the optional TOML config
file, then environment variables (MEDI8_ADDR, MEDI8_UPSTREAM, MEDI8_MODEL,
MEDI8_MAX_TOKENS, MEDI8_TEMPERATURE, MEDI8_RATE_MAX, MEDI8_RATE_WINDOW,
MEDI8_LOG_FILE, MEDI8_DEBUG, OPENAI_API_KEY).`

func main() {
	var (
		configPath string
		listenAddr string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:          "medi8",
		Short:        "Stateless chat relay in front of an LLM completion provider",
		Long:         rootLongDesc,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := relay.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}
			if debug {
				cfg.Debug = true
			}

			log := logger.NewLogger(cfg.Debug, cfg.LogFile)
			defer log.Sync()

			log.Info("medi8 relay starting",
				zap.String("listen", cfg.ListenAddr),
				zap.String("upstream", cfg.UpstreamURL),
				zap.Bool("debug", cfg.Debug),
			)

			gateway := openai.New(cfg.UpstreamURL, cfg.APIKey, openai.Params{
				Model:       cfg.Model,
				MaxTokens:   cfg.MaxTokens,
				Temperature: cfg.Temperature,
			}, log)

			return relay.New(cfg, gateway, log).Run()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "Address to listen on (overrides config)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
