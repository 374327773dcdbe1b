package main

import (
	"fmt"
	"webpbot/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func convertCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a local image to WEBP the same way the bot does",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if backend != "" {
				cfg.Converter.Backend = backend
			}

			imageConverter, err := newConverter(cfg.Converter)
			if err != nil {
				return err
			}

			encoding, err := imageConverter.Convert(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to convert %s: %w", args[0], err)
			}

			log.Info().Str("input", args[0]).Str("output", args[1]).Str("encoding", string(encoding)).
				Msg("converted image")

			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", fmt.Sprintf("converter backend, %q or %q", config.BackendWebP,
		config.BackendMagick))

	return cmd
}
