package ctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"plugd/pkg/acplug"
)

func buildListenCmd() *cobra.Command {
	var cfg acplug.DialConfig
	cmd := &cobra.Command{
		Use:     "listen",
		Short:   "Follow adapter plug events and print them as they happen",
		Example: "  plugctl listen\n  plugctl listen --socket /tmp/acpid.socket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
			return runListen(ctx, cmd.OutOrStdout(), logger, cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Socket, "socket", acplug.DefaultSocket, "Path of acpid's event socket")
	cmd.Flags().StringVar(&cfg.PrimaryStatus, "bat-primary", acplug.DefaultPrimaryStatus, "Primary sysfs battery status attribute")
	cmd.Flags().StringVar(&cfg.SecondaryStatus, "bat-secondary", acplug.DefaultSecondaryStatus, "Fallback sysfs battery status attribute")
	return cmd
}

// runListen connects once and prints each transition to out. Error items are
// logged rather than printed alongside events; after one the stream yields
// nothing further, so the loop ends with that error. A clean peer close or
// an interrupt ends it silently.
func runListen(ctx context.Context, out io.Writer, logger zerolog.Logger, cfg acplug.DialConfig) error {
	s, err := acplug.ConnectConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	logger.Info().Stringer("state", s.State()).Msg("connected")

	for {
		ev, err := s.Next(ctx)
		switch {
		case err == nil:
			fmt.Fprintln(out, ev)
		case err == io.EOF:
			logger.Info().Msg("stream closed by peer")
			return nil
		case errors.Is(err, context.Canceled) || ctx.Err() != nil:
			return nil
		default:
			logger.Error().Err(err).Msg("event stream error")
			return err
		}
	}
}
