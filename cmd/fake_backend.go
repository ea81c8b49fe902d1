package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mattsolo1/grove-sandbox/pkg/fakebackend"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	fakeBackendAddr           string
	fakeBackendSelfReflection bool
)

// NewFakeBackendCmd creates the hidden `fake-backend` command used for local
// development and end-to-end tests.
func NewFakeBackendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "fake-backend",
		Short:  "Serve canned responses for both backend endpoints",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			logger.SetLevel(logrus.InfoLevel)
			logger.SetOutput(cmd.ErrOrStderr())

			opts := []fakebackend.Option{fakebackend.WithLogger(logger)}
			if fakeBackendSelfReflection {
				opts = append(opts, fakebackend.WithSelfReflection())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Fake backend listening on %s\n", fakeBackendAddr)
			err := fakebackend.New(opts...).Start(fakeBackendAddr)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("fake backend: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&fakeBackendAddr, "addr", "127.0.0.1:8000", "Listen address")
	cmd.Flags().BoolVar(&fakeBackendSelfReflection, "self-reflection", false, "Open each character with a hidden self-reflection turn")
	return cmd
}
