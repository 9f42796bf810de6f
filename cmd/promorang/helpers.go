package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promorang/promorang-cli/pkg/client"
	"github.com/promorang/promorang-cli/pkg/config"
	"github.com/promorang/promorang-cli/pkg/logger"
	"github.com/promorang/promorang-cli/pkg/output"
	"github.com/promorang/promorang-cli/pkg/services"
	"github.com/promorang/promorang-cli/pkg/session"
)

// errReported marks a failure the printer has already shown.
var errReported = errors.New("reported")

var errNotAuthenticated = errors.New("not authenticated: run 'promorang login' first")

// currentConfig returns the loaded config, or defaults outside a command run.
func currentConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	return config.Default()
}

// getOutputPrinter creates an output printer based on global flags, falling
// back to render.format.
func getOutputPrinter(cmd *cobra.Command) *output.Printer {
	format := output.ParseFormat(currentConfig().Render.Format)
	if flagJSON {
		format = output.FormatJSON
	} else if flagRaw {
		format = output.FormatRaw
	}

	return output.NewWithWriters(format, flagQuiet, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// fail prints err and returns a non-nil error so the process exits non-zero.
func fail(out *output.Printer, err error) error {
	if perr := out.Error(err); perr != nil {
		return perr
	}
	return errReported
}

func getLogger() logger.Logger {
	c := currentConfig()
	return logger.NewLogger(c.Log.Level, c.Log.Format)
}

// clientOptions returns the transport options shared by every client.
func clientOptions() []client.Option {
	c := currentConfig()
	opts := []client.Option{
		client.WithLogger(getLogger()),
		client.WithRateLimit(c.RateLimit.RPS, c.RateLimit.Burst),
	}
	if c.Timeout > 0 {
		opts = append(opts, client.WithTimeout(c.Timeout))
	}
	return opts
}

// getClient creates an API client authenticated by the stored session.
func getClient() *client.Client {
	opts := append(clientOptions(), client.WithAuthHeaders(session.AuthHeaders))
	return client.New(config.GetAPIUrl(), opts...)
}

func getContentService() *services.ContentService {
	return services.NewContentService(getClient(), services.WithLogger(getLogger()))
}

func getUserService() *services.UserService {
	return services.NewUserService(getClient(), services.WithLogger(getLogger()))
}

func requireAuth(out *output.Printer) error {
	if !session.IsAuthenticated() {
		return fail(out, errNotAuthenticated)
	}
	return nil
}

// confirm asks a yes/no question on the command's stdin. --yes and JSON
// output skip the prompt.
func confirm(cmd *cobra.Command, out *output.Printer, question string) bool {
	if flagYes || out.IsJSON() {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (y/N): ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
