// Command bloomgen sends a photo to a bloom gateway and saves the generated
// sculpture, retrying transient failures.
//
// Usage:
//
//	bloomgen portrait.jpg --style chibi --out sculpture.png
//	bloomgen styles
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var opts = options{}

var rootCmd = &cobra.Command{
	Use:   "bloomgen <photo>",
	Short: "Turn a photo into a flower sculpture",
	Long: `Sends a photo to a bloom gateway and writes the generated image.

Transient failures (network errors, upstream outages) are retried with
exponential backoff. Rate limits, safety blocks and invalid input are not.

Example:
  bloomgen portrait.jpg --style ghibli --out sculpture.png --url http://localhost:8080`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts.photoPath = args[0]

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return generate(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the available styles",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listStyles(cmd.OutOrStdout())
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&opts.url, "url", "http://localhost:8080", "Gateway base URL (or set BLOOM_URL env)")
	flags.StringVarP(&opts.style, "style", "s", "realistic", "Style key (see 'bloomgen styles')")
	flags.StringVarP(&opts.out, "out", "o", "", "Output file (default: <photo>-<style>.<ext>)")
	flags.IntVar(&opts.retries, "retries", 2, "Retries after the first attempt")
	flags.DurationVar(&opts.baseDelay, "base-delay", time.Second, "Delay before the first retry; doubles each retry")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print retry progress")

	rootCmd.AddCommand(stylesCmd)
}

func main() {
	if url := os.Getenv("BLOOM_URL"); url != "" {
		opts.url = url
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
