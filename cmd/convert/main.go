package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"convertly-go/internal/client"
	"convertly-go/internal/logger"
	"convertly-go/internal/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Error().Err(err).Msg("conversion failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	v, paths, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger.Init("cli")
	logger.SetLevel(v.GetString("log_level"))

	if len(paths) == 0 {
		return errors.New("no input files, usage: convert [flags] FILE")
	}

	format, err := models.ParseFormat(v.GetString("format"))
	if err != nil {
		return err
	}

	state := client.NewState(format).AddFiles(readFiles(paths))
	for _, r := range state.Rejected {
		fmt.Fprintln(os.Stderr, r.Message)
	}

	state, err = state.BeginSubmit()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	c := client.New(v.GetString("server"), v.GetDuration("timeout"))
	if err := checkServer(ctx, c, state); err != nil {
		return err
	}

	resp, err := c.Convert(ctx, state.Pending, state.Format)
	if err != nil {
		state = state.FailSubmit(err)
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			for _, f := range apiErr.Failed {
				fmt.Fprintf(os.Stderr, "%s: %s (%s)\n", f.Name, f.Error, f.Code)
			}
		}
		return state.Err
	}
	state = state.CompleteSubmit(resp)

	out := v.GetString("out")
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	printSummary(state)

	if v.GetBool("zip") {
		path, err := client.SaveBundle(out, state.Results)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %d files to %s\n", len(state.Results), path)
		return nil
	}

	saved, errs := client.SaveAll(out, state.Results)
	for _, err := range errs {
		fmt.Fprintln(os.Stderr, err)
	}
	fmt.Printf("Saved %d files to %s\n", len(saved), out)
	if len(saved) == 0 {
		return errors.New("no files saved")
	}
	return nil
}

func loadConfig(args []string) (*viper.Viper, []string, error) {
	flags := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	flags.StringP("server", "s", "http://localhost:8080", "conversion service URL")
	flags.StringP("format", "f", "webp", "target format (webp, avif, jpg, jpeg, png)")
	flags.StringP("out", "o", ".", "output directory")
	flags.BoolP("zip", "z", false, "save all results into "+client.ArchiveName)
	flags.Duration("timeout", 2*time.Minute, "request timeout")
	flags.String("log-level", "info", "log level")

	if err := flags.Parse(args); err != nil {
		return nil, nil, err
	}

	v := viper.New()
	v.SetConfigName("convertly")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.SetEnvPrefix("convertly")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for _, name := range []string{"server", "format", "out", "zip", "timeout"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			return nil, nil, err
		}
	}
	if err := v.BindPFlag("log_level", flags.Lookup("log-level")); err != nil {
		return nil, nil, err
	}

	return v, flags.Args(), nil
}

// checkServer compares the request with what the server advertises. A server
// without the formats endpoint is not an error; the upload will tell.
func checkServer(ctx context.Context, c *client.Client, state client.State) error {
	formats, err := c.Formats(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not fetch supported formats")
		return nil
	}
	return checkFormats(formats, state.Format, len(state.Pending))
}

func checkFormats(formats *models.FormatsResponse, format models.Format, files int) error {
	supported := false
	for _, f := range formats.Formats {
		if f == format || (f.IsJPEG() && format.IsJPEG()) {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("server does not support %s, supported formats: %v", format, formats.Formats)
	}
	if formats.MaxFiles > 0 && files > formats.MaxFiles {
		return fmt.Errorf("server accepts at most %d files per upload, got %d", formats.MaxFiles, files)
	}
	return nil
}

// readFiles loads every path, sniffing the content type. Unreadable files
// are reported and skipped.
func readFiles(paths []string) []client.File {
	var files []client.File
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", p, err)
			continue
		}
		mtype, err := mimetype.DetectFile(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", p, err)
			continue
		}
		files = append(files, client.NewFile(filepath.Base(p), data, mtype.String()))
	}
	return files
}

func printSummary(state client.State) {
	for _, f := range state.Results {
		if f.Metadata == nil {
			fmt.Printf("%-30s converted\n", f.Name)
			continue
		}
		fmt.Printf("%-30s %10s -> %-10s %s\n",
			f.Name,
			client.FormatBytes(f.Metadata.Original.Size),
			client.FormatBytes(f.Metadata.Converted.Size),
			client.Savings(f.Metadata.Original.Size, f.Metadata.Converted.Size))
	}
	for _, f := range state.Failed {
		fmt.Fprintf(os.Stderr, "%-30s failed: %s (%s)\n", f.Name, f.Error, f.Code)
	}
}
