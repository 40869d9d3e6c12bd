// Package main provides the annotkit command-line tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/annotkit/annotkit/internal/gff"
	"github.com/annotkit/annotkit/internal/lineio"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile string
	verbose bool

	logger = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "annotkit",
		Short:   "Toolkit for GFF3/GTF annotation files and VCF allele encodings",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			if verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				logger = l
			}
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.annotkit.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newViewCmd())
	root.AddCommand(newAlleleCmd())
	root.AddCommand(newLoadCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newConfigCmd())

	return root
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		viper.SetConfigFile(filepath.Join(home, ".annotkit.yaml"))
	}
	viper.SetEnvPrefix("annotkit")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// detectFormat resolves the annotation dialect from an explicit flag
// value or the file name.
func detectFormat(flagValue, path string) (string, error) {
	switch flagValue {
	case "gff3", "gtf":
		return flagValue, nil
	case "", "auto":
	default:
		return "", fmt.Errorf("unknown format %q (want gff3 or gtf)", flagValue)
	}

	name := strings.ToLower(path)
	for _, ext := range []string{".gz", ".bgz", ".gzip"} {
		name = strings.TrimSuffix(name, ext)
	}
	switch {
	case strings.HasSuffix(name, ".gtf"):
		return "gtf", nil
	case strings.HasSuffix(name, ".gff3"), strings.HasSuffix(name, ".gff"):
		return "gff3", nil
	}
	return "", fmt.Errorf("cannot detect format of %q, pass --format", path)
}

// featureDecoder is the streaming side shared by both codecs.
type featureDecoder interface {
	Decode() (*gff.Feature, error)
	Done() bool
	SetLogger(*zap.Logger)
}

func openDecoder(path, format string, depth gff.DecodeDepth) (featureDecoder, *lineio.Reader, error) {
	format, err := detectFormat(format, path)
	if err != nil {
		return nil, nil, err
	}
	src, err := lineio.Open(path)
	if err != nil {
		return nil, nil, err
	}
	var dec featureDecoder
	if format == "gtf" {
		dec = gff.NewGtfCodec(src, depth)
	} else {
		dec = gff.NewGff3Codec(src, depth)
	}
	dec.SetLogger(logger)
	return dec, src, nil
}
