// Command thumbcache generates cached thumbnails from the command line.
//
// Sources are read from a local directory by default; thumbnails go to
// a local directory or an S3-compatible bucket.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmgilman/thumbcache/imaging"
	"github.com/jmgilman/thumbcache/storage"
	"github.com/jmgilman/thumbcache/storage/local"
	"github.com/jmgilman/thumbcache/storage/miniofs"
	"github.com/jmgilman/thumbcache/thumbnail"
)

type genFlags struct {
	size    string
	quality int
	crop    bool
	upscale bool
	noSave  bool

	sourceRoot string
	thumbRoot  string
	baseDir    string
	subDir     string
	prefix     string
	extension  string
	format     string

	minioEndpoint  string
	minioBucket    string
	minioAccessKey string
	minioSecretKey string
	minioPrefix    string
	minioSSL       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "thumbcache",
		Short:         "Generate and cache image thumbnails",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newGenCmd())
	return root
}

func newGenCmd() *cobra.Command {
	flags := &genFlags{}

	cmd := &cobra.Command{
		Use:   "gen SOURCE",
		Short: "Generate a thumbnail for a source image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.size, "size", "s", "", "target size as WxH (required)")
	cmd.Flags().IntVarP(&flags.quality, "quality", "q", 0, "encoding quality 1-100 (default 85)")
	cmd.Flags().BoolVar(&flags.crop, "crop", false, "crop to the exact target size")
	cmd.Flags().BoolVar(&flags.upscale, "upscale", false, "allow enlarging small images")
	cmd.Flags().BoolVar(&flags.noSave, "no-save", false, "generate without writing to the cache")

	cmd.Flags().StringVar(&flags.sourceRoot, "source-root", ".", "directory holding source images")
	cmd.Flags().StringVar(&flags.thumbRoot, "thumb-root", "", "directory for thumbnails (default: source root)")
	cmd.Flags().StringVar(&flags.baseDir, "base-dir", "", "directory template prepended to thumbnail names")
	cmd.Flags().StringVar(&flags.subDir, "sub-dir", "", "directory template inserted before the filename")
	cmd.Flags().StringVar(&flags.prefix, "prefix", "", "filename prefix for thumbnails")
	cmd.Flags().StringVar(&flags.extension, "ext", "", "force the thumbnail extension")
	cmd.Flags().StringVar(&flags.format, "format", "", "output encoding: jpeg, png, or gif (default jpeg)")

	cmd.Flags().StringVar(&flags.minioEndpoint, "minio-endpoint", "", "S3 endpoint for the thumbnail store")
	cmd.Flags().StringVar(&flags.minioBucket, "minio-bucket", "", "S3 bucket for the thumbnail store")
	cmd.Flags().StringVar(&flags.minioAccessKey, "minio-access-key", "", "S3 access key")
	cmd.Flags().StringVar(&flags.minioSecretKey, "minio-secret-key", "", "S3 secret key")
	cmd.Flags().StringVar(&flags.minioPrefix, "minio-prefix", "", "key prefix inside the bucket")
	cmd.Flags().BoolVar(&flags.minioSSL, "minio-ssl", false, "use TLS for the S3 endpoint")

	_ = cmd.MarkFlagRequired("size")

	return cmd
}

func runGen(cmd *cobra.Command, sourceName string, flags *genFlags) error {
	size, err := parseSize(flags.size)
	if err != nil {
		return err
	}

	sourceBackend, err := local.New(flags.sourceRoot)
	if err != nil {
		return err
	}
	thumbBackend, err := buildThumbBackend(sourceBackend, flags)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

	thumbnailer, err := thumbnail.New(sourceName, thumbnail.Config{
		SourceBackend:    sourceBackend,
		ThumbnailBackend: thumbBackend,
		Engine:           &imaging.Engine{Format: imaging.Format(flags.format)},
		BaseDir:          flags.baseDir,
		SubDir:           flags.subDir,
		Prefix:           flags.prefix,
		Quality:          flags.quality,
		Extension:        flags.extension,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	opts := thumbnail.Options{Size: size, Extra: map[string]interface{}{}}
	if flags.crop {
		opts.Extra["crop"] = true
	}
	if flags.upscale {
		opts.Extra["upscale"] = true
	}

	var artifact *thumbnail.Artifact
	if flags.noSave {
		artifact, err = thumbnailer.GetUncommitted(opts)
	} else {
		artifact, err = thumbnailer.Get(opts)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), artifact.Name())
	return nil
}

// buildThumbBackend selects the thumbnail store: an S3 bucket when an
// endpoint is given, a separate local directory when thumb-root is set,
// otherwise the source backend itself.
func buildThumbBackend(source storage.Backend, flags *genFlags) (storage.Backend, error) {
	if flags.minioEndpoint != "" {
		return miniofs.New(miniofs.Config{
			Endpoint:  flags.minioEndpoint,
			Bucket:    flags.minioBucket,
			AccessKey: flags.minioAccessKey,
			SecretKey: flags.minioSecretKey,
			UseSSL:    flags.minioSSL,
			Prefix:    flags.minioPrefix,
		})
	}
	if flags.thumbRoot != "" {
		return local.New(flags.thumbRoot)
	}
	return source, nil
}

// parseSize parses "WxH" into a Size.
func parseSize(value string) (thumbnail.Size, error) {
	w, h, ok := strings.Cut(value, "x")
	if !ok {
		return thumbnail.Size{}, fmt.Errorf("size %q is not of the form WxH", value)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return thumbnail.Size{}, fmt.Errorf("size %q has a bad width: %w", value, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return thumbnail.Size{}, fmt.Errorf("size %q has a bad height: %w", value, err)
	}
	return thumbnail.Size{Width: width, Height: height}, nil
}
