// import-album saves the photos of a shared iCloud album into a Hugo site and
// prints photo shortcodes for them. No authentication is needed, but the album
// must be shared via a public link.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/tstromberg/albumcodes/pkg/config"
	"github.com/tstromberg/albumcodes/pkg/sharedalbum"
	"github.com/tstromberg/albumcodes/pkg/shortcode"
)

func main() {
	klog.InitFlags(nil)
	pflag.IntP("width", "w", 0, "Thumbnail width in pixels; the height follows the aspect ratio")
	pflag.String("copy-to", "", "Also copy the downloaded album into this directory, e.g. static/photo")
	pflag.Bool("ai-caption", false, "Suggest captions for photos without one (needs GOOGLE_AI_API_KEY)")
	pflag.String("model", shortcode.DefaultModel, "Gemini model used by --ai-caption")
	pflag.String("config", "", "YAML file with flag defaults")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <token|share URL> [directory (default %s)]\n", os.Args[0], shortcode.DefaultDir)
		pflag.PrintDefaults()
	}
	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	pflag.Parse()

	v, err := config.Load(pflag.CommandLine, "ALBUMCODES")
	if err != nil {
		klog.Exitf("config: %v", err)
	}

	args := pflag.Args()
	if len(args) < 1 || len(args) > 2 {
		pflag.Usage()
		os.Exit(2)
	}

	token, err := sharedalbum.TokenFromURL(args[0])
	if err != nil {
		klog.Exitf("%v", err)
	}

	dir := shortcode.DefaultDir
	if len(args) == 2 {
		dir = args[1]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	a, err := sharedalbum.NewClient().Album(ctx, token)
	if err != nil {
		klog.Exitf("unable to fetch album: %v", err)
	}

	var cp shortcode.Captioner
	if v.GetBool("ai-caption") {
		g, err := shortcode.NewGeminiCaptioner(ctx, os.Getenv("GOOGLE_AI_API_KEY"), v.GetString("model"))
		if err != nil {
			klog.Exitf("captioner: %v", err)
		}
		cp = g
	}

	o := shortcode.ImportOptions{Dir: dir, Width: v.GetInt("width")}
	ps, err := shortcode.Import(ctx, a, o, shortcode.NewDownloader(), cp)
	if err != nil {
		klog.Exitf("import failed: %v", err)
	}

	if dst := v.GetString("copy-to"); dst != "" {
		if err := shortcode.Mirror(filepath.Join(dir, token), filepath.Join(dst, token)); err != nil {
			klog.Exitf("copy failed: %v", err)
		}
	}

	fmt.Println("Shortcodes for the imported images:")
	fmt.Println("---")
	fmt.Println()
	if err := shortcode.Render(os.Stdout, ps); err != nil {
		klog.Exitf("render: %v", err)
	}
}
