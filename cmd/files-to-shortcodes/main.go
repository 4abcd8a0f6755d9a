// files-to-shortcodes prints photo shortcodes for the images in a directory.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/barasher/go-exiftool"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/tstromberg/albumcodes/pkg/config"
	"github.com/tstromberg/albumcodes/pkg/shortcode"
)

func main() {
	klog.InitFlags(nil)
	pflag.IntP("width", "w", 0, "Thumbnail width in pixels for width priority shortcodes (standalone)")
	pflag.IntP("height", "h", 0, "Thumbnail height in pixels for height priority shortcodes (gallery tiles)")
	pflag.Bool("exif", false, "Read captions from image metadata (needs exiftool)")
	pflag.Bool("watch", false, "Print shortcodes again whenever the directory changes")
	pflag.Bool("ai-caption", false, "Suggest captions for images without one (needs GOOGLE_AI_API_KEY)")
	pflag.String("model", shortcode.DefaultModel, "Gemini model used by --ai-caption")
	pflag.String("config", "", "YAML file with flag defaults")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <directory>\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	pflag.Parse()

	v, err := config.Load(pflag.CommandLine, "ALBUMCODES")
	if err != nil {
		klog.Exitf("config: %v", err)
	}

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}
	dir := pflag.Arg(0)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	o := shortcode.FindOptions{
		Width:  v.GetInt("width"),
		Height: v.GetInt("height"),
	}

	if v.GetBool("exif") {
		et, err := exiftool.NewExiftool()
		if err != nil {
			klog.Exitf("exiftool failed: %v", err)
		}
		defer et.Close()
		o.Exif = et
	}

	if v.GetBool("ai-caption") {
		g, err := shortcode.NewGeminiCaptioner(ctx, os.Getenv("GOOGLE_AI_API_KEY"), v.GetString("model"))
		if err != nil {
			klog.Exitf("captioner: %v", err)
		}
		o.Captioner = g
	}

	if err := emit(ctx, dir, o); err != nil {
		klog.Exitf("%v", err)
	}

	if v.GetBool("watch") {
		if err := watch(ctx, dir, o); err != nil {
			klog.Exitf("watch failed: %v", err)
		}
	}
}

func emit(ctx context.Context, dir string, o shortcode.FindOptions) error {
	ps, err := shortcode.Find(ctx, dir, o)
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}
	return shortcode.Render(os.Stdout, ps)
}

// watch prints fresh shortcodes whenever images in dir change.
func watch(ctx context.Context, dir string, o shortcode.FindOptions) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("add %s: %w", dir, err)
	}
	klog.Infof("watching %s ...", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %v", event)
			if !shortcode.IsImage(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				fmt.Println()
				if err := emit(ctx, dir, o); err != nil {
					klog.Errorf("rescan failed: %v", err)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
