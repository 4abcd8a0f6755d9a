package shortcode

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// Mirror copies the contents of src into dst. Files already present in dst
// are kept as they are. A missing src has nothing to copy.
func Mirror(src string, dst string) error {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		klog.Infof("%s does not exist, nothing to mirror", src)
		return nil
	}
	klog.Infof("mirroring %s -> %s", src, dst)

	copied := 0
	err := copy.Copy(src, dst, copy.Options{
		OnDirExists: func(_, _ string) copy.DirExistsAction {
			return copy.Merge
		},
		Skip: func(si os.FileInfo, _, dest string) (bool, error) {
			if si.IsDir() {
				return false, nil
			}
			if _, err := os.Stat(dest); err == nil {
				return true, nil
			}
			copied++
			return false, nil
		},
	})
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}

	klog.V(1).Infof("mirrored %d new files to %s", copied, dst)
	return nil
}
