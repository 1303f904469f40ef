package gdext

import (
	"runtime"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Overridden in tests.
var (
	hostOS   = runtime.GOOS
	hostBits = strconv.IntSize
)

var godotPlatforms = map[string]string{
	"darwin":  "OSX.64",
	"linux":   "X11.64",
	"windows": "Windows.64",
}

// GodotPlatform returns the .gdnlib entry key for the host, e.g. "X11.64".
// Only 64-bit Linux, macOS and Windows hosts are supported.
func GodotPlatform() (string, error) {
	platform, ok := godotPlatforms[hostOS]
	if !ok {
		return "", eris.Wrapf(ErrUnsupportedPlatform, "can't build for '%s' platform yet", hostOS)
	}

	if hostBits <= 32 {
		return "", eris.Wrap(ErrUnsupportedPlatform, "32-bit platforms are not supported")
	}

	return platform, nil
}

// DefaultExtSuffix is the suffix the packaging tool gives compiled
// extension modules on the host.
func DefaultExtSuffix() string {
	if hostOS == "windows" {
		return ".pyd"
	}
	return ".so"
}

// staticLibraryName is the bindings library a native build links against,
// e.g. "libpygodot.x11.debug.64".
func staticLibraryName(platform string) string {
	family := strings.ToLower(strings.SplitN(platform, ".", 2)[0])
	return "libpygodot." + family + ".debug.64"
}
