package gdext

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // content fingerprint, not a security boundary
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// WriteOutcome reports what WriteTarget did with a generated file.
type WriteOutcome int

const (
	// Skipped means the file already had identical content.
	Skipped WriteOutcome = iota
	// Written means the file did not exist and was created.
	Written
	// Overwritten means existing content was replaced.
	Overwritten
	// RefusedUserModified means a protected resource differs from the
	// generated content and was left alone because Force was not set.
	RefusedUserModified
)

func (o WriteOutcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Written:
		return "written"
	case Overwritten:
		return "overwritten"
	case RefusedUserModified:
		return "refused"
	default:
		return "unknown"
	}
}

// WriteOptions controls WriteTarget.
type WriteOptions struct {
	Force  bool // always write, even over user modifications
	DryRun bool // report the outcome without touching the disk

	// Protected marks a user-editable resource (.gdnlib, .gdns) that must
	// not be clobbered once the user changed it.
	Protected bool

	// PrettyPath is used in log messages instead of the on-disk path.
	PrettyPath string
}

// WrittenFile records the outcome for one generated file.
type WrittenFile struct {
	Path    string
	Outcome WriteOutcome
}

// WriteTarget writes content to path unless the existing file already has
// the same SHA1, or it is a protected resource with different content and
// opts.Force is false.
func WriteTarget(ctx context.Context, path string, content []byte, opts WriteOptions) (WriteOutcome, error) {
	logger := Log(ctx)
	pretty := opts.PrettyPath
	if pretty == "" {
		pretty = path
	}

	existing, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return Skipped, eris.Wrapf(err, "failed to read %s", path)
	}

	if exists && !opts.Force {
		oldHash := sha1.Sum(existing) //nolint:gosec
		newHash := sha1.Sum(content)  //nolint:gosec
		if bytes.Equal(oldHash[:], newHash[:]) {
			logger.Info().Str("path", pretty).Msgf("skip writing %q", pretty)
			return Skipped, nil
		}

		if opts.Protected {
			logger.Warn().Str("path", pretty).Msgf("modified resource already exists: %q", pretty)
			return RefusedUserModified, nil
		}
	}

	outcome := Written
	if exists {
		outcome = Overwritten
	}

	logger.Info().Str("path", pretty).Str("target", path).Msgf("writing %q", pretty)
	if opts.DryRun {
		return outcome, nil
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Skipped, eris.Wrapf(err, "failed to create %s", dir)
		}
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return Skipped, eris.Wrapf(err, "failed to write %s", path)
	}

	return outcome, nil
}
