package record

import (
	"fmt"

	"github.com/engramhq/engram/internal/validation"
)

// Validate checks the invariants from §3 that span a whole assembled
// record: id shape, id/ref agreement (left to the caller, which knows the
// ref path), token-usage arithmetic, and source_hash/capture_mode coupling.
func (d *Data) Validate() error {
	if err := validation.ValidateEngramID(string(d.Manifest.ID)); err != nil {
		return fmt.Errorf("record: invalid manifest id: %w", err)
	}
	if !d.Manifest.ID.Full() {
		return fmt.Errorf("record: manifest id %q is not a full 32-character id", d.Manifest.ID)
	}

	wantTotal := d.Manifest.TokenUsage.Input + d.Manifest.TokenUsage.Output
	if d.Manifest.TokenUsage.Total != wantTotal {
		return fmt.Errorf("record: token_usage.total = %d, want input+output = %d",
			d.Manifest.TokenUsage.Total, wantTotal)
	}

	hasSourceHash := d.Manifest.SourceHash != ""
	isImport := d.Manifest.CaptureMode == CaptureModeImport
	if hasSourceHash != isImport {
		return fmt.Errorf("record: source_hash present=%v must equal capture_mode=import (got %q)",
			hasSourceHash, d.Manifest.CaptureMode)
	}

	// manifest.git_commits is a superset of lineage.git_commits in practice
	// (§3); this is a convention enforced at the write sites (store.AttachCommit),
	// not a hard invariant checked here, since both may be legitimately
	// empty at creation time.
	return nil
}
