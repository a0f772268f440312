// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package exreport

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/codeactual/exreport/internal/exreport/source"
)

const (
	// ContextLineCount is the number of source lines captured before and
	// after each fault line.
	ContextLineCount = 7

	// MaxChainLength bounds causal-chain traversal. Cause links are object
	// references which cooperating code could arrange into a cycle or an
	// absurdly deep chain; traversal stops at the cap (and at the first
	// repeated exception identity) instead of hanging.
	MaxChainLength = 100
)

// Reporter walks one exception event and assembles its report.
//
// Each Reporter builds its own state from scratch, so concurrent reporters
// are safe without locking: the only shared inputs are read-only source
// files.
type Reporter struct {
	exc        *Exception
	trace      []TraceEntry
	classifier *Classifier
}

// New returns a Reporter for the head exception and an optional externally
// supplied trace.
//
// The trace serves the single-exception case, mirroring integration points
// that receive (type, value, traceback) tuples; an exception with a
// populated cause chain contributes each member's own recorded trace
// instead. Both exc and trace may be nil/empty: that is the valid
// "nothing to report" state, not an error.
func New(exc *Exception, trace []TraceEntry) *Reporter {
	return &Reporter{exc: exc, trace: trace}
}

// SetClassifier selects the frame kind rules. A nil classifier (the
// default) tags every frame as user code.
func (r *Reporter) SetClassifier(c *Classifier) *Reporter {
	r.classifier = c
	return r
}

// chain returns the causal chain ordered from the head (latest) exception
// back to the root cause, following explicit causes before implicit
// contexts, bounded by MaxChainLength and identity-cycle detection.
func (r *Reporter) chain() []*Exception {
	var chain []*Exception
	seen := make(map[*Exception]bool)
	for exc := r.exc; exc != nil; exc = exc.causeOrContext() {
		if seen[exc] || len(chain) == MaxChainLength {
			break
		}
		seen[exc] = true
		chain = append(chain, exc)
	}
	return chain
}

// Frames returns the complete ordered frame sequence for the causal chain:
// root-cause frames first, each exception's own frames ordered oldest
// caller to fault site.
func (r *Reporter) Frames() []Frame {
	chain := r.chain()

	var frames []Frame
	if len(chain) == 0 {
		return frames
	}

	// Process root-cause first: pop from the tail of the head-to-root chain.
	last := len(chain) - 1
	exc := chain[last]
	chain = chain[:last]

	trace := exc.Trace
	if len(chain) == 0 && len(r.trace) > 0 {
		// Single exception supplied without a populated chain: prefer the
		// externally supplied traceback.
		trace = r.trace
	}

	ordinal := 0
	for {
		for _, t := range trace {
			ordinal++
			if t.Hidden {
				continue
			}

			ctx, ok := source.Lines(t.File, t.Line, ContextLineCount, t.Loader, t.Module)
			if !ok {
				// No source means no usable frame; omit it rather than emit
				// a partial entry.
				continue
			}

			frames = append(frames, Frame{
				File:          t.File,
				Func:          t.Func,
				Line:          t.Line + 1,
				Context:       ctx,
				Kind:          r.classifier.Kind(t.Module, t.File),
				Cause:         exc.causeOrContext(),
				CauseSummary:  exc.causeOrContext().Summary(),
				CauseExplicit: exc.Cause != nil,
				ID:            frameID(t, ordinal),
				RawVars:       append([]RawVar(nil), t.Vars...),
			})
		}

		// Trace consumed; continue with the next exception toward the head.
		if len(chain) == 0 {
			break
		}
		last = len(chain) - 1
		exc = chain[last]
		chain = chain[:last]
		trace = exc.Trace
	}

	return frames
}

// frameID derives a stable opaque identity for one walked entry. The walk
// ordinal disambiguates recursive calls that share a fault site.
func frameID(t TraceEntry, ordinal int) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		return fmt.Sprintf("%d", ordinal)
	}
	fmt.Fprintf(h, "%s|%d|%s|%d", t.File, t.Line, t.Func, ordinal)
	return hex.EncodeToString(h.Sum(nil)[:8])
}
