// Package merge implements the conflict resolution strategies. Each
// strategy produces a merged payload from the base (common ancestor),
// current, and incoming versions of a conflicted content item; the caller
// commits the result as a new version.
package merge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/pkg/diff"
)

// Input carries the three payloads of a conflicted edit plus the
// caller-supplied resolution data.
type Input struct {
	Base     string
	Current  string
	Incoming string
	Data     *domain.ResolutionData
}

// Strategy is one resolution algorithm
type Strategy interface {
	Name() string
	Merge(in Input) (string, error)
}

var registry = map[string]Strategy{
	domain.StrategySemantic:  semanticStrategy{},
	domain.StrategySectional: sectionalStrategy{},
	domain.StrategyHybrid:    hybridStrategy{},
	domain.StrategyManual:    manualStrategy{},
}

// Get returns the strategy registered under the given name
func Get(name string) (Strategy, bool) {
	s, ok := registry[name]
	return s, ok
}

// Strategies lists the registered strategy names
func Strategies() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// semanticStrategy auto-merges line by line against the common base.
// Segments both sides changed differently take the incoming side: the
// conflicted edit was the one explicitly being resolved, so its content
// wins where no better information exists.
type semanticStrategy struct{}

func (semanticStrategy) Name() string { return domain.StrategySemantic }

func (semanticStrategy) Merge(in Input) (string, error) {
	merged := threeWay(in.Base, in.Current, in.Incoming, func(_ int, _, incoming []string) []string {
		return incoming
	})
	return merged, nil
}

// sectionalStrategy merges by named regions: the current payload must be a
// JSON object, and each entry of Data.Sections overwrites the matching
// top-level field.
type sectionalStrategy struct{}

func (sectionalStrategy) Name() string { return domain.StrategySectional }

func (sectionalStrategy) Merge(in Input) (string, error) {
	if in.Data == nil || len(in.Data.Sections) == 0 {
		return "", fmt.Errorf("%w: sectional resolution requires sections", common.ErrInvalidArgument)
	}
	return mergeSections(in.Current, in.Data.Sections)
}

// hybridStrategy auto-merges like semantic, but unmergeable segments fall
// back to the caller's sections, keyed conflict_0, conflict_1, ... in
// document order. Segments without a section take the incoming side.
type hybridStrategy struct{}

func (hybridStrategy) Name() string { return domain.StrategyHybrid }

func (hybridStrategy) Merge(in Input) (string, error) {
	merged := threeWay(in.Base, in.Current, in.Incoming, func(idx int, _, incoming []string) []string {
		if in.Data != nil {
			if text, ok := in.Data.Sections[fmt.Sprintf("conflict_%d", idx)]; ok {
				return diff.SplitLines(text)
			}
		}
		return incoming
	})
	return merged, nil
}

// manualStrategy takes the caller's payload verbatim
type manualStrategy struct{}

func (manualStrategy) Name() string { return domain.StrategyManual }

func (manualStrategy) Merge(in Input) (string, error) {
	if in.Data == nil || in.Data.Payload == "" {
		return "", fmt.Errorf("%w: manual resolution requires a payload", common.ErrInvalidArgument)
	}
	return in.Data.Payload, nil
}

func mergeSections(current string, sections map[string]string) (string, error) {
	obj, ok := diff.DecodePayload(current)
	if !ok {
		return "", fmt.Errorf("%w: payload is not a JSON object, cannot merge by section", common.ErrInvalidArgument)
	}
	p := &diff.Patch{}
	for name, text := range sections {
		p.Ops = append(p.Ops, diff.PatchOp{Op: diff.OpSet, Path: []string{name}, Value: text})
	}
	return encodePayload(diff.ApplyPatch(obj, p))
}

func encodePayload(obj map[string]interface{}) (string, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	return string(b), nil
}

// threeWay merges current and incoming against their common base. Stable
// lines (kept by both sides) anchor the merge; between anchors, a segment
// changed on only one side takes that side, and segments changed on both
// sides go through onConflict with their ordinal.
func threeWay(base, current, incoming string, onConflict func(idx int, current, incoming []string) []string) string {
	baseLines := diff.SplitLines(base)
	curLines := diff.SplitLines(current)
	incLines := diff.SplitLines(incoming)

	curMatch := matchToBase(base, current)
	incMatch := matchToBase(base, incoming)

	var out []string
	conflicts := 0
	basePos, curPos, incPos := 0, 0, 0
	for bi := 0; bi <= len(baseLines); bi++ {
		ci, curKept := curMatch[bi]
		ii, incKept := incMatch[bi]
		atEnd := bi == len(baseLines)
		if !atEnd && (!curKept || !incKept) {
			continue
		}
		var curEnd, incEnd int
		if atEnd {
			curEnd, incEnd = len(curLines), len(incLines)
		} else {
			curEnd, incEnd = ci, ii
		}
		baseSeg := baseLines[basePos:bi]
		curSeg := curLines[curPos:curEnd]
		incSeg := incLines[incPos:incEnd]
		switch {
		case linesEqual(curSeg, incSeg):
			out = append(out, curSeg...)
		case linesEqual(curSeg, baseSeg):
			out = append(out, incSeg...)
		case linesEqual(incSeg, baseSeg):
			out = append(out, curSeg...)
		default:
			out = append(out, onConflict(conflicts, curSeg, incSeg)...)
			conflicts++
		}
		if !atEnd {
			out = append(out, baseLines[bi])
			basePos = bi + 1
			curPos = curEnd + 1
			incPos = incEnd + 1
		}
	}
	return strings.Join(out, "\n")
}

// matchToBase maps each base line index kept by the side to the side's
// line index for that line.
func matchToBase(base, side string) map[int]int {
	matches := make(map[int]int)
	for _, op := range diff.LineDiff(base, side) {
		if op.Type == diff.Equal {
			matches[op.OldLine-1] = op.NewLine - 1
		}
	}
	return matches
}

func linesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
