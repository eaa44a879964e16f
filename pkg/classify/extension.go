package classify

import (
	"path/filepath"
	"strings"
)

// Recognized suffix groups. These are closed sets: anything outside their
// union flags the batch as IsNone.
var (
	cjsJSSuffixes = map[string]bool{".cjs": true}
	cjsTSSuffixes = map[string]bool{".cts": true}
	esmJSSuffixes = map[string]bool{".js": true, ".mjs": true}
	esmTSSuffixes = map[string]bool{".ts": true, ".mts": true}
	jsxSuffixes   = map[string]bool{".jsx": true, ".tsx": true}
)

// ExtensionSummary holds batch-level homogeneity flags derived from file
// suffixes alone. All flags describe the whole batch, not single files.
type ExtensionSummary struct {
	// IsNone is true when at least one suffix is outside every
	// recognized group.
	IsNone bool `json:"isNone"`
	// IsCjs is true when every suffix is .cjs, or every suffix is .cts.
	IsCjs bool `json:"isCjs"`
	// IsJsx is true when every suffix is JSX-flavored (.jsx or .tsx).
	IsJsx bool `json:"isJsx"`
	// IsJs is true when every suffix is .js or .mjs.
	IsJs bool `json:"isJs"`
	// IsTs is true when every suffix is .ts or .mts.
	IsTs bool `json:"isTs"`
	// IsBoth is IsJs && IsTs. The suffix sets are disjoint, so for any
	// non-empty batch this is false; an empty batch satisfies both
	// all-quantified flags vacuously and reports true. That quirk is
	// load-bearing for callers and is kept as-is.
	IsBoth bool `json:"isBoth"`
}

// ClassifyExtensions classifies a batch of units by file suffix only.
// It never reads source text and never fails; policy on the resulting
// flags belongs to the caller.
func ClassifyExtensions(units []SourceUnit) ExtensionSummary {
	allCjsJS := true
	allCjsTS := true
	allJsx := true
	allJs := true
	allTs := true
	anyNone := false

	for _, unit := range units {
		ext := strings.ToLower(filepath.Ext(unit.Path))

		recognized := cjsJSSuffixes[ext] || cjsTSSuffixes[ext] ||
			esmJSSuffixes[ext] || esmTSSuffixes[ext] || jsxSuffixes[ext]
		if !recognized {
			anyNone = true
		}

		allCjsJS = allCjsJS && cjsJSSuffixes[ext]
		allCjsTS = allCjsTS && cjsTSSuffixes[ext]
		allJsx = allJsx && jsxSuffixes[ext]
		allJs = allJs && esmJSSuffixes[ext]
		allTs = allTs && esmTSSuffixes[ext]
	}

	summary := ExtensionSummary{
		IsNone: anyNone,
		IsCjs:  allCjsJS || allCjsTS,
		IsJsx:  allJsx,
		IsJs:   allJs,
		IsTs:   allTs,
	}
	summary.IsBoth = summary.IsJs && summary.IsTs
	return summary
}
