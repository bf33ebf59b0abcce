package drive

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortFoldersFirst orders items in place: folders before files, each group
// alphabetically by name ignoring case.
func SortFoldersFirst(items Items) {
	// collate.Collator keeps internal buffers and is not safe for concurrent use.
	c := collate.New(language.Und, collate.IgnoreCase)

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if af, bf := a.IsFolder(), b.IsFolder(); af != bf {
			return af
		}
		return c.CompareString(a.Name, b.Name) < 0
	})
}
