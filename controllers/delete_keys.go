package controllers

import (
	"net/url"
	"strconv"
	"strings"
)

// parseDeleteKeys extracts ids from form keys of the shape "<prefix>_<id>",
// as submitted by the list views' delete checkboxes. Keys with a different
// prefix or an unparseable id are skipped rather than rejected.
func parseDeleteKeys(form url.Values, prefix string) []uint {
	var ids []uint
	for key := range form {
		rest, found := strings.CutPrefix(key, prefix+"_")
		if !found {
			continue
		}
		id, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
