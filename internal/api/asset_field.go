package api

import (
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/services"
)

// AssetField addresses one image slot of a listing: "icon", "screenshot"
// (append) or "screenshot:N" (replace the N-th, zero-based).
type AssetField struct {
	Screenshot bool
	Index      int
}

// IconField addresses the listing icon.
var IconField = AssetField{}

// ParseAssetField parses the textual field name used by the admin routes.
func ParseAssetField(raw string) (AssetField, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch {
	case raw == "icon":
		return IconField, nil
	case raw == "screenshot":
		return AssetField{Screenshot: true, Index: -1}, nil
	case strings.HasPrefix(raw, "screenshot:"):
		idx, err := strconv.Atoi(strings.TrimPrefix(raw, "screenshot:"))
		if err != nil || idx < 0 || idx >= catalog.MaxScreenshots {
			return AssetField{}, services.Wrap(services.ErrValidation, "api", "asset field",
				fmt.Sprintf("invalid screenshot index in %q", raw), nil)
		}
		return AssetField{Screenshot: true, Index: idx}, nil
	default:
		return AssetField{}, services.Wrap(services.ErrValidation, "api", "asset field",
			fmt.Sprintf("unknown field %q", raw), nil)
	}
}

func (f AssetField) String() string {
	switch {
	case !f.Screenshot:
		return "icon"
	case f.Index < 0:
		return "screenshot"
	default:
		return "screenshot:" + strconv.Itoa(f.Index)
	}
}

// current returns the stored value of the slot, or "" when it is empty.
func (f AssetField) current(rec *catalog.Record) string {
	if !f.Screenshot {
		return rec.IconURL
	}
	if f.Index >= 0 && f.Index < len(rec.Screenshots) {
		return rec.Screenshots[f.Index]
	}
	return ""
}

// apply writes value into the slot and returns the concrete field written.
func (f AssetField) apply(rec *catalog.Record, value string) (AssetField, error) {
	if !f.Screenshot {
		rec.IconURL = value
		return f, nil
	}
	switch {
	case f.Index < 0 || f.Index == len(rec.Screenshots):
		if len(rec.Screenshots) >= catalog.MaxScreenshots {
			return f, services.Wrap(services.ErrValidation, "api", "asset field",
				fmt.Sprintf("listing already has %d screenshots", catalog.MaxScreenshots), nil)
		}
		rec.Screenshots = append(rec.Screenshots, value)
		return AssetField{Screenshot: true, Index: len(rec.Screenshots) - 1}, nil
	case f.Index < len(rec.Screenshots):
		rec.Screenshots[f.Index] = value
		return f, nil
	default:
		return f, services.Wrap(services.ErrValidation, "api", "asset field",
			fmt.Sprintf("screenshot %d does not exist", f.Index), nil)
	}
}
