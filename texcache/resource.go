package texcache

import (
	"github.com/waozixyz/iconview/atlas"
	"github.com/waozixyz/iconview/render"
)

// Resource is one uploaded base texture with its active crop. It is owned by
// the cache; callers only borrow it for the current frame.
type Resource struct {
	texture render.BaseTexture
	handle  render.Handle
	width   int
	height  int
	crop    atlas.SubImage
	source  source

	refs     map[tierRef]struct{}
	disposed bool
}

func (r *Resource) Texture() render.BaseTexture { return r.texture }
func (r *Resource) Crop() atlas.SubImage        { return r.crop }

// Alive reports whether the GPU handle is still valid.
func (r *Resource) Alive() bool {
	return r != nil && !r.disposed
}

// DrawRequest is the bridge input for this resource.
func (r *Resource) DrawRequest() render.DrawRequest {
	return render.DrawRequest{
		Handle: r.handle,
		Width:  r.width,
		Height: r.height,
		Crop:   r.crop.Rect(),
	}
}

// exclusiveTo reports whether the resource is observable only through the
// given slot and identity.
func (r *Resource) exclusiveTo(slot SlotKey, identity IdentityKey) bool {
	for ref := range r.refs {
		switch ref.tier {
		case slotTier:
			if ref.slot != slot {
				return false
			}
		case valueTier:
			if ref.identity != identity {
				return false
			}
		}
	}
	return true
}
