package model

import "time"

// MediaKind classifies a media item.
type MediaKind string

const (
	MediaImage   MediaKind = "image"
	MediaVideo   MediaKind = "video"
	MediaPodcast MediaKind = "podcast"
	MediaArticle MediaKind = "article"
)

// MediaItem is a published media appearance or asset.
// AssetID is the opaque id the upload provider returned.
type MediaItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Kind        MediaKind  `json:"kind"`
	URL         string     `json:"url"`
	AssetID     string     `json:"assetId,omitempty"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// FilterMedia matches query against the title.
func FilterMedia(items []MediaItem, query string) []MediaItem {
	return filter(items, query, func(m MediaItem) []string {
		return []string{m.Title}
	})
}

// FilterMediaByKind keeps items of kind.
func FilterMediaByKind(items []MediaItem, kind string) []MediaItem {
	return equalFold(items, kind, func(m MediaItem) string { return string(m.Kind) })
}
